package http

import (
	"net/http"

	"github.com/MKhiriev/ubuntu-pools/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// withTraceID takes the request id from X-Request-Id or generates one, puts
// it on the response, the request logger and the context. Backend calls
// made while serving the request reuse it.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(utils.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", requestID)
		})

		ctx := utils.WithRequestID(l.WithContext(r.Context()), requestID)
		w.Header().Set(utils.HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
