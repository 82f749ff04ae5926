package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/ubuntu-pools/internal/app"
	"github.com/MKhiriev/ubuntu-pools/internal/backend"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/utils"
)

// fragmentRelay re-requests the page with the URL fragment moved into the
// query string. Browsers never send the fragment, and the implicit flow puts
// the tokens there.
const fragmentRelay = `<!doctype html>
<html><head><meta charset="utf-8"><title>Signing in</title></head>
<body><noscript>` + app.MsgCallbackNeedsScript + `</noscript>
<script>
if (location.hash.length > 1) {
  location.replace(location.pathname + "?" + location.hash.substring(1));
} else {
  document.body.textContent = "` + app.MsgCallbackNoSession + `";
}
</script></body></html>
`

func (h *Handler) authCallback(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	session, redirectType, err := h.callback.SessionFromURL(r.Context(), r.URL.String())
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrNoSessionInURL) && r.URL.RawQuery == "":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(fragmentRelay))
			return
		case errors.Is(err, backend.ErrURLDetectionDisabled):
			log.Warn().Msg("auth redirect received while url session detection is off")
			_, _ = utils.WriteText(w, app.MsgCallbackDisabled, http.StatusNotFound)
			return
		default:
			log.Err(err).Str("func", "Handler.authCallback").Msg("auth redirect rejected")
			_, _ = utils.WriteText(w, backend.ErrorMessage(err), http.StatusBadRequest)
			return
		}
	}

	log.Info().
		Str("user_id", session.User.ID).
		Str("type", redirectType).
		Msg("session adopted from redirect")

	if h.OnSession != nil {
		h.OnSession(CallbackResult{Session: session, Type: redirectType})
	}

	_, _ = utils.WriteText(w, callbackMessage(redirectType, session.User.Email), http.StatusOK)
}

func callbackMessage(redirectType, email string) string {
	switch redirectType {
	case backend.RedirectTypeRecovery:
		return fmt.Sprintf(app.MsgCallbackRecovery, email)
	case backend.RedirectTypeSignup, backend.RedirectTypeInvite:
		return fmt.Sprintf(app.MsgCallbackConfirmed, email)
	default:
		return fmt.Sprintf(app.MsgCallbackSignedIn, email)
	}
}
