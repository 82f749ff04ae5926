package adapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// errorBody covers both the auth API shape ({msg, error_code} or
// {error, error_description}) and the data API shape ({message, code, hint, details}).
type errorBody struct {
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	ErrorCode        string          `json:"error_code"`
	Code             json.RawMessage `json:"code"`
	Hint             string          `json:"hint"`
	Details          json.RawMessage `json:"details"`
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode(), kind: statusKind(resp.StatusCode())}

	raw := strings.TrimSpace(string(resp.Body()))
	var body errorBody
	if raw != "" && json.Unmarshal(resp.Body(), &body) == nil {
		apiErr.Message = firstNonEmpty(body.Msg, body.Message)
		apiErr.Description = body.ErrorDescription
		apiErr.Code = firstNonEmpty(body.ErrorCode, rawString(body.Code), body.Error)
		apiErr.Hint = body.Hint
		apiErr.Details = rawString(body.Details)
		if apiErr.Message == "" && apiErr.Description == "" {
			apiErr.Message = body.Error
		}
	} else if raw != "" {
		apiErr.Message = raw
	}

	return apiErr
}

func statusKind(status int) error {
	switch status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusNotAcceptable:
		return ErrNotAcceptable
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnprocessableEntity:
		return ErrUnprocessable
	case http.StatusTooManyRequests:
		return ErrTooManyRequests
	case http.StatusInternalServerError:
		return ErrInternalServerError
	case http.StatusBadGateway:
		return ErrBadGateway
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrServiceUnavailable
	default:
		return ErrUnexpectedStatus
	}
}

// rawString renders a JSON string or number as text and anything else verbatim.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}

	return string(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
