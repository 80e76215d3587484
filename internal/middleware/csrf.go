package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
)

// Names the booking and menu pages use to send the token back.
const (
	CSRFFieldName  = "csrfmiddlewaretoken"
	CSRFHeaderName = "X-CSRFToken"
)

// CSRF protects unsafe methods with gorilla/csrf. An empty key disables the
// check, which is what tests and local runs without CSRF_KEY get.
func CSRF(key []byte, secure bool) echo.MiddlewareFunc {
	if len(key) == 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(CSRFFieldName),
		csrf.RequestHeader(CSRFHeaderName),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)
	return echo.WrapMiddleware(protect)
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	reason := "CSRF verification failed"
	if err := csrf.FailureReason(r); err != nil {
		reason = reason + ": " + err.Error()
	}
	if r.Header.Get(echo.HeaderXRequestedWith) == XMLHTTPRequest {
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": reason})
		return
	}
	http.Error(w, reason, http.StatusForbidden)
}
