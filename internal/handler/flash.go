package handler

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"
)

const (
	flashCookie = "flash"
	flashMaxAge = 300
)

// Flash carries a one-shot message across a redirect in a signed cookie.
// A nil *Flash drops messages.
type Flash struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// NewFlash signs cookies with hashKey. An empty key is replaced by a random
// one, so messages do not survive a restart.
func NewFlash(hashKey []byte, secure bool) *Flash {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	sc := securecookie.New(hashKey, nil)
	sc.MaxAge(flashMaxAge)
	return &Flash{sc: sc, secure: secure}
}

// Set stores msg for the next request.
func (f *Flash) Set(c echo.Context, msg string) {
	if f == nil {
		return
	}
	value, err := f.sc.Encode(flashCookie, msg)
	if err != nil {
		c.Logger().Warnf("flash: encode: %v", err)
		return
	}
	c.SetCookie(f.cookie(value, flashMaxAge))
}

// Pop returns the pending message, if any, and clears it.
func (f *Flash) Pop(c echo.Context) string {
	if f == nil {
		return ""
	}
	ck, err := c.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	c.SetCookie(f.cookie("", -1))
	var msg string
	if err := f.sc.Decode(flashCookie, ck.Value, &msg); err != nil {
		return ""
	}
	return msg
}

func (f *Flash) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
