package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	SessionCookieName = "sid"
	TokenCookieName   = "token"
)

// SessionCookie signs session ids with HMAC-SHA256 so a client cannot
// forge or swap them. Value format: <id>.<base64url(mac)>
type SessionCookie struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
}

func (sc SessionCookie) sign(id string) string {
	mac := hmac.New(sha256.New, sc.Secret)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verify returns the session id carried by value when its signature holds.
func (sc SessionCookie) verify(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", false
	}
	id := value[:i]
	got, err := base64.RawURLEncoding.DecodeString(value[i+1:])
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, sc.Secret)
	mac.Write([]byte(id))
	if !hmac.Equal(got, mac.Sum(nil)) {
		return "", false
	}
	return id, true
}

// read returns the verified session id from the request, if any.
func (sc SessionCookie) read(c echo.Context) (string, bool) {
	ck, err := c.Cookie(SessionCookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return sc.verify(ck.Value)
}

func (sc SessionCookie) write(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    sc.sign(id),
		Path:     "/",
		MaxAge:   int(sc.TTL.Seconds()),
		Expires:  time.Now().Add(sc.TTL),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (sc SessionCookie) clear(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
