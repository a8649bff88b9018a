// Package auth issues and verifies the signed cookie session token.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "token"
	tokenTTL   = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the authenticated identity. Exactly one of UserID and
// AdminID is set.
type Claims struct {
	UserID  string `json:"userId,omitempty"`
	AdminID string `json:"adminId,omitempty"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

type Tokens struct {
	Secret       string
	CookieSecure bool
	Now          func() time.Time
}

func (t *Tokens) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Tokens) issue(c Claims) (string, error) {
	now := t.now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(tokenTTL))
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString([]byte(t.Secret))
}

func (t *Tokens) IssueUser(userID, role string) (string, error) {
	return t.issue(Claims{UserID: userID, Role: role})
}

func (t *Tokens) IssueAdmin(adminID, role string) (string, error) {
	return t.issue(Claims{AdminID: adminID, Role: role})
}

func (t *Tokens) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return []byte(t.Secret), nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Role == "" || (claims.UserID == "" && claims.AdminID == "") {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SetCookie attaches the session token as the HTTP-only cookie.
func (t *Tokens) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(tokenTTL.Seconds()),
	})
}

func (t *Tokens) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   t.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
