package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName      = "session"
	SessionLifetime = 8 * time.Hour
)

type sessionClaims struct {
	UserID     int64  `json:"userId"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// SessionCodec turns an Identity into a signed cookie value and back.
type SessionCodec struct {
	secret []byte
	secure bool
	now    func() time.Time
}

func NewSessionCodec(secret string, secure bool) *SessionCodec {
	return &SessionCodec{secret: []byte(secret), secure: secure, now: time.Now}
}

func (c *SessionCodec) Encode(id Identity) (string, error) {
	if _, ok := ParseRole(string(id.Role)); !ok || id.ID <= 0 || id.Email == "" {
		return "", errors.New("refusing to encode incomplete identity")
	}
	now := c.now()
	claims := sessionClaims{
		UserID:     id.ID,
		Email:      id.Email,
		GivenName:  id.GivenName,
		FamilyName: id.FamilyName,
		Role:       string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode never reports why a value was rejected; any failure means there is
// no session.
func (c *SessionCodec) Decode(value string) (Identity, bool) {
	claims, ok := c.parse(value)
	if !ok {
		return Identity{}, false
	}
	return Identity{
		ID:         claims.UserID,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
		Email:      claims.Email,
		Role:       Role(claims.Role),
	}, true
}

// NeedsRefresh reports whether a valid session has used up more than half of
// its lifetime and should be re-issued.
func (c *SessionCodec) NeedsRefresh(value string) bool {
	claims, ok := c.parse(value)
	if !ok {
		return false
	}
	return claims.ExpiresAt.Time.Sub(c.now()) < SessionLifetime/2
}

func (c *SessionCodec) parse(value string) (*sessionClaims, bool) {
	if value == "" {
		return nil, false
	}
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}
	if claims.UserID <= 0 || claims.Email == "" {
		return nil, false
	}
	if _, ok := ParseRole(claims.Role); !ok {
		return nil, false
	}
	return claims, true
}

// Cookie builds the Set-Cookie value carrying a fresh session for id.
func (c *SessionCodec) Cookie(id Identity) (*http.Cookie, error) {
	value, err := c.Encode(id)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(SessionLifetime / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

func (c *SessionCodec) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// FromRequest decodes the session cookie of r.
func (c *SessionCodec) FromRequest(r *http.Request) (Identity, string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Identity{}, "", false
	}
	id, ok := c.Decode(cookie.Value)
	return id, cookie.Value, ok
}
