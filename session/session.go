// Package session issues and verifies the signed identity token carried in
// the session cookie.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sayanchanda7290/roomradar/apperr"
	"github.com/sayanchanda7290/roomradar/config"
)

type Identity struct {
	UserID string
	Email  string
}

// Claims carries the identity; there is no expiry claim.
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret     []byte
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewManager(cfg config.SessionConfig) *Manager {
	name := cfg.CookieName
	if name == "" {
		name = "token"
	}
	return &Manager{
		secret:     []byte(cfg.Secret),
		cookieName: name,
		secure:     cfg.SecureCookie,
		now:        time.Now,
	}
}

// Issue signs a token for id. Tokens stay valid until the secret changes.
func (m *Manager) Issue(id Identity) (string, error) {
	claims := &Claims{
		Email:  id.Email,
		UserID: id.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(m.now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, "failed to sign token", err)
	}
	return signed, nil
}

func (m *Manager) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, apperr.New(apperr.Unauthenticated, "Missing token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, apperr.Wrap(apperr.Unauthenticated, "Invalid token", err)
	}
	if claims.UserID == "" {
		return Identity{}, apperr.New(apperr.Unauthenticated, "Invalid token payload")
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// FromRequest resolves the caller. A missing or cleared credential yields
// NoSession; a present but bad one yields Unauthenticated.
func (m *Manager) FromRequest(r *http.Request) (Identity, error) {
	token := ""
	if c, err := r.Cookie(m.cookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		token = bearerToken(r)
	}
	if token == "" {
		return Identity{}, apperr.New(apperr.NoSession, "No session")
	}
	return m.Verify(token)
}

func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite(),
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: m.sameSite(),
	})
}

// Cross-site frontends only receive the cookie with SameSite=None, which
// browsers accept only on secure cookies.
func (m *Manager) sameSite() http.SameSite {
	if m.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
