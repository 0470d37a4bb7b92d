package web

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionCookie = "clawlite_session"

// SessionAuth marks a browser session as "authenticated as admin" via a
// signed JWT in an HttpOnly cookie. The signing key defaults to a random
// per-process value, so restarting the server logs everyone out.
type SessionAuth struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionAuth(secret string) *SessionAuth {
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	return &SessionAuth{secret: []byte(secret), ttl: 7 * 24 * time.Hour}
}

// IssueCookie mints the admin session cookie.
func (s *SessionAuth) IssueCookie() (*http.Cookie, error) {
	claims := jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(s.ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	}, nil
}

// ClearCookie expires the session cookie.
func (s *SessionAuth) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
}

// Authenticated reports whether the request carries a valid admin
// session.
func (s *SessionAuth) Authenticated(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return false
	}
	token, err := jwt.Parse(c.Value, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return false
	}
	sub, _ := token.Claims.GetSubject()
	return sub == "admin"
}

// RequireAPI rejects unauthenticated API calls with a 401 JSON body.
func (s *SessionAuth) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Authenticated(r) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePage sends unauthenticated browsers to the login form.
func (s *SessionAuth) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Authenticated(r) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
