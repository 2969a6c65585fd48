package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Varun5711/contatos/internal/auth"
	"github.com/Varun5711/contatos/internal/logger"
	usermodel "github.com/Varun5711/contatos/internal/models/user"
)

type contextKey string

const UserKey contextKey = "current_user"

// Authenticator resolves a bearer token to the user it was issued for.
// Errors wrapping auth.ErrInvalidToken mean the token was rejected; any other
// error is an internal failure.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*usermodel.User, error)
}

// ErrorWriter renders an error body; handlers share their JSON writer here.
type ErrorWriter func(w http.ResponseWriter, status int, message string)

type AuthMiddleware struct {
	authenticator Authenticator
	writeError    ErrorWriter
	log           *logger.Logger
}

func NewAuthMiddleware(authenticator Authenticator, writeError ErrorWriter) *AuthMiddleware {
	if writeError == nil {
		writeError = func(w http.ResponseWriter, status int, message string) {
			http.Error(w, message, status)
		}
	}
	return &AuthMiddleware{
		authenticator: authenticator,
		writeError:    writeError,
		log:           logger.New("auth-middleware"),
	}
}

func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			m.writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil && !errors.Is(err, auth.ErrInvalidToken) {
			m.log.Error("Authentication failed on %s %s: %v", r.Method, r.URL.Path, err)
			m.writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if err != nil || user == nil {
			m.log.Warn("Rejected token on %s %s: %v", r.Method, r.URL.Path, err)
			w.Header().Set("WWW-Authenticate", "Bearer")
			m.writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// Optional wraps next with RequireAuth only when enabled.
func (m *AuthMiddleware) Optional(enabled bool, next http.HandlerFunc) http.HandlerFunc {
	if enabled {
		return m.RequireAuth(next)
	}
	return next
}

var errMissingBearer = errors.New("missing bearer token")

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errMissingBearer
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errMissingBearer
	}
	return token, nil
}

func GetUser(ctx context.Context) *usermodel.User {
	if user, ok := ctx.Value(UserKey).(*usermodel.User); ok {
		return user
	}
	return nil
}
