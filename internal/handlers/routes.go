package handlers

import (
	"net/http"

	"github.com/Varun5711/contatos/internal/logger"
	"github.com/Varun5711/contatos/internal/middleware"
	"github.com/Varun5711/contatos/internal/service"
)

type RouterConfig struct {
	Contacts *service.ContactService
	Users    *service.UserService

	// RateLimiter guards the /auth endpoints when set.
	RateLimiter *middleware.RateLimiter
	Health      *HealthHandler

	// RequireAuthForAll also protects get, update, export and qrcode.
	RequireAuthForAll bool
	// TrustProxyHeaders lets request logs use forwarded client IPs.
	TrustProxyHeaders bool
	AllowedOrigins    []string
	Logger            *logger.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.New("http")
	}

	contacts := NewContactHandler(cfg.Contacts)
	authHandler := NewAuthHandler(cfg.Users)
	authMW := middleware.NewAuthMiddleware(cfg.Users, WriteError)

	limit := func(next http.HandlerFunc) http.HandlerFunc {
		if cfg.RateLimiter == nil {
			return next
		}
		return cfg.RateLimiter.Limit(next)
	}
	policy := func(next http.HandlerFunc) http.HandlerFunc {
		return authMW.Optional(cfg.RequireAuthForAll, next)
	}

	mux := http.NewServeMux()

	for _, root := range []string{"/contatos", "/contatos/{$}"} {
		mux.HandleFunc("POST "+root, authMW.RequireAuth(contacts.Create))
		mux.HandleFunc("GET "+root, authMW.RequireAuth(contacts.List))
	}
	mux.HandleFunc("GET /contatos/exportar/csv", policy(contacts.ExportCSV))
	mux.HandleFunc("GET /contatos/{id}", policy(contacts.Get))
	mux.HandleFunc("PUT /contatos/{id}", policy(contacts.Update))
	mux.HandleFunc("DELETE /contatos/{id}", authMW.RequireAuth(contacts.Delete))
	mux.HandleFunc("GET /contatos/{id}/qrcode", policy(contacts.QRCode))

	mux.HandleFunc("POST /auth/registro", limit(authHandler.Register))
	mux.HandleFunc("POST /auth/login", limit(authHandler.Login))
	mux.HandleFunc("GET /auth/me", authMW.RequireAuth(authHandler.Me))

	if cfg.Health != nil {
		mux.HandleFunc("GET /health", cfg.Health.Health)
	}
	NewSwaggerHandler().RegisterRoutes(mux)

	var h http.Handler = mux
	h = middleware.Recover(log, WriteError, h)
	h = middleware.CORS(cfg.AllowedOrigins, h)
	h = middleware.Logging(log, cfg.TrustProxyHeaders, h)
	return h
}
