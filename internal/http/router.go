package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gestaolimpeza/supervisao/internal/auth"
	"github.com/gestaolimpeza/supervisao/internal/config"
	"github.com/gestaolimpeza/supervisao/internal/escola"
	"github.com/gestaolimpeza/supervisao/internal/funcionario"
	httpmiddleware "github.com/gestaolimpeza/supervisao/internal/http/middleware"
	"github.com/gestaolimpeza/supervisao/internal/observacao"
)

// NewRouter monta o roteador com todas as telas da aplicação.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, gotrue *auth.GoTrueClient) (http.Handler, error) {
	verifier := auth.NewVerifier(cfg.JWTSecret)
	denylist := auth.NewDenylist(redisClient)

	escolaRepo := escola.NewRepository(pool)
	funcionarioRepo := funcionario.NewRepository(pool)
	observacaoRepo := observacao.NewRepository(pool)

	funcionarioService := funcionario.NewService(funcionarioRepo)
	observacaoService := observacao.NewService(observacaoRepo, funcionarioRepo, escolaRepo)

	escolaHandler := escola.NewHandler(escolaRepo)
	funcionarioHandler := funcionario.NewHandler(funcionarioService, escolaRepo)
	observacaoHandler := observacao.NewHandler(observacaoService)
	authHandler := NewAuthHandler(gotrue, denylist, cfg.AdminEmails)
	adminHandler := NewAdminHandler(funcionarioRepo, escolaRepo)

	publicLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst)
	authLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitAuth.RequestsPerSecond, cfg.RateLimitAuth.Burst)

	authenticate := httpmiddleware.Auth(verifier, denylist, cfg.AdminEmails)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.IPRateLimit(publicLimiter))
		r.Post("/auth/signup", authHandler.HandleSignUp)
		r.Post("/auth/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(httpmiddleware.UserRateLimit(authLimiter))

		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Get("/auth/me", authHandler.HandleMe)

		escolaHandler.RegisterRoutes(r)
		funcionarioHandler.RegisterRoutes(r)
		observacaoHandler.RegisterRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(httpmiddleware.RequireAdmin)
			adminHandler.RegisterRoutes(r)
		})
	})

	return r, nil
}
