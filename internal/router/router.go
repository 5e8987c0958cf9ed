package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campus/internal/config"
	"campus/internal/handler"
	"campus/internal/metrics"
	"campus/internal/middleware"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Student    *handler.StudentHandler
	Teacher    *handler.TeacherHandler
	Department *handler.DepartmentHandler
	Major      *handler.MajorHandler
	Subject    *handler.SubjectHandler
	Class      *handler.ClassHandler
	Point      *handler.PointHandler
}

// HealthChecker reports whether a dependency is reachable. nil means always healthy.
type HealthChecker func(ctx context.Context) error

type crudRoutes interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func mountCRUD(r chi.Router, pattern string, h crudRoutes) {
	r.Route(pattern, func(sub chi.Router) {
		sub.Get("/", h.List)
		sub.Post("/", h.Create)
		sub.Get("/{id}", h.Get)
		sub.Patch("/{id}", h.Update)
		sub.Delete("/{id}", h.Delete)
	})
}

func New(
	cfg *config.Config,
	m *metrics.Metrics,
	authMiddleware *middleware.AuthMiddleware,
	h Handlers,
	health HealthChecker,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(m.Instrument)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Group(func(api chi.Router) {
		api.Use(rateLimitMiddleware.Handler)
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/register", h.Auth.Register)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.Post("/password/forgot", h.Auth.ForgotPassword)
			auth.Post("/password/reset", h.Auth.ResetPassword)

			auth.Group(func(authed chi.Router) {
				authed.Use(authMiddleware.RequireAuth)
				authed.Get("/me", h.Auth.Me)
				authed.Post("/password/change", h.Auth.ChangePassword)
				authed.Post("/authorize", h.Auth.Authorize)
			})
		})
		api.Post("/token", h.Auth.Token)

		api.Group(func(res chi.Router) {
			res.Use(authMiddleware.RequireAuth)

			mountCRUD(res, "/users", h.User)
			mountCRUD(res, "/students", h.Student)
			mountCRUD(res, "/teachers", h.Teacher)
			mountCRUD(res, "/departments", h.Department)
			mountCRUD(res, "/majors", h.Major)
			mountCRUD(res, "/subjects", h.Subject)
			mountCRUD(res, "/classes", h.Class)
			mountCRUD(res, "/points", h.Point)
		})
	})

	return r
}
