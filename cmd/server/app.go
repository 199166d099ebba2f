package main

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/practicstudio/devtrack/internal/auth"
	"github.com/practicstudio/devtrack/internal/config"
	"github.com/practicstudio/devtrack/internal/handlers"
	"github.com/practicstudio/devtrack/internal/httpx"
	"github.com/practicstudio/devtrack/internal/services"
	"github.com/practicstudio/devtrack/internal/storage"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	db  *gorm.DB
	cfg *config.Config

	authHandler    *handlers.AuthHandler
	projectHandler *handlers.ProjectHandler
	taskHandler    *handlers.TaskHandler
	uploadHandler  *handlers.UploadHandler
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, store storage.Storage, cfg *config.Config) *App {
	app := &App{
		mux: http.NewServeMux(),
		db:  db,
		cfg: cfg,

		authHandler: handlers.NewAuthHandler(
			services.NewAuthService(db),
			services.NewPasswordResetService(db),
			cfg.App.URL,
		),
		projectHandler: handlers.NewProjectHandler(services.NewProjectService(db)),
		taskHandler:    handlers.NewTaskHandler(services.NewTaskService(db)),
		uploadHandler:  handlers.NewUploadHandler(store),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := withRecover(withLogging(auth.Middleware(a.db)(a.mux)))
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	ah := a.authHandler
	ph := a.projectHandler
	th := a.taskHandler
	uh := a.uploadHandler

	// Public routes (no auth required)
	a.mux.HandleFunc("POST /api/register", ah.Register)
	a.mux.HandleFunc("POST /api/login", ah.Login)
	a.mux.HandleFunc("POST /api/forgot-password", ah.ForgotPassword)
	a.mux.HandleFunc("POST /api/reset-password", ah.ResetPassword)

	// Account routes (require a valid bearer token)
	a.mux.Handle("POST /api/logout", a.requireAuth(http.HandlerFunc(ah.Logout)))
	a.mux.Handle("GET /api/user", a.requireAuth(http.HandlerFunc(ah.Me)))
	a.mux.Handle("PUT /api/profile", a.requireAuth(http.HandlerFunc(ah.UpdateProfile)))
	a.mux.Handle("PUT /api/password", a.requireAuth(http.HandlerFunc(ah.ChangePassword)))

	// Projects
	a.mux.Handle("GET /api/projects", a.requireAuth(http.HandlerFunc(ph.List)))
	a.mux.Handle("POST /api/projects", a.requireAuth(http.HandlerFunc(ph.Create)))
	a.mux.Handle("GET /api/projects/{id}", a.requireAuth(http.HandlerFunc(ph.Get)))
	a.mux.Handle("PUT /api/projects/{id}", a.requireAuth(http.HandlerFunc(ph.Update)))
	a.mux.Handle("DELETE /api/projects/{id}", a.requireAuth(http.HandlerFunc(ph.Delete)))

	// Tasks
	a.mux.Handle("GET /api/tasks", a.requireAuth(http.HandlerFunc(th.List)))
	a.mux.Handle("POST /api/tasks", a.requireAuth(http.HandlerFunc(th.Create)))
	a.mux.Handle("GET /api/tasks/{id}", a.requireAuth(http.HandlerFunc(th.Get)))
	a.mux.Handle("PUT /api/tasks/{id}", a.requireAuth(http.HandlerFunc(th.Update)))
	a.mux.Handle("DELETE /api/tasks/{id}", a.requireAuth(http.HandlerFunc(th.Delete)))
	a.mux.Handle("GET /api/tasks/projects/{id}", a.requireAuth(http.HandlerFunc(th.ListByProject)))

	// Uploads
	a.mux.Handle("POST /api/upload-images", a.requireAuth(http.HandlerFunc(uh.Upload)))

	// Health check
	a.mux.HandleFunc("GET /health", a.health)
	a.mux.HandleFunc("GET /healthz", a.health)

	// Static files for disk-stored uploads
	if a.cfg.Storage.Driver != "s3" {
		a.mux.Handle("GET /storage/",
			http.StripPrefix("/storage/", http.FileServer(http.Dir(a.cfg.Storage.Root))))
	}
}

// health reports process and database liveness.
func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if err := a.db.WithContext(r.Context()).Exec("SELECT 1").Error; err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAuth wraps a handler to require an authenticated user.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRecover converts handler panics into a 500 response.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic: %v\n%s", rec, debug.Stack())
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
