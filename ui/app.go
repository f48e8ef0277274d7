// Package ui serves stored analysis results as browsable reports.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"statkit/app"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal"
	"statkit/internal/errors"
	"statkit/internal/report"
	"statkit/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/index.html
var embeddedFiles embed.FS

// App represents the report UI application
type App struct {
	router    *chi.Mux
	service   *app.AnalysisService
	templates *template.Template
	logger    *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port string
	// PageSize bounds the number of results listed on the index page
	PageSize int
}

// NewApp creates the UI application over the analysis service
func NewApp(service *app.AnalysisService, config Config) (*App, error) {
	templates, err := template.ParseFS(embeddedFiles, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if config.PageSize <= 0 {
		config.PageSize = 50
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		logger:    internal.DefaultLogger.Named("ui"),
	}
	a.setupMiddleware()
	a.setupRoutes(config.PageSize)
	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes(pageSize int) {
	a.router.Get("/", a.handleIndex(pageSize))
	a.router.Get("/health", a.handleHealth)
	a.router.Route("/reports/{id}", func(r chi.Router) {
		r.Get("/", a.handleReportHTML)
		r.Get("/markdown", a.handleReportMarkdown)
	})
}

// Handler returns the routed mux
func (a *App) Handler() http.Handler {
	return a.router
}

// Start serves the UI on the given port
func (a *App) Start(port string) error {
	addr := ":" + port
	a.logger.Info("report UI listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (a *App) handleIndex(pageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ports.ResultFilter{Kind: stats.Kind(r.URL.Query().Get("kind")), Limit: pageSize}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
				filter.Limit = limit
			}
		}
		results, err := a.service.Results(r.Context(), filter)
		if err != nil {
			a.fail(w, err)
			return
		}
		a.renderTemplate(w, "index.html", map[string]interface{}{"Results": results})
	}
}

func (a *App) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	res, ok := a.loadResult(w, r)
	if !ok {
		return
	}
	page, err := report.HTML(res)
	if err != nil {
		a.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (a *App) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	res, ok := a.loadResult(w, r)
	if !ok {
		return
	}
	md, err := report.Markdown(res)
	if err != nil {
		a.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write(md)
}

func (a *App) loadResult(w http.ResponseWriter, r *http.Request) (*stats.Result, bool) {
	id, err := core.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, errors.InvalidInput(err.Error()))
		return nil, false
	}
	res, err := a.service.Result(r.Context(), id)
	if err != nil {
		a.fail(w, err)
		return nil, false
	}
	return res, true
}

func (a *App) fail(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("report request failed: %v", err)
	}
	http.Error(w, errors.FromDomain(err).Error(), status)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
