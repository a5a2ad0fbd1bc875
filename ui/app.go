package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goviz/domain/chart"
	"goviz/domain/table"
	"goviz/internal"
	"goviz/internal/testkit"
	"goviz/internal/viz"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// App is the browser-facing shell: the index page, the demo charts and the
// mounted JSON API.
type App struct {
	router    *chi.Mux
	builder   *viz.Builder
	sample    *table.Table
	templates *template.Template
	config    Config
	logger    *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	// API serves /api/* and /healthz.
	API               http.Handler
	Builder           *viz.Builder
	Sample            testkit.StudentGeneratorConfig
	AllowedExtensions []string
	MaxUploadMB       int
}

// NewApp creates a new UI application
func NewApp(config Config) (*App, error) {
	if config.Builder == nil {
		config.Builder = viz.NewBuilder()
	}

	// Demo data
	students := testkit.NewStudentGenerator(config.Sample).Students()
	sample, err := testkit.Table(students)
	if err != nil {
		return nil, fmt.Errorf("failed to build sample table: %w", err)
	}

	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		builder:   config.Builder,
		sample:    sample,
		templates: templates,
		config:    config,
		logger:    internal.DefaultLogger.WithComponent("UI"),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// Handler returns the root http.Handler
func (a *App) Handler() http.Handler {
	return a.router
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	staticFS, _ := fs.Sub(embeddedFiles, "static")
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	a.router.Get("/", a.handleIndex)
	a.router.Get("/demo", a.handleDemo)

	if a.config.API != nil {
		a.router.Mount("/api", a.config.API)
		a.router.Handle("/healthz", a.config.API)
	}
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	accept := make([]string, len(a.config.AllowedExtensions))
	for i, ext := range a.config.AllowedExtensions {
		accept[i] = "." + ext
	}
	a.renderTemplate(w, "index.html", map[string]any{
		"Title":       "goviz",
		"Accept":      strings.Join(accept, ","),
		"MaxUploadMB": a.config.MaxUploadMB,
		"Kinds":       chart.Kinds,
		"SampleRows":  a.sample.NumRows(),
	})
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
