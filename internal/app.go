package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/flowdeck/pkg/cookie"
	"github.com/dmitrymomot/flowdeck/pkg/extension"
	"github.com/dmitrymomot/flowdeck/pkg/health"
	"github.com/dmitrymomot/flowdeck/pkg/logger"
	"github.com/dmitrymomot/flowdeck/pkg/session"
	"github.com/dmitrymomot/flowdeck/pkg/trigger"
	"github.com/dmitrymomot/flowdeck/pkg/user"
	"github.com/dmitrymomot/flowdeck/pkg/useragent"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second

	// Multipart bodies spool to disk past this threshold.
	defaultMultipartMemory = 20 << 20 // 20MB

	// defaultMaxUploadBytes caps multipart request bodies.
	defaultMaxUploadBytes = 100 << 20 // 100MB

	// defaultSessionCookie is the session token cookie name.
	defaultSessionCookie = "azkaban.browser.session.id"

	// sessionParam lets programmatic clients pass the token without a cookie.
	sessionParam = "session.id"
)

// App orchestrates the application lifecycle: it authenticates every page
// request through the session gateway, loads viewer and trigger bundles,
// mounts viewer handlers on the router, and serves static assets.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router       chi.Router
	errorHandler ErrorHandler
	healthConfig *healthConfig
	logger       *slog.Logger
	accessLog    *slog.Logger
	cookies      *cookie.Manager
	cookieName   string
	sessionAge   time.Duration
	sessions     session.Store
	users        user.Manager
	triggers     *trigger.Context
	viewers      *extension.Registry
	triggerExts  *extension.Registry

	viewerDir  string
	triggerDir string

	// assetRoots are searched in order when serving static files.
	// Viewer bundle web/ directories are appended during New.
	assetRoots []string

	browserCheck      func(string) bool
	classifyUserAgent bool
	maxUploadBytes    int64
	middlewares       []Middleware
	handlers          []Handler
}

// New creates a new application with the given options.
// Viewer and trigger bundles are loaded during construction; bundles that
// fail to load are logged and skipped so one bad bundle never takes the
// server down. The App is immutable after creation.
//
// Example:
//
//	app := flowdeck.New(
//	    flowdeck.WithLogger(log),
//	    flowdeck.WithSessionStore(store),
//	    flowdeck.WithUserManager(users),
//	    flowdeck.WithViewerDir("plugins/viewer"),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:         chi.NewRouter(),
		logger:         logger.NewNope(),
		cookies:        cookie.New(),
		cookieName:     defaultSessionCookie,
		sessions:       session.NewMemory(),
		browserCheck:   useragent.IsBrowser,
		maxUploadBytes: defaultMaxUploadBytes,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.accessLog == nil {
		a.accessLog = a.logger
	}
	a.triggers = trigger.NewContext(a.logger)

	a.loadExtensions()
	a.setupRoutes()
	return a
}

var _ extension.Host = (*App)(nil)

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Sessions returns the session store.
func (a *App) Sessions() session.Store { return a.sessions }

// Users returns the user manager, nil when not configured.
func (a *App) Users() user.Manager { return a.users }

// Triggers returns the trigger context populated by trigger bundles.
func (a *App) Triggers() *trigger.Context { return a.triggers }

// Viewers returns the viewer registry. Nil until New has run.
func (a *App) Viewers() *extension.Registry { return a.viewers }

// Router returns the underlying chi.Router for the App.
func (a *App) Router() chi.Router {
	return a.router
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	app := flowdeck.New(...)
//	err := app.Run(":8080", flowdeck.Logger(slog))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if addr == "" {
		addr = cfg.address
	}

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// loadExtensions populates the viewer and trigger registries from the
// configured bundle directories. Missing directories yield empty registries.
func (a *App) loadExtensions() {
	deps := extension.Deps{
		Trigger: a.triggers,
		Host:    a,
	}

	a.viewers = extension.NewRegistry()
	if _, err := a.viewers.Load(a.viewerDir, extension.KindViewer, deps, a.logger); err != nil {
		a.logger.Error("viewer bundle scan failed",
			slog.String("dir", a.viewerDir), slog.Any("error", err))
	}

	a.triggerExts = extension.NewRegistry()
	if _, err := a.triggerExts.Load(a.triggerDir, extension.KindTrigger, deps, a.logger); err != nil {
		a.logger.Error("trigger bundle scan failed",
			slog.String("dir", a.triggerDir), slog.Any("error", err))
	}

	// Viewer bundles may ship their own static files under web/.
	a.assetRoots = append(a.assetRoots, a.viewers.AssetDirs()...)
}

// setupRoutes configures the router with middleware and handlers.
func (a *App) setupRoutes() {
	a.router.Use(a.accessLogMiddleware)

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks))
	}

	// Everything past this point sits behind the session gateway.
	gate := a.adaptMiddleware(a.gateway)

	a.router.Group(func(gr chi.Router) {
		gr.Use(gate)

		gr.Get("/", a.wrapHandler(a.handleIndex))
		gr.Post("/", a.wrapHandler(a.handleIndex))

		for _, ext := range a.viewers.All() {
			pattern := "/" + ext.Descriptor.MountPath
			gr.Mount(pattern, http.StripPrefix(pattern, ext.Handler))
		}

		r := &routerAdapter{router: gr, app: a}
		for _, h := range a.handlers {
			h.Routes(r)
		}
	})

	// Unrouted paths also pass through the gateway: static assets are
	// resolved for authenticated callers there, and everything else falls
	// back to the login page or a 404.
	a.router.NotFound(gate(a.wrapHandler(func(c Context) error {
		return c.Error(http.StatusNotFound, "page not found")
	})).ServeHTTP)
}

// handleIndex serves the landing page: a list of visible viewers for
// authenticated users. The gateway has already handled login rendering
// and credential POSTs, so a session is guaranteed here.
func (a *App) handleIndex(c Context) error {
	visible := a.viewers.Visible()
	if len(visible) == 1 {
		return c.Redirect(http.StatusFound, "/"+visible[0].Descriptor.MountPath)
	}
	return c.Render(http.StatusOK, indexPage(visible, c.User()))
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc using the app's error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError handles errors from handlers using the configured error handler.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}
	if a.errorHandler != nil {
		_ = a.errorHandler(c, err)
		return
	}
	_ = defaultErrorHandler(c, err)
}

// defaultErrorHandler maps errors to responses: HTTPError keeps its status,
// ErrPayloadTooLarge becomes 413, everything else is a 500. AJAX callers
// get JSON, browsers get plain text.
func defaultErrorHandler(c Context, err error) error {
	code := http.StatusInternalServerError
	msg := "internal server error"

	if httpErr := AsHTTPError(err); httpErr != nil {
		code = httpErr.Code
		msg = httpErr.Message
	} else if errors.Is(err, ErrPayloadTooLarge) {
		code = http.StatusRequestEntityTooLarge
		msg = err.Error()
	}

	if code >= http.StatusInternalServerError {
		c.LogError("request failed", slog.Any("error", err))
	}

	if c.IsAjax() {
		return c.JSON(code, map[string]string{"error": msg})
	}
	return c.String(code, msg)
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
//
// Example:
//
//	flowdeck.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
