package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/classic-cipher-go/internal/auth"
	"github.com/classic-cipher-go/internal/cache"
	"github.com/classic-cipher-go/internal/config"
	"github.com/classic-cipher-go/internal/dao"
	"github.com/classic-cipher-go/internal/handler"
	"github.com/classic-cipher-go/internal/storage"
	"github.com/classic-cipher-go/web"
)

// Server represents the HTTP server and its listeners
type Server struct {
	cfg         *config.Config
	store       *storage.Store
	router      *gin.Engine
	httpServer  *http.Server
	httpsServer *http.Server
	unixServer  *http.Server
	userDAO     *dao.UserDAO
	recipeDAO   *dao.RecipeDAO
	runDAO      *dao.RunDAO
	pipelines   *cache.PipelineCache
	settings    *handler.EngineSettings
	jwtAuth     *auth.JWTAuth
	done        chan struct{}
}

// New creates a new server instance. Scheme and engine overrides saved
// through the admin API shadow the file and environment configuration,
// so a restart comes back up with the saved values.
func New(cfg *config.Config) (*Server, error) {
	store, err := storage.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	// Merge persisted overrides into a copy; cfg itself stays untouched
	// so every restart re-merges from the same base.
	merged := *cfg
	if err := store.GetJSON(storage.BucketConfig, storage.KeySchemeSettings, &merged.Scheme); err != nil {
		log.Warn().Err(err).Msg("Failed to load scheme override")
	}
	if err := store.GetJSON(storage.BucketConfig, storage.KeyEngineSettings, &merged.Engine); err != nil {
		log.Warn().Err(err).Msg("Failed to load engine override")
	}
	merged.Engine = merged.Engine.Normalized()

	runDAO, err := dao.NewRunDAO(store, merged.Database.DSN)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to create run DAO: %w", err)
	}

	s := &Server{
		cfg:       &merged,
		store:     store,
		userDAO:   dao.NewUserDAO(store),
		recipeDAO: dao.NewRecipeDAO(store),
		runDAO:    runDAO,
		pipelines: cache.NewPipelineCache(merged.CacheTTL(), merged.Engine.CacheMaxSize),
		settings:  handler.NewEngineSettings(merged.Engine),
		jwtAuth:   auth.NewJWTAuth(merged.Auth.JWTSecret, merged.JWTExpire()),
		done:      make(chan struct{}),
	}

	// Ensure default admin user exists
	if err := s.userDAO.EnsureDefaultUser(); err != nil {
		log.Warn().Err(err).Msg("Failed to ensure default user")
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	s.router = r

	// Middleware
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Force HTTPS redirect if enabled
	if s.cfg.Scheme.ForceHTTPS && s.cfg.IsHTTPSEnabled() {
		r.Use(ForceHTTPSMiddleware(s.cfg.Scheme.HTTPSPort))
	}

	// Web playground (embedded static files)
	r.StaticFS("/public", web.GetFileSystem())
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/public/")
	})

	r.GET("/health", HealthHandler(s.pipelines))
	r.GET("/ready", ReadyHandler)

	// Create handlers
	transformHandler := handler.NewTransformHandler(s.settings, s.runDAO)
	recipeHandler := handler.NewRecipeHandler(s.recipeDAO, s.runDAO, s.pipelines, s.settings)
	runHandler := handler.NewRunHandler(s.runDAO)
	apiHandler := handler.NewAPIHandler(s.cfg.Scheme, s.jwtAuth, s.userDAO, s.store, s.settings, s.pipelines)

	api := r.Group("/api")
	{
		// Public routes (no auth required)
		api.POST("/transform", transformHandler.Transform)
		api.GET("/ciphers", transformHandler.ListCiphers)
		api.GET("/recipes", recipeHandler.List)
		api.GET("/recipes/:name", recipeHandler.Get)
		api.POST("/recipes/:name/transform", recipeHandler.Transform)
		api.POST("/auth/login", apiHandler.Login)

		// Protected routes (auth required)
		authed := api.Group("", AuthMiddleware(s.jwtAuth))
		{
			authed.POST("/recipes", recipeHandler.Save)
			authed.DELETE("/recipes/:name", recipeHandler.Delete)
			authed.GET("/runs", runHandler.List)
			authed.GET("/user/info", apiHandler.GetUserInfo)
			authed.POST("/user/passwd", apiHandler.UpdatePasswd)
			authed.GET("/config", apiHandler.GetConfig)
			authed.POST("/config", apiHandler.SaveConfig)
		}
	}
}

// Router exposes the configured routes for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts every configured listener and blocks until one of them
// fails or Shutdown is called.
func (s *Server) Start() error {
	errChan := make(chan error, 3)

	// Start HTTP server
	go func() {
		if err := s.startHTTP(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Start HTTPS server if enabled
	if s.cfg.IsHTTPSEnabled() {
		go func() {
			if err := s.startHTTPS(); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("HTTPS server error: %w", err)
			}
		}()
	}

	// Start Unix socket if enabled
	if s.cfg.IsUnixSocketEnabled() {
		go func() {
			if err := s.startUnix(); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("Unix socket error: %w", err)
			}
		}()
	}

	select {
	case err := <-errChan:
		return err
	case <-s.done:
		return nil
	}
}

func (s *Server) startHTTP() error {
	addr := s.cfg.GetHTTPAddr()

	var httpHandler http.Handler = s.router

	// Enable h2c (HTTP/2 cleartext) if configured
	if s.cfg.IsH2CEnabled() {
		h2s := &http2.Server{
			MaxConcurrentStreams: 1000,
			IdleTimeout:          120 * time.Second,
		}
		httpHandler = h2c.NewHandler(s.router, h2s)
		log.Info().Msg("HTTP/2 cleartext (h2c) enabled")
	}

	// No write timeout: a transform may legitimately hold the
	// connection for the full chunk wait.
	s.httpServer = &http.Server{
		Addr:        addr,
		Handler:     httpHandler,
		IdleTimeout: 120 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("Starting HTTP server")

	return s.httpServer.ListenAndServe()
}

func (s *Server) startHTTPS() error {
	addr := s.cfg.GetHTTPSAddr()

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		NextProtos: []string{"h2", "http/1.1"},
	}

	s.httpsServer = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		TLSConfig:   tlsConfig,
		IdleTimeout: 120 * time.Second,
	}

	// Enable HTTP/2
	http2.ConfigureServer(s.httpsServer, &http2.Server{
		MaxConcurrentStreams: 1000,
		IdleTimeout:          120 * time.Second,
	})

	log.Info().Str("addr", addr).Msg("Starting HTTPS server with HTTP/2")

	return s.httpsServer.ListenAndServeTLS(s.cfg.Scheme.CertFile, s.cfg.Scheme.KeyFile)
}

func (s *Server) startUnix() error {
	socketPath := s.cfg.Scheme.UnixFile

	// Remove existing socket file
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to create unix socket: %w", err)
	}

	// Set socket permissions if specified
	if s.cfg.Scheme.UnixFilePerm != "" {
		var perm os.FileMode
		if _, err := fmt.Sscanf(s.cfg.Scheme.UnixFilePerm, "%o", &perm); err == nil {
			os.Chmod(socketPath, perm)
		}
	}

	s.unixServer = &http.Server{
		Handler:     s.router,
		IdleTimeout: 120 * time.Second,
	}

	log.Info().Str("socket", socketPath).Msg("Starting Unix socket server")

	return s.unixServer.Serve(listener)
}

// Shutdown gracefully shuts down every listener, then the run mirror
// and the store. Start returns nil once shutdown begins.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down server...")
	close(s.done)

	var lastErr error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			lastErr = err
		}
	}

	if s.httpsServer != nil {
		if err := s.httpsServer.Shutdown(ctx); err != nil {
			lastErr = err
		}
	}

	if s.unixServer != nil {
		if err := s.unixServer.Shutdown(ctx); err != nil {
			lastErr = err
		}
	}

	if err := s.runDAO.Close(); err != nil {
		lastErr = err
	}

	if err := s.store.Close(); err != nil {
		lastErr = err
	}

	// Clean up Unix socket
	if s.cfg.IsUnixSocketEnabled() {
		os.Remove(s.cfg.Scheme.UnixFile)
	}

	return lastErr
}
