package server

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/api"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/config"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/store"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/workbook"
)

// Server is the HTTP server.
type Server struct {
	router  *gin.Engine
	store   *store.Store
	sheets  *workbook.Store
	handler *api.Handler
}

// NewServer builds the server: sqlite store, workbook collections, API
// handler, routes.
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}

	dbPath := filepath.Join(dataDir, "sheetops.db")
	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sheets, err := workbook.NewStore(filepath.Join(dataDir, "collections"))
	if err != nil {
		log.Fatalf("Failed to initialize collections: %v", err)
	}

	handler := api.NewHandler(sqliteStore, sheets, cfg)

	s := &Server{
		router:  gin.Default(),
		store:   sqliteStore,
		sheets:  sheets,
		handler: handler,
	}

	s.setupRoutes(devMode)

	return s
}

func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.handler.RegisterRoutes(apiGroup)
	}

	if devMode {
		// Dev mode: the frontend runs on its own dev server.
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	} else {
		s.router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	}
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases server resources.
func (s *Server) Close() error {
	return s.store.Close()
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
