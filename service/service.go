package service

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/adminkit/portal-core/internal/auth"
	"github.com/adminkit/portal-core/internal/avatar"
	"github.com/adminkit/portal-core/internal/handlers"
	"github.com/adminkit/portal-core/internal/legacy"
	"github.com/adminkit/portal-core/internal/middleware"
	"github.com/adminkit/portal-core/internal/session"
	"github.com/adminkit/portal-core/internal/supabase"
	"github.com/adminkit/portal-core/storage"
)

type Service struct {
	storage  *storage.Storage
	config   *Config
	client   supabase.Client
	sessions *session.Provider
	adapter  *auth.Adapter

	legacySessions *legacy.Manager
	legacyService  *legacy.Service

	homeHandler          *handlers.HomeHandler
	adminHandler         *handlers.AdminHandler
	authHandler          *handlers.AuthHandler
	portalHandler        *handlers.PortalHandler
	profileHandler       *handlers.ProfileHandler
	clientUpdatesHandler *handlers.ClientUpdatesHandler
	avatarHandler        *handlers.AvatarHandler
	apiHandler           *handlers.APIHandler
}

func New(storage *storage.Storage, config *Config) *Service {
	// The backend client is selected once at startup: real when both
	// credentials are present, otherwise the non-throwing stub.
	var client supabase.Client
	if config.PortalCore.Enabled {
		client = supabase.New(supabase.Config{
			URL:     config.PortalCore.SupabaseURL,
			AnonKey: config.PortalCore.SupabaseAnonKey,
			Store:   session.NewStore(storage.Queries),
		})
	} else {
		client = supabase.NewStub()
	}

	sessions := session.NewProvider(client)
	if config.PortalCore.Enabled {
		sessions.Start(context.Background())
	}

	adapter := auth.NewAdapter(config.PortalCore.Enabled, client)

	legacySessions := legacy.NewManager(config.Session.Secret)
	legacyService := legacy.NewService(storage.Queries, legacy.Credentials{
		Username: config.Admin.Username,
		Password: config.Admin.Password,
	})

	return &Service{
		storage:        storage,
		config:         config,
		client:         client,
		sessions:       sessions,
		adapter:        adapter,
		legacySessions: legacySessions,
		legacyService:  legacyService,

		homeHandler:          handlers.NewHomeHandler(config.PortalCore.Enabled),
		adminHandler:         handlers.NewAdminHandler(legacyService, legacySessions),
		authHandler:          handlers.NewAuthHandler(client, storage.Queries, config.PortalCore.SiteURL),
		portalHandler:        handlers.NewPortalHandler(client, config.PortalCore.FeatureClientUpdates),
		profileHandler:       handlers.NewProfileHandler(client),
		clientUpdatesHandler: handlers.NewClientUpdatesHandler(client),
		avatarHandler:        handlers.NewAvatarHandler(avatar.NewGenerator()),
		apiHandler:           handlers.NewAPIHandler(client, sessions),
	}
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.Validator = handlers.NewFormValidator()

	// Every route resolves the normalized user so public pages can render
	// auth-aware chrome.
	e.Use(middleware.LoadAuthContext(s.adapter, s.legacySessions))

	// Home page
	e.GET("/", s.homeHandler.HandleHome)

	// Fallback avatars
	e.GET("/avatar/:seed", s.avatarHandler.HandleAvatar)

	// Legacy credential auth
	e.GET("/admin/login", s.adminHandler.HandleLoginPage)
	e.POST("/admin/login", s.adminHandler.HandleLoginSubmit)
	e.GET("/admin/logout", s.adminHandler.HandleLogout)

	admin := e.Group("/admin", middleware.RequireLegacyAuth(s.legacySessions, "/admin/login"))
	admin.GET("", s.adminHandler.HandleAdminHome)

	// Portal routes exist only while the feature flag is on; with it off the
	// paths fall through to 404.
	if !s.config.PortalCore.Enabled {
		return
	}

	// Magic-link auth (public)
	e.GET("/portal/auth/signin", s.authHandler.HandleSignInPage)
	e.POST("/portal/auth/signin", s.authHandler.HandleSignInSubmit)
	e.GET("/portal/auth/callback", s.authHandler.HandleCallbackPage)
	e.POST("/portal/auth/callback", s.authHandler.HandleCallbackExchange)
	e.GET("/portal/auth/signout", s.authHandler.HandleSignOut)

	// Gated portal pages
	portal := e.Group("/portal", middleware.RequireSupabaseAuth(s.sessions, "/portal/auth/signin"))
	portal.GET("", s.portalHandler.HandleDashboard)
	portal.GET("/profile", s.profileHandler.HandlePage)
	portal.POST("/profile", s.profileHandler.HandleSave)
	if s.config.PortalCore.FeatureClientUpdates {
		portal.GET("/updates", s.clientUpdatesHandler.HandleForm)
		portal.POST("/updates", s.clientUpdatesHandler.HandleSave)
	}

	// JSON API
	api := e.Group("/api")
	api.GET("/session", s.apiHandler.HandleSession)
	if s.config.PortalCore.FeatureClientUpdates {
		api.GET("/updates", s.apiHandler.HandleUpdates)
	}
}

// Shutdown releases the session subscription.
func (s *Service) Shutdown() {
	s.sessions.Stop()
}
