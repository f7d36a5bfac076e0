package app

import (
	"context"
	"net/http"

	"chat-service/internal/auth/credentials"
	"chat-service/internal/auth/handler"
	"chat-service/internal/auth/provider"
	"chat-service/internal/auth/provider/github"
	"chat-service/internal/auth/provider/google"
	"chat-service/internal/chat"
	"chat-service/internal/config"
	"chat-service/internal/logger"
	"chat-service/internal/middleware"
	"chat-service/internal/session"
	"chat-service/internal/user"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	directory := user.NewPGDirectory(infra.DB)
	credentialService := credentials.NewService(directory)

	// a provider without configured credentials is skipped, not fatal;
	// either provider alone is a complete login path
	var providers []provider.OAuthProvider

	if cfg.GitHubClientID != "" {
		githubProvider, err := github.New(
			cfg.GitHubClientID,
			cfg.GitHubClientSecret,
			cfg.GitHubRedirectURL,
		)
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, githubProvider)
	} else {
		logger.Warn("github oauth not configured, provider disabled", nil)
	}

	if cfg.GoogleClientID != "" {
		googleProvider, err := google.New(
			ctx,
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
		)
		if err != nil {
			return nil, nil, err
		}
		providers = append(providers, googleProvider)
	} else {
		logger.Warn("google oauth not configured, provider disabled", nil)
	}

	registry := provider.NewRegistry(providers...)

	authHandler := handler.NewHandler(
		registry,
		sessionStore,
		directory,
		credentialService,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore, directory)

	hub := chat.NewHub()
	go hub.Run()

	chatHandler := chat.NewHandler(hub, sessionStore, directory)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.Static("/public", "./public")

	router.GET("/", func(c *gin.Context) {
		c.File("./public/index.html")
	})

	router.GET("/chat/ws", chatHandler.Serve)

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		u, _ := middleware.UserFromContext(c.Request.Context())
		c.JSON(200, gin.H{
			"user_id":       u.ID,
			"username":      u.Username,
			"display_name":  u.DisplayName,
			"provider":      u.Provider,
			"login_count":   u.LoginCount,
			"last_login_at": u.LastLoginAt,
		})
	})

	api.GET("/presence", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"current_users": hub.ClientCount(),
		})
	})

	// ----------------------------
	// Protected Web Routes
	// ----------------------------

	web := router.Group("/")
	web.Use(middleware.GinRequireAuthRedirect(authMiddleware, "/"))

	web.GET("/profile", func(c *gin.Context) {
		u, _ := middleware.UserFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"username":     u.Username,
			"display_name": u.DisplayName,
			"photo_url":    u.PhotoURL,
			"email":        u.Email,
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		hub.Stop()
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
