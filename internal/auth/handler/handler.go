package handler

import (
	"net/http"
	"time"

	"chat-service/internal/auth/credentials"
	"chat-service/internal/auth/provider"
	"chat-service/internal/logger"
	"chat-service/internal/session"
	"chat-service/internal/user"

	"github.com/gin-gonic/gin"
)

const sessionTTL = 24 * time.Hour

type Handler struct {
	providers         *provider.Registry
	sessionStore      session.Store
	directory         user.Directory
	credentialService *credentials.Service
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	directory user.Directory,
	credentialService *credentials.Service,
) *Handler {
	return &Handler{
		providers:         registry,
		sessionStore:      sessionStore,
		directory:         directory,
		credentialService: credentialService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)
	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
}

// issueSession creates the server-side session for an authenticated
// user and delivers the token as the shared session cookie. The
// session stores the user id only.
func (h *Handler) issueSession(c *gin.Context, userID string) error {
	sessionID, err := session.GenerateID()
	if err != nil {
		return err
	}

	now := time.Now()
	expiresAt := now.Add(sessionTTL)

	sess := session.Session{
		SessionID: sessionID,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		return err
	}

	session.SetCookie(c.Writer, sessionID, expiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	errParam := c.Query("error")

	// the provider reported a denied or failed grant; no session
	if errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, "/")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	profile, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		logger.Warn("oauth code exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.Redirect(http.StatusFound, "/")
		return
	}

	u, err := h.directory.UpsertByExternalID(
		c.Request.Context(),
		profile.Normalize(),
	)
	if err != nil {
		// no partial identity, no session
		logger.Error("external identity upsert failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := h.issueSession(c, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create session",
		})
		return
	}

	logger.Info("oauth login succeeded", map[string]any{
		"provider": providerName,
		"user_id":  u.ID,
	})

	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) Logout(c *gin.Context) {

	// same cookie read as the auth middleware
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// best-effort: an already-gone session logs out all the same
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, "/")
}
