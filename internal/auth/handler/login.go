package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	u, err := h.credentialService.Authenticate(
		c.Request.Context(),
		req.Username,
		req.Password,
	)

	if err != nil {
		// unknown user and wrong password land here identically
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := h.issueSession(c, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}
