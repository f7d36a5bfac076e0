package handler

import (
	"errors"
	"net/http"

	"chat-service/internal/user"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// Register creates the account and authenticates the new user in the
// same request, so a successful registration lands on /profile with a
// live session.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	u, err := h.credentialService.Register(
		c.Request.Context(),
		req.Username,
		req.Password,
	)

	if err != nil {
		if errors.Is(err, user.ErrDuplicateUsername) {
			// taken name: back to the home page, no record created
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.issueSession(c, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}
