package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register POST /users/register
//
// Creates the account and sets the session cookie.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Role, req.TelegramChatID)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.fail(c, err)
		return
	}

	maxAge := int(h.tokens.ttl.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.tokenName, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusCreated, gin.H{
		"user":  user,
		"token": token,
	})
}

// Me GET /users/me
func (h *Handler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), currentIdentity(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListProfessors GET /professors
func (h *Handler) ListProfessors(c *gin.Context) {
	professors, err := h.users.ListProfessors(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, professors)
}
