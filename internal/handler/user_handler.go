package handler

import (
	"errors"
	"net/http"

	"github.com/immedha/firstlight/internal/karma"
	"github.com/immedha/firstlight/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/users/leaderboard", h.Leaderboard)
	authed.GET("/users/me", h.Me)
}

// Me returns the caller's profile with karma and tier
// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.userService.Get(userID.(string))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tier := h.userService.Tier(user)
	c.JSON(http.StatusOK, gin.H{
		"user":      user,
		"tier":      tier,
		"tier_name": karma.TierName(tier),
	})
}

// Leaderboard returns the top users by karma
// GET /api/users/leaderboard
func (h *UserHandler) Leaderboard(c *gin.Context) {
	entries, err := h.userService.Leaderboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
