package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prbyl0809/smart-team-assistant/internal/services"
)

const userIDCtxKey = "user_id"

// HandleAuthMiddleware authenticates the request from the bearer
// token: the token subject is the user id, and the user row must still
// exist and be active.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, err := h.auth.ParseAccessToken(parts[1])
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to parse token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(c, claims.Subject)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			h.logger.Warn().
				Str("user_id", claims.Subject).
				Msg("token subject no longer exists")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to fetch user")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if !user.IsActive {
		h.logger.Warn().
			Str("user_id", user.ID).
			Msg("user is inactive")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	c.Set(userIDCtxKey, user.ID)
	c.Next()
}
