package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vivek04-tech/edu-interact/internal/middleware"
	"github.com/vivek04-tech/edu-interact/internal/models"
	appErrors "github.com/vivek04-tech/edu-interact/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// scopeFromRequest resolves the university scope for catalog listings: an
// explicit query parameter wins, otherwise a signed-in student's own
// university applies, otherwise the listing is unscoped. An unknown
// university value is rejected rather than ignored.
func scopeFromRequest(c *gin.Context) (*models.University, error) {
	if raw := c.Query("university"); raw != "" {
		scope := models.University(raw)
		if !scope.ValidScope() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid university")
		}
		return &scope, nil
	}
	if claims := claimsFromContext(c); claims != nil && claims.University != nil {
		return claims.University, nil
	}
	return nil, nil
}
