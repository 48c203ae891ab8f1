package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/courtdesk/internal/models"
	"github.com/joshua-takyi/courtdesk/internal/services"
)

type ConfigurationManager interface {
	GetConfiguration(ctx context.Context) (*models.Configuration, error)
	UpdateConfiguration(ctx context.Context, in services.ConfigurationInput) (*models.Configuration, error)
	ResetConfiguration(ctx context.Context) (*models.Configuration, error)
}

func GetConfiguration(cm ConfigurationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := cm.GetConfiguration(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(cfg, ""))
	}
}

func UpdateConfiguration(cm ConfigurationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ConfigurationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}

		cfg, err := cm.UpdateConfiguration(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(cfg, "Configuration updated successfully"))
	}
}

func ResetConfiguration(cm ConfigurationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := cm.ResetConfiguration(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(cfg, "Configuration reset to defaults"))
	}
}
