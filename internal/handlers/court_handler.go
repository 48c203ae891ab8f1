package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/courtdesk/internal/models"
	"github.com/joshua-takyi/courtdesk/internal/services"
)

type CourtManager interface {
	CreateCourt(ctx context.Context, in services.CourtInput) (*models.Court, error)
	UpdateCourt(ctx context.Context, id string, in services.CourtInput) (*models.Court, error)
	SetCourtStatus(ctx context.Context, id string, status models.CourtStatus) (*models.Court, error)
	GetCourt(ctx context.Context, id string) (*models.Court, error)
	ListCourts(ctx context.Context, filter models.CourtFilter) ([]*models.Court, error)
	DeleteCourt(ctx context.Context, id string) error
}

func CreateCourt(cm CourtManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CourtInput
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}

		court, err := cm.CreateCourt(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(court, "Court created successfully"))
	}
}

func UpdateCourt(cm CourtManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CourtInput
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}

		court, err := cm.UpdateCourt(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(court, "Court updated successfully"))
	}
}

func SetCourtStatus(cm CourtManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Status models.CourtStatus `json:"status"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}

		court, err := cm.SetCourtStatus(c.Request.Context(), c.Param("id"), body.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(court, "Court status updated"))
	}
}

func GetCourt(cm CourtManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		court, err := cm.GetCourt(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(court, ""))
	}
}

func ListCourts(cm CourtManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.CourtFilter{
			Category: models.CourtCategory(c.Query("category")),
			Status:   models.CourtStatus(c.Query("status")),
		}
		courts, err := cm.ListCourts(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		if courts == nil {
			courts = []*models.Court{}
		}
		c.JSON(http.StatusOK, models.SuccessResponse(courts, ""))
	}
}

func DeleteCourt(cm CourtManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cm.DeleteCourt(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"id": c.Param("id")}, "Court deleted successfully"))
	}
}
