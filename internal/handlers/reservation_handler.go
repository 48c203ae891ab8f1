package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/courtdesk/internal/models"
	"github.com/joshua-takyi/courtdesk/internal/services"
)

type ReservationManager interface {
	CreateReservation(ctx context.Context, in services.CreateReservationInput) (*models.ReservationView, error)
	UpdateReservation(ctx context.Context, id string, in services.UpdateReservationInput) (*models.ReservationView, error)
	CancelReservation(ctx context.Context, id string) (*models.ReservationView, error)
	MarkReservationPaid(ctx context.Context, id string) (*models.ReservationView, error)
	DeleteReservation(ctx context.Context, id string) error
	GetReservation(ctx context.Context, id string) (*models.ReservationView, error)
	ListReservations(ctx context.Context, in services.ListReservationsInput) ([]*models.ReservationView, error)
	ReservationsForDay(ctx context.Context, date string) (*services.DayReservations, error)
	CheckAvailability(ctx context.Context, q services.AvailabilityQuery) (services.ConflictReport, error)
}

func CreateReservation(rm ReservationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateReservationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}

		reservation, err := rm.CreateReservation(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(reservation, "Reservation created successfully"))
	}
}

func UpdateReservation(rm ReservationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.UpdateReservationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}

		reservation, err := rm.UpdateReservation(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(reservation, "Reservation updated successfully"))
	}
}

func CancelReservation(rm ReservationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		reservation, err := rm.CancelReservation(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(reservation, "Reservation cancelled"))
	}
}

func MarkReservationPaid(rm ReservationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		reservation, err := rm.MarkReservationPaid(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(reservation, "Reservation marked as paid"))
	}
}

func DeleteReservation(rm ReservationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := rm.DeleteReservation(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"id": c.Param("id")}, "Reservation deleted successfully"))
	}
}

func GetReservation(rm ReservationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		reservation, err := rm.GetReservation(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(reservation, ""))
	}
}

func ListReservations(rm ReservationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ListReservationsInput
		if err := c.ShouldBindQuery(&in); err != nil {
			bindError(c, err)
			return
		}

		reservations, err := rm.ListReservations(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		if reservations == nil {
			reservations = []*models.ReservationView{}
		}
		c.JSON(http.StatusOK, models.SuccessResponse(reservations, ""))
	}
}

func ReservationsByDate(rm ReservationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := rm.ReservationsForDay(c.Request.Context(), c.Param("date"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(day, ""))
	}
}

// CheckAvailability answers 200 whether or not the slot is free.
func CheckAvailability(rm ReservationManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q services.AvailabilityQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			bindError(c, err)
			return
		}

		report, err := rm.CheckAvailability(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(report, ""))
	}
}
