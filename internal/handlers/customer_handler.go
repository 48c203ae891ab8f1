package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/courtdesk/internal/models"
	"github.com/joshua-takyi/courtdesk/internal/services"
)

type CustomerManager interface {
	CreateCustomer(ctx context.Context, in services.CustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, in services.CustomerInput) (*models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context, in services.ListCustomersInput) (*services.CustomerPage, error)
	DeleteCustomer(ctx context.Context, id string) error
}

func CreateCustomer(cm CustomerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CustomerInput
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}

		customer, err := cm.CreateCustomer(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(customer, "Customer created successfully"))
	}
}

func UpdateCustomer(cm CustomerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CustomerInput
		if err := c.ShouldBindJSON(&in); err != nil {
			bindError(c, err)
			return
		}

		customer, err := cm.UpdateCustomer(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(customer, "Customer updated successfully"))
	}
}

func GetCustomer(cm CustomerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := cm.GetCustomer(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(customer, ""))
	}
}

func ListCustomers(cm CustomerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.ListCustomersInput
		if err := c.ShouldBindQuery(&in); err != nil {
			bindError(c, err)
			return
		}

		page, err := cm.ListCustomers(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		customers := page.Customers
		if customers == nil {
			customers = []*models.Customer{}
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(customers, page.Offset/page.Limit+1, page.Limit, page.Total))
	}
}

func DeleteCustomer(cm CustomerManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cm.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"id": c.Param("id")}, "Customer deleted successfully"))
	}
}
