package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/courtdesk/internal/container"
	"github.com/joshua-takyi/courtdesk/internal/handlers"
	"github.com/joshua-takyi/courtdesk/internal/middleware"
	"github.com/joshua-takyi/courtdesk/internal/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(middleware.Metrics())
	r.Use(gin.Recovery())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse("route not found"))
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "courtdesk-api",
			})
		})
		v1.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := v1.Group("/")
	api.Use(middleware.RateLimit(container.RateLimiter))

	reservationRoutes := api.Group("/reservations")
	{
		rs := container.ReservationService
		reservationRoutes.GET("", handlers.ListReservations(rs))
		reservationRoutes.GET("/availability", handlers.CheckAvailability(rs))
		reservationRoutes.GET("/date/:date", handlers.ReservationsByDate(rs))
		reservationRoutes.GET("/:id", handlers.GetReservation(rs))
		reservationRoutes.POST("", handlers.CreateReservation(rs))
		reservationRoutes.PUT("/:id", handlers.UpdateReservation(rs))
		reservationRoutes.PATCH("/:id/cancel", handlers.CancelReservation(rs))
		reservationRoutes.PATCH("/:id/pay", handlers.MarkReservationPaid(rs))
		reservationRoutes.DELETE("/:id", handlers.DeleteReservation(rs))
	}

	courtRoutes := api.Group("/courts")
	{
		cs := container.CourtService
		courtRoutes.GET("", handlers.ListCourts(cs))
		courtRoutes.POST("", handlers.CreateCourt(cs))
		courtRoutes.GET("/:id", handlers.GetCourt(cs))
		courtRoutes.PUT("/:id", handlers.UpdateCourt(cs))
		courtRoutes.PATCH("/:id/status", handlers.SetCourtStatus(cs))
		courtRoutes.DELETE("/:id", handlers.DeleteCourt(cs))
	}

	customerRoutes := api.Group("/customers")
	{
		cs := container.CustomerService
		customerRoutes.GET("", handlers.ListCustomers(cs))
		customerRoutes.POST("", handlers.CreateCustomer(cs))
		customerRoutes.GET("/:id", handlers.GetCustomer(cs))
		customerRoutes.PUT("/:id", handlers.UpdateCustomer(cs))
		customerRoutes.DELETE("/:id", handlers.DeleteCustomer(cs))
	}

	configurationRoutes := api.Group("/configuration")
	{
		cs := container.ConfigurationService
		configurationRoutes.GET("", handlers.GetConfiguration(cs))
		configurationRoutes.PUT("", handlers.UpdateConfiguration(cs))
		configurationRoutes.POST("/reset", handlers.ResetConfiguration(cs))
	}

	return r
}
