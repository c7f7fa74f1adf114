package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/patinhas/internal/container"
	"github.com/joshua-takyi/patinhas/internal/handlers"
	"github.com/joshua-takyi/patinhas/internal/middleware"
)

const ConfirmationPath = "/functions/v1/send-booking-confirmation"

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := container.Config
	secure := cfg.IsProduction()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// Public booking function. Any method is routed so non-POST requests get
	// a 405 with the CORS headers attached.
	fn := r.Group(ConfirmationPath)
	fn.Use(middleware.FunctionCORS())
	fn.Use(middleware.RateLimit(cfg.RateLimit, container.Redis, container.Logger))
	fn.Use(middleware.OptionalAuth(container.Verifier, container.UserService, container.Logger, secure))
	fn.Any("", handlers.SendBookingConfirmation(container.BookingService))

	v1 := r.Group("/api/v1")
	v1.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	{
		// preflight requests only reach the group middleware through a route
		v1.OPTIONS("/*path", func(c *gin.Context) {})

		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "patinhas-api",
			})
		})

		v1.GET("/services", handlers.ListServices(container.CatalogService))
		v1.GET("/booking-options", handlers.BookingOptions(container.CatalogService))

		v1.POST("/signup", handlers.SignUp(container.UserService))
		v1.POST("/login", handlers.Login(container.UserService, secure))
		v1.POST("/logout", handlers.Logout(container.UserService, secure))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Verifier, container.UserService, container.Logger, secure))
	{
		protected.GET("/me", handlers.Me())
		protected.GET("/dashboard/stats", handlers.DashboardStats(container.BookingService))

		bookingRoutes := protected.Group("/bookings")
		bookingRoutes.GET("", handlers.ListBookings(container.BookingService))
		bookingRoutes.PATCH("/:id/cancel", handlers.CancelBooking(container.BookingService))
		bookingRoutes.GET("/:id/notifications", handlers.BookingNotifications(container.BookingService))
	}

	return r
}
