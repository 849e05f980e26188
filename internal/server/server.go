package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farellandr/templebook/config"
	"github.com/farellandr/templebook/internal/bookings"
	"github.com/farellandr/templebook/internal/handlers"
	"github.com/farellandr/templebook/internal/middleware"
	"github.com/farellandr/templebook/internal/models"
	"github.com/farellandr/templebook/internal/tickets"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	codec, err := tickets.NewCodec(cfg.TicketSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize ticket codec: %v", err)
	}

	service := bookings.NewService(bookings.NewGormStore(db), codec)

	r := gin.Default()

	setupRoutes(r, db, service)

	return r.Run(":" + cfg.Port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, service *bookings.Service) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.BookingServiceMiddleware(service))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		templePublic := public.Group("/temples")
		{
			templePublic.GET("", handlers.ListTemples)
			templePublic.GET("/:id", handlers.GetTemple)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)

		templeProtected := protected.Group("/temples")
		templeProtected.Use(middleware.RequireRole(models.RoleTempleBoard), middleware.RequireApproved())
		{
			templeProtected.POST("", handlers.CreateTemple)
			templeProtected.PUT("/:id", handlers.UpdateTemple)
			templeProtected.DELETE("/:id", handlers.DeleteTemple)
			templeProtected.POST("/:id/image", handlers.UploadTempleImage)
			templeProtected.POST("/:id/slots", handlers.CreateTimeSlot)
		}

		slotProtected := protected.Group("/slots")
		slotProtected.Use(middleware.RequireRole(models.RoleTempleBoard), middleware.RequireApproved())
		{
			slotProtected.PUT("/:id", handlers.UpdateTimeSlot)
			slotProtected.DELETE("/:id", handlers.DeleteTimeSlot)
		}

		bookingProtected := protected.Group("/bookings")
		{
			bookingProtected.POST("", middleware.RequireRole(models.RoleUser), handlers.CreateBooking)
			bookingProtected.GET("", handlers.ListBookings)
			bookingProtected.GET("/:id/qr", handlers.GetBookingQR)
			bookingProtected.POST("/verify",
				middleware.RequireRole(models.RoleTempleBoard),
				middleware.RequireApproved(),
				handlers.VerifyTicket)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleSuperuser))
		{
			admin.POST("/approve", handlers.ApproveUser)
			admin.GET("/users", handlers.ListUsers)
			admin.GET("/stats", handlers.GetStats)
		}
	}
}
