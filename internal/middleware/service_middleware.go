package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/farellandr/templebook/internal/bookings"
)

func BookingServiceMiddleware(service *bookings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("booking_service", service)
		c.Next()
	}
}

func GetBookingService(c *gin.Context) *bookings.Service {
	service, exists := c.Get("booking_service")
	if !exists {
		return nil
	}
	return service.(*bookings.Service)
}
