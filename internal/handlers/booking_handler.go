package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farellandr/templebook/internal/bookings"
	"github.com/farellandr/templebook/internal/helpers"
	"github.com/farellandr/templebook/internal/middleware"
	"github.com/farellandr/templebook/internal/models"
	"github.com/farellandr/templebook/internal/tickets"

	"github.com/google/uuid"
)

type BookingRequest struct {
	TempleID    uuid.UUID `json:"temple_id" binding:"required"`
	TimeSlotID  uuid.UUID `json:"time_slot_id" binding:"required"`
	VisitDate   string    `json:"visit_date" binding:"required"`
	TicketCount int       `json:"ticket_count" binding:"required"`
}

// respondBookingError maps the booking core's typed outcomes onto HTTP
// statuses. The core never leaks why a ticket failed to decode.
func respondBookingError(c *gin.Context, err error) {
	var (
		validationErr bookings.ValidationError
		notFoundErr   bookings.NotFoundError
		capacityErr   bookings.CapacityError
		stateErr      bookings.StateError
	)
	switch {
	case errors.As(err, &validationErr):
		helpers.RespondWithFieldError(c, validationErr.Field, validationErr.Message)
	case errors.As(err, &notFoundErr):
		helpers.RespondWithError(c, http.StatusNotFound, notFoundErr.Error()+".")
	case errors.As(err, &capacityErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     helpers.HTTPStatusText(http.StatusBadRequest),
			"message":   capacityErr.Error(),
			"available": capacityErr.Available,
			"limit":     capacityErr.Limit,
		})
	case errors.As(err, &stateErr):
		helpers.RespondWithError(c, http.StatusBadRequest, stateErr.Error()+".")
	case errors.Is(err, bookings.ErrInvalidTicket):
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid or tampered ticket.")
	case errors.Is(err, bookings.ErrNotTempleOwner):
		helpers.RespondWithError(c, http.StatusForbidden, "You can only verify bookings for your own temples.")
	case errors.Is(err, bookings.ErrTooBusy):
		helpers.RespondWithError(c, http.StatusServiceUnavailable, "Service is busy. Please try again.")
	default:
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to process booking.")
	}
}

func CreateBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := middleware.CallerID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	visitDate, err := helpers.ParseVisitDate(req.VisitDate)
	if err != nil {
		helpers.RespondWithFieldError(c, "visit_date", "must be an RFC3339 timestamp or YYYY-MM-DD date")
		return
	}

	service := middleware.GetBookingService(c)
	if service == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	booking, err := service.Create(c.Request.Context(), bookings.CreateParams{
		UserID:      userID,
		TempleID:    req.TempleID,
		TimeSlotID:  req.TimeSlotID,
		VisitDate:   visitDate,
		TicketCount: req.TicketCount,
	})
	if err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking confirmed.",
		"booking": booking,
	})
}

// ListBookings is role-scoped: users see their own bookings, temple board
// members see bookings for their temples, the superuser sees everything.
func ListBookings(c *gin.Context) {
	userID, exists := middleware.CallerID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	roleValue, _ := c.Get("role")
	role := roleValue.(models.Role)

	db, ok := c.Get("db")
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.
		Preload("User").
		Preload("Temple").
		Preload("TimeSlot").
		Preload("VerifiedBy")

	switch role {
	case models.RoleUser:
		query = query.Where("user_id = ?", userID)
	case models.RoleTempleBoard:
		query = query.Where("temple_id IN (?)",
			gormDB.Model(&models.Temple{}).Select("id").Where("owner_id = ?", userID))
		if templeID := c.Query("temple_id"); templeID != "" {
			query = query.Where("temple_id = ?", templeID)
		}
	case models.RoleSuperuser:
		// Unrestricted.
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var results []models.Booking
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving bookings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": results})
}

// GetBookingQR serves the booking's ticket as a QR PNG.
func GetBookingQR(c *gin.Context) {
	bookingID, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	userID, exists := middleware.CallerID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, ok := c.Get("db")
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var booking models.Booking
	if err := gormDB.First(&booking, "id = ?", bookingID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
		return
	}

	if booking.UserID != userID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this ticket.")
		return
	}

	png, err := tickets.Image(booking.TicketToken)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to render QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
