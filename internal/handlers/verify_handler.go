package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/templebook/internal/helpers"
	"github.com/farellandr/templebook/internal/middleware"
)

type VerifyRequest struct {
	TicketToken string `json:"ticket_token" binding:"required"`
}

// VerifyTicket handles an operator's scan: the booking service decodes and
// authenticates the token, enforces temple ownership, and applies the
// one-time verification transition.
func VerifyTicket(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	operatorID, exists := middleware.CallerID(c)
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	service := middleware.GetBookingService(c)
	if service == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	result, err := service.Verify(c.Request.Context(), operatorID, req.TicketToken)
	if err != nil {
		respondBookingError(c, err)
		return
	}

	message := "Booking verified successfully."
	if result.AlreadyVerified {
		message = "Booking already verified."
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          message,
		"already_verified": result.AlreadyVerified,
		"booking":          result.Booking,
		"verified_at":      result.Booking.VerifiedAt,
	})
}
