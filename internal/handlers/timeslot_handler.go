package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farellandr/templebook/internal/helpers"
	"github.com/farellandr/templebook/internal/middleware"
	"github.com/farellandr/templebook/internal/models"
)

type TimeSlotRequest struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Capacity  int    `json:"capacity" binding:"required,min=1"`
}

func (req TimeSlotRequest) window() (start, end time.Time, err error) {
	start, err = time.Parse("15:04", req.StartTime)
	if err != nil {
		return
	}
	end, err = time.Parse("15:04", req.EndTime)
	return
}

func CreateTimeSlot(c *gin.Context) {
	templeID, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid temple ID.")
		return
	}

	var req TimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	start, end, err := req.window()
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Times must be in HH:MM format.")
		return
	}
	if !start.Before(end) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Start time must be before end time.")
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

	var temple models.Temple
	if err := gormDB.Where("id = ? AND owner_id = ?", templeID, userID).First(&temple).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Temple not found or you don't have permission to modify it.")
		return
	}

	slot := models.TimeSlot{
		TempleID:  temple.ID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
		IsActive:  true,
	}

	if err := gormDB.Create(&slot).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create time slot.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Time slot created successfully.",
		"time_slot": slot,
	})
}

func UpdateTimeSlot(c *gin.Context) {
	slotID, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid time slot ID.")
		return
	}

	var req TimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	start, end, err := req.window()
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Times must be in HH:MM format.")
		return
	}
	if !start.Before(end) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Start time must be before end time.")
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

	var slot models.TimeSlot
	if err := gormDB.First(&slot, "id = ?", slotID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Time slot not found.")
		return
	}

	var temple models.Temple
	if err := gormDB.Where("id = ? AND owner_id = ?", slot.TempleID, userID).First(&temple).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this time slot.")
		return
	}

	slot.StartTime = req.StartTime
	slot.EndTime = req.EndTime
	slot.Capacity = req.Capacity

	if err := gormDB.Save(&slot).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update time slot.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Time slot updated successfully.",
		"time_slot": slot,
	})
}

// DeleteTimeSlot deactivates a slot; existing bookings keep pointing at it.
func DeleteTimeSlot(c *gin.Context) {
	slotID, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid time slot ID.")
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

	var slot models.TimeSlot
	if err := gormDB.First(&slot, "id = ?", slotID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Time slot not found.")
		return
	}

	var temple models.Temple
	if err := gormDB.Where("id = ? AND owner_id = ?", slot.TempleID, userID).First(&temple).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this time slot.")
		return
	}

	if err := gormDB.Model(&slot).Update("is_active", false).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate time slot.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Time slot deactivated successfully."})
}
