package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farellandr/templebook/internal/helpers"
	"github.com/farellandr/templebook/internal/middleware"
	"github.com/farellandr/templebook/internal/models"
)

type TempleRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description" binding:"required,min=10"`
	Location         string `json:"location" binding:"required"`
	Address          string `json:"address" binding:"required"`
	City             string `json:"city" binding:"required"`
	State            string `json:"state" binding:"required"`
	Pincode          string `json:"pincode" binding:"required,len=6,numeric"`
	Timings          string `json:"timings"`
	DailyTicketLimit int    `json:"daily_ticket_limit" binding:"required,min=1"`
	TicketPrice      *int   `json:"ticket_price" binding:"required,min=0"`
}

func ListTemples(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Where("is_active = ?", true)
	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}
	if state := c.Query("state"); state != "" {
		query = query.Where("state = ?", state)
	}

	var temples []models.Temple
	if err := query.Order("created_at DESC").Find(&temples).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving temples.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"temples": temples})
}

func GetTemple(c *gin.Context) {
	templeID, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid temple ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var temple models.Temple
	err = gormDB.
		Preload("TimeSlots", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("start_time ASC")
		}).
		First(&temple, "id = ?", templeID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Temple not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving temple.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"temple": temple})
}

func CreateTemple(c *gin.Context) {
	var req TempleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
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

	temple := models.Temple{
		Name:             req.Name,
		Description:      req.Description,
		Location:         req.Location,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		Pincode:          req.Pincode,
		Timings:          req.Timings,
		DailyTicketLimit: req.DailyTicketLimit,
		TicketPrice:      *req.TicketPrice,
		IsActive:         true,
		OwnerID:          userID,
	}

	if err := gormDB.Create(&temple).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create temple.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Temple created successfully.",
		"temple":  temple,
	})
}

func UpdateTemple(c *gin.Context) {
	templeID, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid temple ID.")
		return
	}

	var req TempleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
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
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Temple not found or you don't have permission to modify it.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error verifying temple ownership.")
		return
	}

	temple.Name = req.Name
	temple.Description = req.Description
	temple.Location = req.Location
	temple.Address = req.Address
	temple.City = req.City
	temple.State = req.State
	temple.Pincode = req.Pincode
	temple.Timings = req.Timings
	temple.DailyTicketLimit = req.DailyTicketLimit
	temple.TicketPrice = *req.TicketPrice

	if err := gormDB.Save(&temple).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update temple.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Temple updated successfully.",
		"temple":  temple,
	})
}

// DeleteTemple deactivates a temple. Bookings are audit records, so the
// temple row itself stays.
func DeleteTemple(c *gin.Context) {
	templeID, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid temple ID.")
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
		helpers.RespondWithError(c, http.StatusForbidden, "Temple not found or you don't have permission to delete it.")
		return
	}

	if err := gormDB.Model(&temple).Update("is_active", false).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate temple.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Temple deactivated successfully."})
}

func UploadTempleImage(c *gin.Context) {
	templeID, err := helpers.ParseUUIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid temple ID.")
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

	imageFile, err := c.FormFile("image")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Image file is required.")
		return
	}

	imagePath, err := helpers.UploadFile(c, imageFile, "temple_images")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if temple.ImagePath != "" {
		helpers.DeleteFile(temple.ImagePath)
	}

	if err := gormDB.Model(&temple).Update("image_path", imagePath).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save temple image.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Temple image uploaded successfully.",
		"image_path": imagePath,
	})
}
