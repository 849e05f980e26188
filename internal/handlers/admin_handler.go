package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farellandr/templebook/internal/helpers"
	"github.com/farellandr/templebook/internal/models"
)

type ApproveRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	IsApproved *bool     `json:"is_approved" binding:"required"`
}

// ApproveUser lets the superuser approve or reject a temple board account.
func ApproveUser(c *gin.Context) {
	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.First(&user, "id = ?", req.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving user.")
		return
	}

	if user.Role != models.RoleTempleBoard {
		helpers.RespondWithError(c, http.StatusBadRequest, "Only temple board members require approval.")
		return
	}

	if err := gormDB.Model(&user).Update("is_approved", *req.IsApproved).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update approval status.")
		return
	}

	message := "User approved successfully."
	if !*req.IsApproved {
		message = "User rejected successfully."
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"user": gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"name":        user.Name,
			"role":        user.Role,
			"is_approved": *req.IsApproved,
		},
	})
}

func ListUsers(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if approved := c.Query("is_approved"); approved != "" {
		query = query.Where("is_approved = ?", approved == "true")
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving users.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetStats reports platform-wide counts and revenue for the admin
// dashboard.
func GetStats(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var totalUsers, totalTemples, totalBookings, pendingApprovals, activeTemples, verifiedBookings int64
	gormDB.Model(&models.User{}).Count(&totalUsers)
	gormDB.Model(&models.Temple{}).Count(&totalTemples)
	gormDB.Model(&models.Booking{}).Count(&totalBookings)
	gormDB.Model(&models.User{}).
		Where("role = ? AND is_approved = ?", models.RoleTempleBoard, false).
		Count(&pendingApprovals)
	gormDB.Model(&models.Temple{}).Where("is_active = ?", true).Count(&activeTemples)
	gormDB.Model(&models.Booking{}).Where("status = ?", models.StatusVerified).Count(&verifiedBookings)

	var totalRevenue int64
	gormDB.Model(&models.Booking{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status IN ?", []models.BookingStatus{models.StatusConfirmed, models.StatusVerified}).
		Scan(&totalRevenue)

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var bookingsByStatus []statusCount
	gormDB.Model(&models.Booking{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&bookingsByStatus)

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"total_users":       totalUsers,
			"total_temples":     totalTemples,
			"total_bookings":    totalBookings,
			"pending_approvals": pendingApprovals,
			"active_temples":    activeTemples,
			"verified_bookings": verifiedBookings,
			"total_revenue":     totalRevenue,
		},
		"bookings_by_status": bookingsByStatus,
	})
}
