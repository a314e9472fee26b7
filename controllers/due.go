// controllers/due.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"bizops-backend/config"
	"bizops-backend/models"
	"bizops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateDueInput struct {
	CompanyID   string    `json:"companyId" binding:"required,uuid"`
	Description string    `json:"description" binding:"required"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
	Notes       string    `json:"notes"`
}

type UpdateDueInput struct {
	Description *string    `json:"description"`
	Amount      *float64   `json:"amount" binding:"omitempty,gt=0"`
	DueDate     *time.Time `json:"dueDate"`
	Notes       *string    `json:"notes"`
}

type RecordPaymentInput struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func CreateDue(c *gin.Context) {
	var input CreateDueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	companyUUID, err := uuid.Parse(input.CompanyID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
		return
	}

	due := models.Due{
		CompanyID:   companyUUID,
		Description: input.Description,
		Amount:      input.Amount,
		DueDate:     input.DueDate,
		Status:      "pending",
		Notes:       input.Notes,
	}

	if err := config.DB.Create(&due).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create due")
		return
	}

	c.JSON(http.StatusCreated, due)
}

func GetDues(c *gin.Context) {
	var dues []models.Due
	query := config.DB.Preload("Company").Order("due_date asc")

	if companyID := c.Query("companyId"); companyID != "" {
		companyUUID, err := uuid.Parse(companyID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
			return
		}
		query = query.Where("company_id = ?", companyUUID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&dues).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve dues")
		return
	}

	c.JSON(http.StatusOK, dues)
}

func GetDue(c *gin.Context) {
	dueUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid due ID format")
		return
	}

	var due models.Due
	if err := config.DB.Preload("Company").First(&due, "id = ?", dueUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Due not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, due)
}

func UpdateDue(c *gin.Context) {
	dueUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid due ID format")
		return
	}

	var input UpdateDueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var due models.Due
	if err := config.DB.First(&due, "id = ?", dueUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Due not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Description != nil {
		due.Description = *input.Description
	}
	if input.Amount != nil {
		due.Amount = *input.Amount
	}
	if input.DueDate != nil {
		due.DueDate = *input.DueDate
	}
	if input.Notes != nil {
		due.Notes = *input.Notes
	}
	due.RecomputeStatus()

	if err := config.DB.Save(&due).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update due")
		return
	}

	c.JSON(http.StatusOK, due)
}

// RecordDuePayment applies a payment and rederives the status
func RecordDuePayment(c *gin.Context) {
	dueUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid due ID format")
		return
	}

	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var due models.Due
	if err := config.DB.First(&due, "id = ?", dueUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Due not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if due.PaidAmount+input.Amount > due.Amount {
		utils.RespondWithError(c, http.StatusBadRequest, "Payment exceeds outstanding balance")
		return
	}

	due.PaidAmount += input.Amount
	due.RecomputeStatus()

	if err := config.DB.Save(&due).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	c.JSON(http.StatusOK, due)
}

func DeleteDue(c *gin.Context) {
	dueUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid due ID format")
		return
	}

	result := config.DB.Where("id = ?", dueUUID).Delete(&models.Due{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete due")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Due not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Due deleted successfully"})
}
