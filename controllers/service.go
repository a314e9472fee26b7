// controllers/service.go
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

type CreateServiceInput struct {
	CompanyID     string     `json:"companyId" binding:"required,uuid"`
	Name          string     `json:"name" binding:"required"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Amount        float64    `json:"amount" binding:"min=0"`
	StartDate     *time.Time `json:"startDate"`
	ExpiryDate    time.Time  `json:"expiryDate" binding:"required"`
	Notes         string     `json:"notes"`
}

type UpdateServiceInput struct {
	Name          *string    `json:"name"`
	InvoiceNumber *string    `json:"invoiceNumber"`
	Amount        *float64   `json:"amount"`
	StartDate     *time.Time `json:"startDate"`
	ExpiryDate    *time.Time `json:"expiryDate"`
	Status        *string    `json:"status" binding:"omitempty,oneof=active expired cancelled"`
	Notes         *string    `json:"notes"`
}

func CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	companyUUID, err := uuid.Parse(input.CompanyID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
		return
	}

	service := models.CompanyService{
		CompanyID:     companyUUID,
		Name:          input.Name,
		InvoiceNumber: input.InvoiceNumber,
		Amount:        input.Amount,
		StartDate:     input.StartDate,
		ExpiryDate:    input.ExpiryDate,
		Status:        "active",
		Notes:         input.Notes,
	}

	if err := config.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

func GetServices(c *gin.Context) {
	var services []models.CompanyService
	query := config.DB.Preload("Company").Order("expiry_date asc")

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

	if err := query.Find(&services).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, services)
}

func GetService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.CompanyService
	if err := config.DB.Preload("Company").First(&service, "id = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

func UpdateService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.CompanyService
	if err := config.DB.First(&service, "id = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.InvoiceNumber != nil {
		service.InvoiceNumber = *input.InvoiceNumber
	}
	if input.Amount != nil {
		service.Amount = *input.Amount
	}
	if input.StartDate != nil {
		service.StartDate = input.StartDate
	}
	if input.ExpiryDate != nil {
		service.ExpiryDate = *input.ExpiryDate
	}
	if input.Status != nil {
		service.Status = *input.Status
	}
	if input.Notes != nil {
		service.Notes = *input.Notes
	}

	if err := config.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

func DeleteService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	result := config.DB.Where("id = ?", serviceUUID).Delete(&models.CompanyService{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
