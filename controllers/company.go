// controllers/company.go
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

// CreateCompanyInput defines the expected JSON structure for creating a company
type CreateCompanyInput struct {
	Name               string     `json:"name" binding:"required"`
	RegistrationNumber string     `json:"registrationNumber"`
	Email              string     `json:"email" binding:"omitempty,email"`
	SecondaryEmail     string     `json:"secondaryEmail" binding:"omitempty,email"`
	Phone              string     `json:"phone"`
	Address            string     `json:"address"`
	LicenseExpiry      *time.Time `json:"licenseExpiry"`
	Notes              string     `json:"notes"`
}

// UpdateCompanyInput defines the expected JSON structure for updating a company
type UpdateCompanyInput struct {
	Name               *string    `json:"name"`
	RegistrationNumber *string    `json:"registrationNumber"`
	Email              *string    `json:"email" binding:"omitempty,email"`
	SecondaryEmail     *string    `json:"secondaryEmail" binding:"omitempty,email"`
	Phone              *string    `json:"phone"`
	Address            *string    `json:"address"`
	LicenseExpiry      *time.Time `json:"licenseExpiry"`
	Notes              *string    `json:"notes"`
	IsActive           *bool      `json:"isActive"`
}

func CreateCompany(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	var input CreateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	company := models.Company{
		CreatedByUserID:    userUUID,
		Name:               input.Name,
		RegistrationNumber: input.RegistrationNumber,
		Email:              input.Email,
		SecondaryEmail:     input.SecondaryEmail,
		Phone:              input.Phone,
		Address:            input.Address,
		LicenseExpiry:      input.LicenseExpiry,
		Notes:              input.Notes,
		IsActive:           true,
	}

	if err := config.DB.Create(&company).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create company")
		return
	}

	c.JSON(http.StatusCreated, company)
}

func GetCompanies(c *gin.Context) {
	var companies []models.Company
	query := config.DB.Order("name asc")

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR registration_number ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Find(&companies).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve companies")
		return
	}

	c.JSON(http.StatusOK, companies)
}

func GetCompany(c *gin.Context) {
	companyUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
		return
	}

	var company models.Company
	if err := config.DB.Preload("Services").Preload("Documents").
		Preload("Employees").Preload("Dues").
		First(&company, "id = ?", companyUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Company not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, company)
}

func UpdateCompany(c *gin.Context) {
	companyUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
		return
	}

	var input UpdateCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var company models.Company
	if err := config.DB.First(&company, "id = ?", companyUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Company not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		company.Name = *input.Name
	}
	if input.RegistrationNumber != nil {
		company.RegistrationNumber = *input.RegistrationNumber
	}
	if input.Email != nil {
		company.Email = *input.Email
	}
	if input.SecondaryEmail != nil {
		company.SecondaryEmail = *input.SecondaryEmail
	}
	if input.Phone != nil {
		company.Phone = *input.Phone
	}
	if input.Address != nil {
		company.Address = *input.Address
	}
	if input.LicenseExpiry != nil {
		company.LicenseExpiry = input.LicenseExpiry
	}
	if input.Notes != nil {
		company.Notes = *input.Notes
	}
	if input.IsActive != nil {
		company.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&company).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update company")
		return
	}

	c.JSON(http.StatusOK, company)
}

func DeleteCompany(c *gin.Context) {
	companyUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
		return
	}

	result := config.DB.Where("id = ?", companyUUID).Delete(&models.Company{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete company")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Company not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}
