// controllers/individual.go
package controllers

import (
	"errors"
	"net/http"

	"bizops-backend/config"
	"bizops-backend/models"
	"bizops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateIndividualInput struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	SecondaryEmail string `json:"secondaryEmail" binding:"omitempty,email"`
	Phone          string `json:"phone"`
	Nationality    string `json:"nationality"`
	Notes          string `json:"notes"`
}

type UpdateIndividualInput struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	SecondaryEmail *string `json:"secondaryEmail" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	Nationality    *string `json:"nationality"`
	Notes          *string `json:"notes"`
	IsActive       *bool   `json:"isActive"`
}

func CreateIndividual(c *gin.Context) {
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

	var input CreateIndividualInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	individual := models.Individual{
		CreatedByUserID: userUUID,
		Name:            input.Name,
		Email:           input.Email,
		SecondaryEmail:  input.SecondaryEmail,
		Phone:           input.Phone,
		Nationality:     input.Nationality,
		Notes:           input.Notes,
		IsActive:        true,
	}

	if err := config.DB.Create(&individual).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create individual")
		return
	}

	c.JSON(http.StatusCreated, individual)
}

func GetIndividuals(c *gin.Context) {
	var individuals []models.Individual
	query := config.DB.Order("name asc")

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Find(&individuals).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve individuals")
		return
	}

	c.JSON(http.StatusOK, individuals)
}

func GetIndividual(c *gin.Context) {
	individualUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid individual ID format")
		return
	}

	var individual models.Individual
	if err := config.DB.Preload("Documents").First(&individual, "id = ?", individualUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Individual not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, individual)
}

func UpdateIndividual(c *gin.Context) {
	individualUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid individual ID format")
		return
	}

	var input UpdateIndividualInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var individual models.Individual
	if err := config.DB.First(&individual, "id = ?", individualUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Individual not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		individual.Name = *input.Name
	}
	if input.Email != nil {
		individual.Email = *input.Email
	}
	if input.SecondaryEmail != nil {
		individual.SecondaryEmail = *input.SecondaryEmail
	}
	if input.Phone != nil {
		individual.Phone = *input.Phone
	}
	if input.Nationality != nil {
		individual.Nationality = *input.Nationality
	}
	if input.Notes != nil {
		individual.Notes = *input.Notes
	}
	if input.IsActive != nil {
		individual.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&individual).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update individual")
		return
	}

	c.JSON(http.StatusOK, individual)
}

func DeleteIndividual(c *gin.Context) {
	individualUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid individual ID format")
		return
	}

	result := config.DB.Where("id = ?", individualUUID).Delete(&models.Individual{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete individual")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Individual not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Individual deleted successfully"})
}
