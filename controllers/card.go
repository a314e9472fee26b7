// controllers/card.go
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

type CreateCardInput struct {
	CompanyID   string `json:"companyId" binding:"required,uuid"`
	HolderName  string `json:"holderName" binding:"required"`
	LastFour    string `json:"lastFour" binding:"required,len=4,numeric"`
	Brand       string `json:"brand" binding:"omitempty,oneof=visa mastercard amex"`
	ExpiryMonth int    `json:"expiryMonth" binding:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiryYear" binding:"required,min=2000"`
}

type UpdateCardInput struct {
	HolderName  *string `json:"holderName"`
	ExpiryMonth *int    `json:"expiryMonth" binding:"omitempty,min=1,max=12"`
	ExpiryYear  *int    `json:"expiryYear" binding:"omitempty,min=2000"`
	IsActive    *bool   `json:"isActive"`
}

func CreateCard(c *gin.Context) {
	var input CreateCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	companyUUID, err := uuid.Parse(input.CompanyID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
		return
	}

	card := models.Card{
		CompanyID:   companyUUID,
		HolderName:  input.HolderName,
		LastFour:    input.LastFour,
		Brand:       input.Brand,
		ExpiryMonth: input.ExpiryMonth,
		ExpiryYear:  input.ExpiryYear,
		IsActive:    true,
	}

	if err := config.DB.Create(&card).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create card")
		return
	}

	c.JSON(http.StatusCreated, card)
}

func GetCards(c *gin.Context) {
	var cards []models.Card
	query := config.DB.Order("created_at desc")

	if companyID := c.Query("companyId"); companyID != "" {
		companyUUID, err := uuid.Parse(companyID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
			return
		}
		query = query.Where("company_id = ?", companyUUID)
	}

	if err := query.Find(&cards).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve cards")
		return
	}

	c.JSON(http.StatusOK, cards)
}

func UpdateCard(c *gin.Context) {
	cardUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	var input UpdateCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var card models.Card
	if err := config.DB.First(&card, "id = ?", cardUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Card not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.HolderName != nil {
		card.HolderName = *input.HolderName
	}
	if input.ExpiryMonth != nil {
		card.ExpiryMonth = *input.ExpiryMonth
	}
	if input.ExpiryYear != nil {
		card.ExpiryYear = *input.ExpiryYear
	}
	if input.IsActive != nil {
		card.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&card).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update card")
		return
	}

	c.JSON(http.StatusOK, card)
}

func DeleteCard(c *gin.Context) {
	cardUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	result := config.DB.Where("id = ?", cardUUID).Delete(&models.Card{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete card")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Card not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}
