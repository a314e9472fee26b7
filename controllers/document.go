// controllers/document.go
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

// Documents are tracked for three owner kinds; the route carries the kind as
// a path parameter (company|individual|employee).

type CreateDocumentInput struct {
	OwnerID    string     `json:"ownerId" binding:"required,uuid"`
	Title      string     `json:"title" binding:"required"`
	DocType    string     `json:"docType"`
	DocNumber  string     `json:"docNumber"`
	IssueDate  *time.Time `json:"issueDate"`
	ExpiryDate time.Time  `json:"expiryDate" binding:"required"`
	Notes      string     `json:"notes"`
}

type UpdateDocumentInput struct {
	Title      *string    `json:"title"`
	DocType    *string    `json:"docType"`
	DocNumber  *string    `json:"docNumber"`
	IssueDate  *time.Time `json:"issueDate"`
	ExpiryDate *time.Time `json:"expiryDate"`
	Status     *string    `json:"status" binding:"omitempty,oneof=active expired archived"`
	Notes      *string    `json:"notes"`
}

func CreateDocument(c *gin.Context) {
	ownerType := c.Param("ownerType")

	var input CreateDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	ownerUUID, err := uuid.Parse(input.OwnerID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	switch ownerType {
	case "company":
		doc := models.CompanyDocument{
			CompanyID:  ownerUUID,
			Title:      input.Title,
			DocType:    input.DocType,
			DocNumber:  input.DocNumber,
			IssueDate:  input.IssueDate,
			ExpiryDate: input.ExpiryDate,
			Status:     "active",
			Notes:      input.Notes,
		}
		if err := config.DB.Create(&doc).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create document")
			return
		}
		c.JSON(http.StatusCreated, doc)
	case "individual":
		doc := models.IndividualDocument{
			IndividualID: ownerUUID,
			Title:        input.Title,
			DocType:      input.DocType,
			DocNumber:    input.DocNumber,
			IssueDate:    input.IssueDate,
			ExpiryDate:   input.ExpiryDate,
			Status:       "active",
			Notes:        input.Notes,
		}
		if err := config.DB.Create(&doc).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create document")
			return
		}
		c.JSON(http.StatusCreated, doc)
	case "employee":
		doc := models.EmployeeDocument{
			EmployeeID: ownerUUID,
			Title:      input.Title,
			DocType:    input.DocType,
			DocNumber:  input.DocNumber,
			IssueDate:  input.IssueDate,
			ExpiryDate: input.ExpiryDate,
			Status:     "active",
			Notes:      input.Notes,
		}
		if err := config.DB.Create(&doc).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create document")
			return
		}
		c.JSON(http.StatusCreated, doc)
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown document owner type")
	}
}

func GetDocuments(c *gin.Context) {
	ownerType := c.Param("ownerType")

	switch ownerType {
	case "company":
		var docs []models.CompanyDocument
		query := config.DB.Preload("Company").Order("expiry_date asc")
		if ownerID := c.Query("ownerId"); ownerID != "" {
			query = query.Where("company_id = ?", ownerID)
		}
		if err := query.Find(&docs).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve documents")
			return
		}
		c.JSON(http.StatusOK, docs)
	case "individual":
		var docs []models.IndividualDocument
		query := config.DB.Preload("Individual").Order("expiry_date asc")
		if ownerID := c.Query("ownerId"); ownerID != "" {
			query = query.Where("individual_id = ?", ownerID)
		}
		if err := query.Find(&docs).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve documents")
			return
		}
		c.JSON(http.StatusOK, docs)
	case "employee":
		var docs []models.EmployeeDocument
		query := config.DB.Preload("Employee").Order("expiry_date asc")
		if ownerID := c.Query("ownerId"); ownerID != "" {
			query = query.Where("employee_id = ?", ownerID)
		}
		if err := query.Find(&docs).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve documents")
			return
		}
		c.JSON(http.StatusOK, docs)
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown document owner type")
	}
}

func UpdateDocument(c *gin.Context) {
	ownerType := c.Param("ownerType")

	docUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	var input UpdateDocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// updates is shared across the three document tables; column names match
	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.DocType != nil {
		updates["doc_type"] = *input.DocType
	}
	if input.DocNumber != nil {
		updates["doc_number"] = *input.DocNumber
	}
	if input.IssueDate != nil {
		updates["issue_date"] = input.IssueDate
	}
	if input.ExpiryDate != nil {
		updates["expiry_date"] = *input.ExpiryDate
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	switch ownerType {
	case "company":
		var doc models.CompanyDocument
		if err := config.DB.First(&doc, "id = ?", docUUID).Error; err != nil {
			respondDocumentLookupError(c, err)
			return
		}
		if err := config.DB.Model(&doc).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update document")
			return
		}
		c.JSON(http.StatusOK, doc)
	case "individual":
		var doc models.IndividualDocument
		if err := config.DB.First(&doc, "id = ?", docUUID).Error; err != nil {
			respondDocumentLookupError(c, err)
			return
		}
		if err := config.DB.Model(&doc).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update document")
			return
		}
		c.JSON(http.StatusOK, doc)
	case "employee":
		var doc models.EmployeeDocument
		if err := config.DB.First(&doc, "id = ?", docUUID).Error; err != nil {
			respondDocumentLookupError(c, err)
			return
		}
		if err := config.DB.Model(&doc).Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update document")
			return
		}
		c.JSON(http.StatusOK, doc)
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown document owner type")
	}
}

func DeleteDocument(c *gin.Context) {
	ownerType := c.Param("ownerType")

	docUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	var result *gorm.DB
	switch ownerType {
	case "company":
		result = config.DB.Where("id = ?", docUUID).Delete(&models.CompanyDocument{})
	case "individual":
		result = config.DB.Where("id = ?", docUUID).Delete(&models.IndividualDocument{})
	case "employee":
		result = config.DB.Where("id = ?", docUUID).Delete(&models.EmployeeDocument{})
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown document owner type")
		return
	}

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete document")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Document not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

func respondDocumentLookupError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Document not found")
	} else {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
