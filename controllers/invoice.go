// controllers/invoice.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"bizops-backend/config"
	"bizops-backend/models"
	"bizops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceItemInput struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"min=1"`
	UnitPrice   float64 `json:"unitPrice" binding:"required,min=0"`
}

type CreateInvoiceInput struct {
	CompanyID     string             `json:"companyId" binding:"required,uuid"`
	InvoiceDate   *time.Time         `json:"invoiceDate"`
	Discount      float64            `json:"discount" binding:"min=0"`
	Tax           float64            `json:"tax" binding:"min=0"`
	PaymentMethod string             `json:"paymentMethod"`
	Notes         string             `json:"notes"`
	Items         []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
}

type UpdateInvoiceInput struct {
	PaymentStatus *string  `json:"paymentStatus" binding:"omitempty,oneof=unpaid partial paid"`
	PaidAmount    *float64 `json:"paidAmount" binding:"omitempty,min=0"`
	PaymentMethod *string  `json:"paymentMethod"`
	Notes         *string  `json:"notes"`
}

func nextInvoiceNumber(tx *gorm.DB) (string, error) {
	var count int64
	if err := tx.Model(&models.Invoice{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%05d", time.Now().Year(), count+1), nil
}

func CreateInvoice(c *gin.Context) {
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

	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	companyUUID, err := uuid.Parse(input.CompanyID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
		return
	}

	var invoice models.Invoice
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		number, err := nextInvoiceNumber(tx)
		if err != nil {
			return err
		}

		subtotal := 0.0
		items := make([]models.InvoiceItem, 0, len(input.Items))
		for _, item := range input.Items {
			qty := item.Quantity
			if qty == 0 {
				qty = 1
			}
			total := float64(qty) * item.UnitPrice
			subtotal += total
			items = append(items, models.InvoiceItem{
				Description: item.Description,
				Quantity:    qty,
				UnitPrice:   item.UnitPrice,
				TotalPrice:  total,
			})
		}

		invoiceDate := time.Now()
		if input.InvoiceDate != nil {
			invoiceDate = *input.InvoiceDate
		}

		invoice = models.Invoice{
			CompanyID:       companyUUID,
			CreatedByUserID: userUUID,
			InvoiceNumber:   number,
			InvoiceDate:     invoiceDate,
			Subtotal:        subtotal,
			Discount:        input.Discount,
			Tax:             input.Tax,
			Total:           subtotal - input.Discount + input.Tax,
			PaymentStatus:   "unpaid",
			PaymentMethod:   input.PaymentMethod,
			Notes:           input.Notes,
			Items:           items,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

func GetInvoices(c *gin.Context) {
	var invoices []models.Invoice
	query := config.DB.Preload("Items").Order("invoice_date desc")

	if companyID := c.Query("companyId"); companyID != "" {
		companyUUID, err := uuid.Parse(companyID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
			return
		}
		query = query.Where("company_id = ?", companyUUID)
	}
	if status := c.Query("paymentStatus"); status != "" {
		query = query.Where("payment_status = ?", status)
	}

	if err := query.Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

func GetInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items").First(&invoice, "id = ?", invoiceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func UpdateInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var invoice models.Invoice
	if err := config.DB.First(&invoice, "id = ?", invoiceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.PaidAmount != nil {
		if *input.PaidAmount > invoice.Total {
			utils.RespondWithError(c, http.StatusBadRequest, "Paid amount exceeds invoice total")
			return
		}
		invoice.PaidAmount = *input.PaidAmount
		switch {
		case invoice.PaidAmount <= 0:
			invoice.PaymentStatus = "unpaid"
		case invoice.PaidAmount < invoice.Total:
			invoice.PaymentStatus = "partial"
		default:
			invoice.PaymentStatus = "paid"
		}
	}
	if input.PaymentStatus != nil {
		invoice.PaymentStatus = *input.PaymentStatus
	}
	if input.PaymentMethod != nil {
		invoice.PaymentMethod = *input.PaymentMethod
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	if err := config.DB.Save(&invoice).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func DeleteInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceUUID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", invoiceUUID).Delete(&models.Invoice{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}
