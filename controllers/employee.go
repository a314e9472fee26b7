// controllers/employee.go
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

type CreateEmployeeInput struct {
	CompanyID      string `json:"companyId" binding:"required,uuid"`
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
	SecondaryEmail string `json:"secondaryEmail" binding:"omitempty,email"`
	Phone          string `json:"phone"`
	Position       string `json:"position"`
}

type UpdateEmployeeInput struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	SecondaryEmail *string `json:"secondaryEmail" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	Position       *string `json:"position"`
	IsActive       *bool   `json:"isActive"`
}

func CreateEmployee(c *gin.Context) {
	var input CreateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	companyUUID, err := uuid.Parse(input.CompanyID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
		return
	}

	// Company must exist
	var company models.Company
	if err := config.DB.First(&company, "id = ?", companyUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Company not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	employee := models.Employee{
		CompanyID:      companyUUID,
		Name:           input.Name,
		Email:          input.Email,
		SecondaryEmail: input.SecondaryEmail,
		Phone:          input.Phone,
		Position:       input.Position,
		IsActive:       true,
	}

	if err := config.DB.Create(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create employee")
		return
	}

	c.JSON(http.StatusCreated, employee)
}

func GetEmployees(c *gin.Context) {
	var employees []models.Employee
	query := config.DB.Order("name asc")

	if companyID := c.Query("companyId"); companyID != "" {
		companyUUID, err := uuid.Parse(companyID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid company ID format")
			return
		}
		query = query.Where("company_id = ?", companyUUID)
	}

	if err := query.Find(&employees).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}

	c.JSON(http.StatusOK, employees)
}

func GetEmployee(c *gin.Context) {
	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	var employee models.Employee
	if err := config.DB.Preload("Documents").First(&employee, "id = ?", employeeUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, employee)
}

func UpdateEmployee(c *gin.Context) {
	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	var input UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var employee models.Employee
	if err := config.DB.First(&employee, "id = ?", employeeUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		employee.Name = *input.Name
	}
	if input.Email != nil {
		employee.Email = *input.Email
	}
	if input.SecondaryEmail != nil {
		employee.SecondaryEmail = *input.SecondaryEmail
	}
	if input.Phone != nil {
		employee.Phone = *input.Phone
	}
	if input.Position != nil {
		employee.Position = *input.Position
	}
	if input.IsActive != nil {
		employee.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&employee).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, employee)
}

func DeleteEmployee(c *gin.Context) {
	employeeUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	result := config.DB.Where("id = ?", employeeUUID).Delete(&models.Employee{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete employee")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
