// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"bizops-backend/config"
	"bizops-backend/models"
	"bizops-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalCompanies    int64   `json:"totalCompanies"`
	TotalIndividuals  int64   `json:"totalIndividuals"`
	TotalEmployees    int64   `json:"totalEmployees"`
	ActiveServices    int64   `json:"activeServices"`
	OutstandingDues   float64 `json:"outstandingDues"`
	ExpiringIn30Days  int64   `json:"expiringIn30Days"`
	RemindersSent7d   int64   `json:"remindersSent7d"`
	RemindersFailed7d int64   `json:"remindersFailed7d"`
}

func GetDashboardOverview(c *gin.Context) {
	var overview DashboardOverview

	config.DB.Model(&models.Company{}).Where("is_active = true").Count(&overview.TotalCompanies)
	config.DB.Model(&models.Individual{}).Where("is_active = true").Count(&overview.TotalIndividuals)
	config.DB.Model(&models.Employee{}).Where("is_active = true").Count(&overview.TotalEmployees)
	config.DB.Model(&models.CompanyService{}).Where("status = 'active'").Count(&overview.ActiveServices)

	if err := config.DB.Model(&models.Due{}).
		Where("status IN ?", []string{"pending", "partial"}).
		Select("COALESCE(SUM(amount - paid_amount), 0)").
		Scan(&overview.OutstandingDues).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute outstanding dues")
		return
	}

	now := utils.BeginningOfDay(time.Now())
	horizon := now.AddDate(0, 0, 30)

	var expiring int64
	config.DB.Model(&models.CompanyService{}).
		Where("status = 'active' AND expiry_date >= ? AND expiry_date < ?", now, horizon).
		Count(&expiring)
	overview.ExpiringIn30Days += expiring
	config.DB.Model(&models.CompanyDocument{}).
		Where("status = 'active' AND expiry_date >= ? AND expiry_date < ?", now, horizon).
		Count(&expiring)
	overview.ExpiringIn30Days += expiring
	config.DB.Model(&models.IndividualDocument{}).
		Where("status = 'active' AND expiry_date >= ? AND expiry_date < ?", now, horizon).
		Count(&expiring)
	overview.ExpiringIn30Days += expiring
	config.DB.Model(&models.EmployeeDocument{}).
		Where("status = 'active' AND expiry_date >= ? AND expiry_date < ?", now, horizon).
		Count(&expiring)
	overview.ExpiringIn30Days += expiring
	config.DB.Model(&models.Due{}).
		Where("status IN ? AND due_date >= ? AND due_date < ?", []string{"pending", "partial"}, now, horizon).
		Count(&expiring)
	overview.ExpiringIn30Days += expiring

	weekAgo := now.AddDate(0, 0, -7)
	config.DB.Model(&models.ReminderLog{}).
		Where("status = 'sent' AND sent_at >= ?", weekAgo).
		Count(&overview.RemindersSent7d)
	config.DB.Model(&models.ReminderLog{}).
		Where("status = 'failed' AND sent_at >= ?", weekAgo).
		Count(&overview.RemindersFailed7d)

	c.JSON(http.StatusOK, overview)
}
