// controllers/reminder.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"bizops-backend/config"
	"bizops-backend/models"
	"bizops-backend/services"
	"bizops-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderController exposes the reminder settings, the dedup log, the manual
// trigger and the scheduler lifecycle. The scheduler and runner are built in
// main and injected here.
type ReminderController struct {
	Scheduler *services.ReminderScheduler
	Runner    *services.ReminderService
}

type UpdateReminderSettingsInput struct {
	Enabled    *bool   `json:"enabled"`
	OffsetDays *[]int  `json:"offsetDays"`
	Subject    *string `json:"subject"`
	Body       *string `json:"body"`
}

type StartSchedulerInput struct {
	Mode            string `json:"mode" binding:"omitempty,oneof=interval daily hourly"`
	IntervalMinutes int    `json:"intervalMinutes" binding:"omitempty,min=1"`
}

// GetReminderSettings returns the service_expiry settings row, creating the
// disabled default on first read.
func (rc *ReminderController) GetReminderSettings(c *gin.Context) {
	var settings models.ReminderSettings
	err := config.DB.Where("reminder_type = ?", models.ReminderTypeServiceExpiry).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.ReminderSettings{
			ID:           uuid.New(),
			ReminderType: models.ReminderTypeServiceExpiry,
			Enabled:      false,
			OffsetDays:   models.OffsetDays{30, 15, 7, 3, 1},
			Subject:      "Expiry reminder",
			Body:         "Dear [RecipientName], one of your records expires soon.",
		}
		if err := config.DB.Create(&settings).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create default settings")
			return
		}
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (rc *ReminderController) UpdateReminderSettings(c *gin.Context) {
	var input UpdateReminderSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var settings models.ReminderSettings
	err := config.DB.Where("reminder_type = ?", models.ReminderTypeServiceExpiry).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.ReminderSettings{
			ID:           uuid.New(),
			ReminderType: models.ReminderTypeServiceExpiry,
			OffsetDays:   models.OffsetDays{30, 15, 7, 3, 1},
		}
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if input.Enabled != nil {
		settings.Enabled = *input.Enabled
	}
	if input.OffsetDays != nil {
		offsets := models.OffsetDays(*input.OffsetDays)
		for _, d := range offsets {
			if d <= 0 {
				utils.RespondWithError(c, http.StatusBadRequest, "Offsets must be positive integers")
				return
			}
		}
		settings.OffsetDays = offsets
	}
	if input.Subject != nil {
		settings.Subject = *input.Subject
	}
	if input.Body != nil {
		settings.Body = *input.Body
	}

	// BeforeSave normalizes offsets and rejects enabled-with-no-offsets
	if err := config.DB.Save(&settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to save settings: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, settings)
}

// GetReminderLogs lists log entries, newest first, paged.
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	query := config.DB.Model(&models.ReminderLog{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to count reminder logs")
		return
	}

	var logs []models.ReminderLog
	if err := query.Order("sent_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminder logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":     logs,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// RunReminderCheck is the operator's "run now" trigger. It bypasses the timer
// but not the single-flight guard or the dedup log.
func (rc *ReminderController) RunReminderCheck(c *gin.Context) {
	result := rc.Runner.CheckAndSendReminders(c.Request.Context())
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result)
}

func (rc *ReminderController) GetSchedulerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"config": rc.Scheduler.Config(),
		"status": rc.Scheduler.Status(),
		"active": rc.Scheduler.IsActive(),
	})
}

func (rc *ReminderController) StartScheduler(c *gin.Context) {
	var input StartSchedulerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var err error
	switch input.Mode {
	case "", services.ModeInterval:
		interval := input.IntervalMinutes
		if interval == 0 {
			interval = 60
		}
		err = rc.Scheduler.Start(interval)
	default:
		err = rc.Scheduler.StartMode(input.Mode)
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Scheduler started",
		"config":  rc.Scheduler.Config(),
		"status":  rc.Scheduler.Status(),
	})
}

func (rc *ReminderController) StopScheduler(c *gin.Context) {
	rc.Scheduler.Stop()
	c.JSON(http.StatusOK, gin.H{
		"message": "Scheduler stopped",
		"status":  rc.Scheduler.Status(),
	})
}
