package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"bizops-backend/config"
	"bizops-backend/controllers"
	"bizops-backend/models"
	"bizops-backend/routes"
	"bizops-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}
	config.InitLogger()
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Individual{},
		&models.Employee{},
		&models.CompanyService{},
		&models.CompanyDocument{},
		&models.IndividualDocument{},
		&models.EmployeeDocument{},
		&models.Due{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Card{},
		&models.ReminderSettings{},
		&models.ReminderLog{},
	)
}

func main() {
	defer config.Log.Sync()

	notifier, err := buildNotifier()
	if err != nil {
		config.Log.Fatal("failed to build notifier", zap.Error(err))
	}

	runner := services.NewReminderService(
		services.NewGormSettingsStore(config.DB),
		services.NewExpirySources(config.DB),
		services.NewGormReminderLogStore(config.DB),
		notifier,
		services.SystemClock(),
		config.Log,
	)
	scheduler := services.NewReminderScheduler(runner, services.SystemClock(), config.Log)

	if os.Getenv("SCHEDULER_AUTOSTART") == "true" {
		switch mode := os.Getenv("SCHEDULER_MODE"); mode {
		case services.ModeDaily, services.ModeHourly:
			if err := scheduler.StartMode(mode); err != nil {
				config.Log.Fatal("failed to start scheduler", zap.Error(err))
			}
		default:
			interval := 60
			if env := os.Getenv("SCHEDULER_INTERVAL_MINUTES"); env != "" {
				if m, err := strconv.Atoi(env); err == nil {
					interval = m
				}
			}
			if err := scheduler.Start(interval); err != nil {
				config.Log.Fatal("failed to start scheduler", zap.Error(err))
			}
		}
	}

	reminders := &controllers.ReminderController{
		Scheduler: scheduler,
		Runner:    runner,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter(reminders)
	printRoutes(r)
	r.Run(":" + port)
}

func buildNotifier() (services.Notifier, error) {
	if os.Getenv("NOTIFY_CHANNEL") == "sms" {
		return services.NewTwilioNotifier(), nil
	}
	return services.NewSESNotifier(context.Background())
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
