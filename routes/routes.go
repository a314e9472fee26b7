package routes

import (
	"os"
	"strings"

	"bizops-backend/config"
	"bizops-backend/controllers"
	"bizops-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(reminders *controllers.ReminderController) *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		companies := api.Group("/companies")
		{
			companies.POST("", controllers.CreateCompany)
			companies.GET("", controllers.GetCompanies)
			companies.GET("/:id", controllers.GetCompany)
			companies.PUT("/:id", controllers.UpdateCompany)
			companies.DELETE("/:id", controllers.DeleteCompany)
		}

		individuals := api.Group("/individuals")
		{
			individuals.POST("", controllers.CreateIndividual)
			individuals.GET("", controllers.GetIndividuals)
			individuals.GET("/:id", controllers.GetIndividual)
			individuals.PUT("/:id", controllers.UpdateIndividual)
			individuals.DELETE("/:id", controllers.DeleteIndividual)
		}

		employees := api.Group("/employees")
		{
			employees.POST("", controllers.CreateEmployee)
			employees.GET("", controllers.GetEmployees)
			employees.GET("/:id", controllers.GetEmployee)
			employees.PUT("/:id", controllers.UpdateEmployee)
			employees.DELETE("/:id", controllers.DeleteEmployee)
		}

		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		documents := api.Group("/documents/:ownerType")
		{
			documents.POST("", controllers.CreateDocument)
			documents.GET("", controllers.GetDocuments)
			documents.PUT("/:id", controllers.UpdateDocument)
			documents.DELETE("/:id", controllers.DeleteDocument)
		}

		dues := api.Group("/dues")
		{
			dues.POST("", controllers.CreateDue)
			dues.GET("", controllers.GetDues)
			dues.GET("/:id", controllers.GetDue)
			dues.PUT("/:id", controllers.UpdateDue)
			dues.POST("/:id/payments", controllers.RecordDuePayment)
			dues.DELETE("/:id", controllers.DeleteDue)
		}

		invoices := api.Group("/invoices")
		{
			invoices.POST("", controllers.CreateInvoice)
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.PUT("/:id", controllers.UpdateInvoice)
			invoices.DELETE("/:id", controllers.DeleteInvoice)
		}

		cards := api.Group("/cards")
		{
			cards.POST("", controllers.CreateCard)
			cards.GET("", controllers.GetCards)
			cards.PUT("/:id", controllers.UpdateCard)
			cards.DELETE("/:id", controllers.DeleteCard)
		}

		reminderRoutes := api.Group("/reminders")
		{
			reminderRoutes.GET("/settings", reminders.GetReminderSettings)
			reminderRoutes.PUT("/settings", reminders.UpdateReminderSettings)
			reminderRoutes.GET("/logs", reminders.GetReminderLogs)
			reminderRoutes.POST("/run", reminders.RunReminderCheck)
			reminderRoutes.GET("/scheduler", reminders.GetSchedulerStatus)
			reminderRoutes.POST("/scheduler", reminders.StartScheduler)
			reminderRoutes.DELETE("/scheduler", reminders.StopScheduler)
		}

		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
