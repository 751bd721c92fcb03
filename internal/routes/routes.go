package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/TaskConverterAI/task-service/internal/config"
	"github.com/TaskConverterAI/task-service/internal/handlers"
	"github.com/TaskConverterAI/task-service/internal/middleware"
	"github.com/TaskConverterAI/task-service/internal/services"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RateLimitMiddleware(cfg.Server.RateLimit))

	locationService := services.NewLocationService()
	reminderService := services.NewReminderService()
	taskService := services.NewTaskService(db, locationService, reminderService)
	commentService := services.NewCommentService(db)

	taskHandler := handlers.NewTaskHandler(taskService, commentService)
	noteHandler := handlers.NewNoteHandler(taskService, commentService)

	api := router.Group(cfg.Server.BasePath)

	tasks := api.Group("/tasks")
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("/personal/:userId", taskHandler.GetPersonalTasks)
		tasks.GET("/user/:userId", taskHandler.GetTasksByAuthor)
		tasks.GET("/group/:groupId", taskHandler.GetTasksByGroup)
		tasks.GET("/doer/:doerId", taskHandler.GetTasksByDoer)
		tasks.GET("/details/:id", taskHandler.GetTaskDetails)

		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)

		tasks.POST("/:id/subtask", taskHandler.CreateSubtask)
		tasks.PUT("/subtask/:id/status", taskHandler.UpdateSubtaskStatus)

		tasks.PUT("/:id/comment", taskHandler.AddComment)
		tasks.DELETE("/comment/:id", taskHandler.DeleteComment)

		note := tasks.Group("/note")
		{
			note.POST("", noteHandler.CreateNote)
			note.GET("/personal/:userId", noteHandler.GetPersonalNotes)
			note.GET("/user/:userId", noteHandler.GetNotesByAuthor)
			note.GET("/group/:groupId", noteHandler.GetNotesByGroup)
			note.GET("/details/:id", noteHandler.GetNoteDetails)

			note.GET("/:id", noteHandler.GetNote)
			note.PUT("/:id", noteHandler.UpdateNote)
			note.DELETE("/:id", noteHandler.DeleteNote)

			note.PUT("/:id/comment", noteHandler.AddComment)
			note.DELETE("/comment/:id", noteHandler.DeleteComment)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "服务运行正常",
		})
	})

	return router
}
