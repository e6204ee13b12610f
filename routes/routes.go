package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/minhanh/edushare-backend/controllers"
	"github.com/minhanh/edushare-backend/middleware"
	"github.com/minhanh/edushare-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/logingoogle", controllers.GoogleLogin)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	user := api.Group("/user")
	{
		user.Use(middleware.AuthMiddleware())
		user.POST("/change-password", controllers.ChangePassword)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles("admin"))
		admin.POST("/teachers", controllers.AdminCreateTeacher)
	}

	teacher := api.Group("/teacher")
	{
		teacher.Use(middleware.AuthMiddleware(), middleware.RequireRoles("admin", "teacher"))

		// Quản lý môn học
		teacher.POST("/subjects", controllers.CreateSubject)
		teacher.GET("/subjects", controllers.GetSubjects)
		teacher.GET("/subjects/:id", controllers.GetSubjectDetail)
		teacher.PUT("/subjects/:id", controllers.UpdateSubject)
		teacher.DELETE("/subjects/:id", controllers.DeleteSubject)

		// Quản lý chương
		teacher.POST("/subjects/:id/chapters", controllers.CreateChapter)
		teacher.GET("/subjects/:id/chapters", controllers.GetChapters)
		teacher.PUT("/chapters/:id", controllers.UpdateChapter)
		teacher.DELETE("/chapters/:id", controllers.DeleteChapter)

		// Quản lý học liệu
		teacher.POST("/materials/link", controllers.IngestLink)
		teacher.POST("/materials/batch", controllers.BatchIngest)
		teacher.POST("/materials/upload", controllers.UploadMaterial)
		teacher.GET("/materials", controllers.GetMaterials)
		teacher.GET("/materials/:id", controllers.GetMaterialDetail)
		teacher.PUT("/materials/:id", controllers.UpdateMaterial)
		teacher.DELETE("/materials/:id", controllers.DeleteMaterial)
	}

	student := api.Group("/student")
	{
		student.Use(middleware.AuthMiddleware())
		student.GET("/subjects", controllers.StudentGetSubjects)
		student.GET("/subjects/:id/chapters", controllers.StudentGetChapters)
		student.GET("/materials", controllers.StudentGetMaterials)
		student.GET("/materials/:id", controllers.StudentGetMaterialDetail)
	}

	r.GET("/ws/materials", ws.HandleMaterialsWebSocket)
	r.GET("/ws/materials/:id", ws.HandleMaterialWebSocket)

	return r
}
