package routes

import (
	"github.com/faunapedia/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupUploadRoutes(protected *gin.RouterGroup, uploadController *controllers.UploadController) {
	uploads := protected.Group("/uploads")
	{
		uploads.POST("/presign", uploadController.GetPresignedURL)
	}
}

func SetupAdminRoutes(admin *gin.RouterGroup, adminController *controllers.AdminController) {
	admin.POST("/seed", adminController.Seed)
	admin.POST("/backfill/likes", adminController.BackfillLikes)
}
