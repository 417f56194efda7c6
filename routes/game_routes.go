package routes

import (
	"github.com/faunapedia/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupGameRoutes(public *gin.RouterGroup, leaderboardController *controllers.LeaderboardController) {
	public.GET("/leaderboard", leaderboardController.GetLeaderboard)
}

func SetupQuizRoutes(protected *gin.RouterGroup, quizController *controllers.QuizController) {
	quiz := protected.Group("/quiz")
	{
		quiz.GET("", quizController.GetQuiz)
		quiz.POST("/:id/answer", quizController.SubmitAnswer)
	}
}

func SetupMapRoutes(public *gin.RouterGroup, mapController *controllers.MapController) {
	public.GET("/map/points", mapController.GetMapPoints)
}
