package controllers

import (
	"net/http"

	"github.com/faunapedia/api-go/services"
	"github.com/faunapedia/api-go/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuizController struct {
	Game   *services.GameService
	Logger *zap.Logger
}

type AnswerRequest struct {
	AnswerIndex *int `json:"answerIndex" binding:"required"`
}

func NewQuizController(game *services.GameService, logger *zap.Logger) *QuizController {
	return &QuizController{Game: game, Logger: logger}
}

// GetQuiz godoc
// @Summary Draw a quiz session
// @Description Five random questions, without their answers
// @Tags quiz
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /quiz [get]
func (qc *QuizController) GetQuiz(c *gin.Context) {
	questions, err := qc.Game.QuizSession(c.Request.Context())
	if err != nil {
		handleServiceError(c, qc.Logger, err, "load quiz")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: questions})
}

// SubmitAnswer godoc
// @Summary Answer a quiz question
// @Description Reveals the correct index and credits points on success
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param answer body AnswerRequest true "Answer"
// @Success 200 {object} map[string]interface{}
// @Router /quiz/{id}/answer [post]
func (qc *QuizController) SubmitAnswer(c *gin.Context) {
	user := utils.GetUser(c)
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := qc.Game.SubmitAnswer(c.Request.Context(), user.ID, c.Param("id"), *req.AnswerIndex)
	if err != nil {
		handleServiceError(c, qc.Logger, err, "submit answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"correct":       result.Correct,
		"correctIndex":  result.CorrectIndex,
		"pointsAwarded": result.PointsAwarded,
	})
}
