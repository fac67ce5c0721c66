package handlers

import (
	"net/http"

	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/content"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	course *content.Course
}

func NewContentHandler(course *content.Course) *ContentHandler {
	return &ContentHandler{course: course}
}

// GetReview godoc
// @Summary      Get the review material outline
// @Tags         content
// @Produce      json
// @Success      200 {object} models.ReviewMaterial
// @Router       /api/v1/content/review [get]
func (h *ContentHandler) GetReview(c *gin.Context) {
	c.JSON(http.StatusOK, h.course.Review)
}

// GetQuiz godoc
// @Summary      Get all quiz questions
// @Description  Returns the three quiz sections: multiple-choice, short-answer and essay
// @Tags         content
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/content/quiz [get]
func (h *ContentHandler) GetQuiz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"multiple_choice_questions": h.course.MultipleChoiceQuestions,
		"short_answer_questions":    h.course.ShortAnswerQuestions,
		"essay_questions":           h.course.EssayQuestions,
	})
}
