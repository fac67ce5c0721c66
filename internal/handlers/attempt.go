package handlers

import (
	"errors"
	"net/http"

	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/services"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	attempts *services.AttemptService
	grader   services.Grader
}

func NewAttemptHandler(attempts *services.AttemptService, g services.Grader) *AttemptHandler {
	return &AttemptHandler{attempts: attempts, grader: g}
}

type ChoiceRequest struct {
	QuestionID int    `json:"question_id" binding:"required"`
	Option     string `json:"option" binding:"required"`
}

type AnswerTextRequest struct {
	QuestionID int    `json:"question_id" binding:"required"`
	Text       string `json:"text"`
}

type GradeItemRequest struct {
	Section    string `json:"section" binding:"required"`
	QuestionID int    `json:"question_id" binding:"required"`
}

// GraderStatus godoc
// @Summary      Check if AI grading is available
// @Tags         grader
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/grader/status [get]
func (h *AttemptHandler) GraderStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"available": h.grader.Available()})
}

// CreateAttempt godoc
// @Summary      Start a new quiz attempt
// @Tags         attempts
// @Produce      json
// @Success      201 {object} services.AttemptSnapshot
// @Router       /api/v1/attempts [post]
func (h *AttemptHandler) CreateAttempt(c *gin.Context) {
	c.JSON(http.StatusCreated, h.attempts.CreateAttempt())
}

// GetAttempt godoc
// @Summary      Get the current state of an attempt
// @Tags         attempts
// @Produce      json
// @Param        id path string true "Attempt ID"
// @Success      200 {object} services.AttemptSnapshot
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id} [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	snap, err := h.attempts.Snapshot(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SelectChoice godoc
// @Summary      Select a multiple-choice option
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Param        id path string true "Attempt ID"
// @Param        request body ChoiceRequest true "Chosen option"
// @Success      200 {object} services.AttemptSnapshot
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/choice [put]
func (h *AttemptHandler) SelectChoice(c *gin.Context) {
	var req ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	snap, err := h.attempts.SelectChoice(c.Param("id"), req.QuestionID, req.Option)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SetShortAnswer godoc
// @Summary      Save a short-answer response
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Param        id path string true "Attempt ID"
// @Param        request body AnswerTextRequest true "Answer text"
// @Success      200 {object} services.AttemptSnapshot
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/short-answer [put]
func (h *AttemptHandler) SetShortAnswer(c *gin.Context) {
	var req AnswerTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	snap, err := h.attempts.SetShortAnswer(c.Param("id"), req.QuestionID, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SetEssay godoc
// @Summary      Save an essay response
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Param        id path string true "Attempt ID"
// @Param        request body AnswerTextRequest true "Essay text"
// @Success      200 {object} services.AttemptSnapshot
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/essay [put]
func (h *AttemptHandler) SetEssay(c *gin.Context) {
	var req AnswerTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	snap, err := h.attempts.SetEssay(c.Param("id"), req.QuestionID, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GradeItem godoc
// @Summary      Grade one open-ended answer on demand
// @Description  Fires a single AI grading call for the given short answer or essay before the attempt is submitted
// @Tags         attempts
// @Accept       json
// @Produce      json
// @Param        id path string true "Attempt ID"
// @Param        request body GradeItemRequest true "Section and question to grade"
// @Success      200 {object} services.AttemptSnapshot
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/grade [post]
func (h *AttemptHandler) GradeItem(c *gin.Context) {
	var req GradeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var snap services.AttemptSnapshot
	var err error
	switch req.Section {
	case "short_answer":
		snap, err = h.attempts.GradeShortAnswerItem(c.Param("id"), req.QuestionID)
	case "essay":
		snap, err = h.attempts.GradeEssayItem(c.Param("id"), req.QuestionID)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "section must be short_answer or essay"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Submit godoc
// @Summary      Submit the attempt for grading
// @Description  Fires one AI grading call per answered open-ended question and requests the holistic feedback narrative
// @Tags         attempts
// @Produce      json
// @Param        id path string true "Attempt ID"
// @Success      200 {object} services.AttemptSnapshot
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/submit [post]
func (h *AttemptHandler) Submit(c *gin.Context) {
	snap, err := h.attempts.Submit(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Reset godoc
// @Summary      Reset the attempt for a fresh sitting
// @Tags         attempts
// @Produce      json
// @Param        id path string true "Attempt ID"
// @Success      200 {object} services.AttemptSnapshot
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/reset [post]
func (h *AttemptHandler) Reset(c *gin.Context) {
	snap, err := h.attempts.Reset(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Results godoc
// @Summary      Get the attempt's score breakdown
// @Description  Per-section scores, the weighted composite and the holistic feedback narrative
// @Tags         attempts
// @Produce      json
// @Param        id path string true "Attempt ID"
// @Success      200 {object} services.AttemptResults
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/results [get]
func (h *AttemptHandler) Results(c *gin.Context) {
	results, err := h.attempts.Results(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *AttemptHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAttemptNotFound), errors.Is(err, services.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}
