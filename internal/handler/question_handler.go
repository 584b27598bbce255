package handler

import (
	"net/http"

	"github.com/immedha/firstlight/internal/dto"
	"github.com/immedha/firstlight/internal/questiongen"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	generator *questiongen.Generator
}

func NewQuestionHandler(generator *questiongen.Generator) *QuestionHandler {
	return &QuestionHandler{generator: generator}
}

// RegisterRoutes registers question generation routes on the
// authenticated group
func (h *QuestionHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.POST("/questions/generate", h.Generate)
}

// Generate drafts survey questions for a product. The result is a
// pre-filled form suggestion; whatever the founder keeps still goes
// through publish validation like hand-written questions.
// POST /api/questions/generate
func (h *QuestionHandler) Generate(c *gin.Context) {
	var req dto.GenerateQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := h.generator.Generate(c.Request.Context(), req.ProductName, req.Description, req.FeedbackObjective)

	resp := dto.GenerateQuestionsResponse{Questions: make([]dto.QuestionSpecDTO, 0, len(questions))}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.QuestionSpecDTO{
			Question: q.Question,
			Type:     q.Type,
			Choices:  q.Choices,
		})
	}

	c.JSON(http.StatusOK, resp)
}
