package dto

// Data Transfer Objects for survey question generation

// GenerateQuestionsRequest: payload for drafting survey questions
type GenerateQuestionsRequest struct {
	ProductName       string `json:"product_name" binding:"required"`
	Description       string `json:"description" binding:"required"`
	FeedbackObjective string `json:"feedback_objective"`
}

// GenerateQuestionsResponse: drafted questions, capped at 5
type GenerateQuestionsResponse struct {
	Questions []QuestionSpecDTO `json:"questions"`
}
