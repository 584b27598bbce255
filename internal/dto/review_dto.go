package dto

// Data Transfer Objects for review requests and responses

// FilledQuestionDTO: one schema entry with the reviewer's answer.
// Answer is used for short-answer and single-choice questions, Answers
// for multiple-choice.
type FilledQuestionDTO struct {
	Question string   `json:"question" binding:"required"`
	Type     string   `json:"type" binding:"required,oneof=short-answer single-choice multiple-choice"`
	Choices  []string `json:"choices,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Answers  []string `json:"answers,omitempty"`
}

// SubmitReviewRequest: payload for submitting a review
type SubmitReviewRequest struct {
	Answers []FilledQuestionDTO `json:"answers" binding:"required,min=1"`
}

// RateReviewRequest: payload for the product founder rating a review
type RateReviewRequest struct {
	Quality int `json:"quality" binding:"required,min=1,max=5"`
}
