package questiongen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/immedha/firstlight/internal/config"
	"github.com/immedha/firstlight/internal/models"

	"google.golang.org/genai"
)

const maxQuestions = 5

// Generator drafts survey questions for a product with Gemini. The
// output is freeform model text; anything that fails to decode into a
// usable question list falls back to the static defaults, and generated
// questions still pass through the normal publish validation later.
type Generator struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGenerator builds a Generator. With no API key configured the
// generator serves fallback questions only.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Generator, error) {
	g := &Generator{
		model:  cfg.GeminiModel,
		logger: logger,
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not configured, question generator will serve fallback questions")
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	g.client = client
	return g, nil
}

// Generate returns 3-5 question specs for the product. It never fails:
// any model or decode error degrades to the fallback list.
func (g *Generator) Generate(ctx context.Context, productName, description, feedbackObjective string) []models.QuestionSpec {
	if g.client == nil {
		return FallbackQuestions(productName, description, feedbackObjective)
	}

	prompt := buildPrompt(productName, description, feedbackObjective)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		g.logger.Warn("question generation failed, using fallback", "error", err)
		return FallbackQuestions(productName, description, feedbackObjective)
	}

	questions, err := decodeQuestions(resp.Text())
	if err != nil {
		g.logger.Warn("question decode failed, using fallback", "error", err)
		return FallbackQuestions(productName, description, feedbackObjective)
	}
	return questions
}

func buildPrompt(productName, description, feedbackObjective string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate up to %d survey questions for a product called %q with description: %q.\n", maxQuestions, productName, description)
	if feedbackObjective != "" {
		fmt.Fprintf(&b, "The primary goal is to gather feedback on: %q. Every question must be relevant to that objective.\n", feedbackObjective)
	}
	b.WriteString(`Mix short-answer questions (to understand "why") with choice questions (for quick quantitative insights).
For single-choice questions use 5-point Likert scales, e.g. "Strongly Disagree", "Disagree", "Neutral", "Agree", "Strongly Agree".
For multiple-choice questions provide specific contextual options instead of a Likert scale.
Respond with a JSON array only, in this exact format:
[{"question": "string", "type": "short-answer" | "single-choice" | "multiple-choice", "choices": ["option1", "option2"]}]
The "choices" field is only present for choice types.`)
	return b.String()
}

// decodeQuestions parses the model reply strictly: unknown types, empty
// question text or choice questions with fewer than two choices make the
// whole reply unusable.
func decodeQuestions(text string) ([]models.QuestionSpec, error) {
	text = strings.TrimSpace(text)
	// models occasionally wrap JSON in a markdown fence despite the MIME hint
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var questions []models.QuestionSpec
	if err := json.Unmarshal([]byte(text), &questions); err != nil {
		return nil, fmt.Errorf("response is not a question array: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("response contained no questions")
	}

	for _, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("response contained a question without text")
		}
		switch q.Type {
		case models.QuestionShortAnswer:
		case models.QuestionSingleChoice, models.QuestionMultipleChoice:
			if len(q.Choices) < 2 {
				return nil, fmt.Errorf("choice question %q has fewer than two choices", q.Question)
			}
		default:
			return nil, fmt.Errorf("unknown question type %q", q.Type)
		}
	}

	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}
	return questions, nil
}

// FallbackQuestions is the static list served when the model is
// unavailable or returns garbage.
func FallbackQuestions(productName, description, feedbackObjective string) []models.QuestionSpec {
	questions := []models.QuestionSpec{
		{
			Question: fmt.Sprintf("How would you rate your overall experience with %s?", productName),
			Type:     models.QuestionSingleChoice,
			Choices:  []string{"Very Poor", "Poor", "Average", "Good", "Excellent"},
		},
		{
			Question: "How easy was it to use this product?",
			Type:     models.QuestionSingleChoice,
			Choices:  []string{"Very Difficult", "Difficult", "Neutral", "Easy", "Very Easy"},
		},
		{
			Question: "What specific features did you find most valuable?",
			Type:     models.QuestionShortAnswer,
		},
		{
			Question: "How likely are you to continue using this product?",
			Type:     models.QuestionSingleChoice,
			Choices:  []string{"Not Likely", "Unlikely", "Neutral", "Likely", "Very Likely"},
		},
		{
			Question: "What challenges did you encounter while using the product?",
			Type:     models.QuestionShortAnswer,
		},
	}

	// nudge the list toward design feedback when the founder asks for it
	haystack := strings.ToLower(description + " " + feedbackObjective)
	for _, keyword := range []string{"design", "ui", "interface"} {
		if strings.Contains(haystack, keyword) {
			questions = questions[:maxQuestions-1]
			questions = append(questions, models.QuestionSpec{
				Question: "How would you rate the visual design and user interface?",
				Type:     models.QuestionSingleChoice,
				Choices:  []string{"Poor", "Below Average", "Average", "Above Average", "Excellent"},
			})
			break
		}
	}

	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}
	return questions
}
