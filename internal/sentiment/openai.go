package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vennlabs/pulseboard/internal/models"
)

const (
	openAIScoringModel   = openai.GPT4oMini
	openAIRetryAttempts  = 3
	openAIRequestTimeout = 60 * time.Second // per-request HTTP timeout
	openAIScoringTimeout = 60 * time.Second // whole-batch budget, retries included
)

const openAIScoringPrompt = `You will receive dashboard text entries as JSON objects, one per message, each with an "index" and a "text".

Score every entry and respond with a single JSON object, no commentary, in this exact shape:

{
  "scores": [
    {
      "index": 0,
      "polarity": "positive",
      "polarityScore": 0.0,
      "confidence": 0.5,
      "kpiScores": {
        "trust": 0.0,
        "optimism": 0.0,
        "frustration": 0.0,
        "clarity": 0.0,
        "access": 0.0,
        "fairness": 0.0
      }
    }
  ]
}

Rules:

- Return exactly one entry per received index, with the same index value.
- "polarity" is one of "positive", "neutral", "negative" and must agree with "polarityScore": scores in [-0.2, 0.2] are neutral.
- "polarityScore" is in [-1.0, 1.0]; "confidence" is in [0.0, 1.0].
- Every kpiScores dimension is in [-1.0, 1.0]. The dimensions describe how the text speaks about a service or institution: trust placed in it, optimism about it, frustration with it, clarity of the experience, ease of access, perceived fairness.`

// OpenAIScorer asks a chat model for polarity plus all six KPI dimensions.
// The only engine that fills real KPI values; also the only one with a per-call
// price tag, so it stays strictly opt-in.
type OpenAIScorer struct {
	client *openai.Client
}

// NewOpenAIScorer fails fast when no API key is configured rather than
// erroring on the first request. The client carries its own HTTP timeout so a
// wedged connection cannot outlive the scoring budget.
func NewOpenAIScorer() (*OpenAIScorer, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("[OpenAIScorer] OPENAI_API_KEY is required for the openai engine")
	}

	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = &http.Client{
		Timeout: openAIRequestTimeout,
	}
	return &OpenAIScorer{client: openai.NewClientWithConfig(config)}, nil
}

func (s *OpenAIScorer) Name() string { return EngineOpenAI }

func (s *OpenAIScorer) ScoreBatch(ctx context.Context, texts []string) ([]models.Score, error) {
	ctx, cancel := context.WithTimeout(ctx, openAIScoringTimeout)
	defer cancel()

	messages := buildScoringMessages(texts)

	var resp openai.ChatCompletionResponse
	var completionErr error
	for i := 0; i < openAIRetryAttempts; i++ {
		start := time.Now()
		resp, completionErr = s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    openAIScoringModel,
			Messages: messages,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if completionErr == nil {
			break
		}
		slog.Warn("[OpenAIScorer] Completion request failed, retrying...",
			slog.Int("attempt", i+1),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", completionErr.Error()))
	}
	if completionErr != nil {
		return nil, fmt.Errorf("[OpenAIScorer] completion failed after %d attempts: %w",
			openAIRetryAttempts, completionErr)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("[OpenAIScorer] completion returned no choices")
	}

	cleaned := cleanModelResponse(resp.Choices[0].Message.Content)
	if cleaned == "" {
		return nil, errors.New("[OpenAIScorer] completion was not a JSON object")
	}

	var parsed openAIScoreResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		slog.Error("[OpenAIScorer] Failed to unmarshal completion",
			slog.String("error", err.Error()),
			slog.String("cleaned_response", preview(cleaned)))
		return nil, fmt.Errorf("[OpenAIScorer] unmarshal failed: %w", err)
	}

	byIndex := make(map[int]models.Score, len(parsed.Scores))
	for _, entry := range parsed.Scores {
		byIndex[entry.Index] = entry.Score
	}

	scores := make([]models.Score, len(texts))
	for i := range texts {
		entry, ok := byIndex[i]
		if !ok {
			slog.Warn("[OpenAIScorer] Model skipped an index, falling back to neutral",
				slog.Int("index", i))
			scores[i] = models.Score{
				Polarity:   models.PolarityNeutral,
				Confidence: 0.5,
				KPIScores:  models.NeutralKPIScores(),
			}
			continue
		}
		scores[i] = sanitizeScore(entry)
	}
	return scores, nil
}

type openAIScoredText struct {
	Index int `json:"index"`
	models.Score
}

type openAIScoreResponse struct {
	Scores []openAIScoredText `json:"scores"`
}

func buildScoringMessages(texts []string) []openai.ChatCompletionMessage {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: openAIScoringPrompt,
		},
	}

	for i, text := range texts {
		payload, err := json.Marshal(struct {
			Index int    `json:"index"`
			Text  string `json:"text"`
		}{Index: i, Text: ConvertMarkdownToText(text)})
		if err != nil {
			slog.Warn("[OpenAIScorer] Failed to marshal text entry",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: string(payload),
		})
	}
	return messages
}

// sanitizeScore forces model output back inside the documented ranges and
// repairs label/score disagreements.
func sanitizeScore(s models.Score) models.Score {
	s.PolarityScore = clamp(s.PolarityScore, -1, 1)
	s.Confidence = clamp(s.Confidence, 0, 1)
	s.KPIScores = clampKPI(s.KPIScores)

	switch strings.ToLower(s.Polarity) {
	case models.PolarityPositive, models.PolarityNegative, models.PolarityNeutral:
		s.Polarity = strings.ToLower(s.Polarity)
	default:
		if s.PolarityScore >= positiveThreshold {
			s.Polarity = models.PolarityPositive
		} else if s.PolarityScore <= negativeThreshold {
			s.Polarity = models.PolarityNegative
		} else {
			s.Polarity = models.PolarityNeutral
		}
	}
	return s
}

// cleanModelResponse trims whitespace and markdown code fences; models wrap
// JSON in fences often enough that unmarshalling raw content flakes.
func cleanModelResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	if !strings.HasPrefix(cleaned, "{") || !strings.HasSuffix(cleaned, "}") {
		return ""
	}
	return cleaned
}

func preview(raw string) string {
	if len(raw) > 100 {
		return raw[:100] + "..."
	}
	return raw
}
