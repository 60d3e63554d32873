package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/vennlabs/pulseboard/internal/models"
)

const (
	defaultTransformerModel = "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"
	transformerModelDir     = "./models"
)

// TransformerScorer runs a local ONNX text-classification model through
// hugot. The default checkpoint is binary positive/negative; polarity comes
// from the top label and the signed confidence doubles as the polarity score.
// KPI dimensions stay at the stand-in values.
type TransformerScorer struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

// NewTransformerScorer downloads the configured model on first use
// (TRANSFORMER_MODEL, or a pre-fetched directory via TRANSFORMER_MODEL_PATH)
// and warms an ORT session. Startup cost is paid once; scoring is local
// afterwards.
func NewTransformerScorer() (*TransformerScorer, error) {
	modelPath := os.Getenv("TRANSFORMER_MODEL_PATH")
	if modelPath == "" {
		model := os.Getenv("TRANSFORMER_MODEL")
		if model == "" {
			model = defaultTransformerModel
		}

		if err := os.MkdirAll(transformerModelDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("[TransformerScorer] failed to create model directory: %w", err)
		}

		slog.Info("[TransformerScorer] Downloading model...", slog.String("model", model))
		downloaded, err := hugot.DownloadModel(model, transformerModelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("[TransformerScorer] failed to download model: %w", err)
		}
		modelPath = downloaded
		slog.Info("[TransformerScorer] Model downloaded successfully", slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("[TransformerScorer] failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentimentClassificationPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		destroyErr := session.Destroy()
		if destroyErr != nil {
			slog.Warn("[TransformerScorer] Failed to destroy session after pipeline error",
				slog.String("error", destroyErr.Error()))
		}
		return nil, fmt.Errorf("[TransformerScorer] failed to initialize pipeline: %w", err)
	}

	return &TransformerScorer{session: session, pipeline: pipeline}, nil
}

func (s *TransformerScorer) Name() string { return EngineTransformer }

func (s *TransformerScorer) ScoreBatch(_ context.Context, texts []string) ([]models.Score, error) {
	inputs := make([]string, len(texts))
	for i, text := range texts {
		inputs[i] = ConvertMarkdownToText(text)
	}

	output, err := s.pipeline.RunPipeline(inputs)
	if err != nil {
		return nil, fmt.Errorf("[TransformerScorer] pipeline run failed: %w", err)
	}
	if len(output.ClassificationOutputs) != len(texts) {
		return nil, fmt.Errorf("[TransformerScorer] pipeline returned %d outputs for %d texts",
			len(output.ClassificationOutputs), len(texts))
	}

	scores := make([]models.Score, len(texts))
	for i, candidates := range output.ClassificationOutputs {
		scores[i] = scoreFromCandidates(candidates)
	}
	return scores, nil
}

// Close releases the ORT session. Call it on shutdown; pipelines are owned by
// the session.
func (s *TransformerScorer) Close() error {
	return s.session.Destroy()
}

func scoreFromCandidates(candidates []pipelines.ClassificationOutput) models.Score {
	score := models.Score{
		Polarity:   models.PolarityNeutral,
		Confidence: 0.5,
		KPIScores:  models.NeutralKPIScores(),
	}
	if len(candidates) == 0 {
		return score
	}

	top := candidates[0]
	confidence := clamp(float64(top.Score), 0, 1)
	score.Confidence = confidence

	switch strings.ToUpper(top.Label) {
	case "POSITIVE", "LABEL_1":
		score.Polarity = models.PolarityPositive
		score.PolarityScore = confidence
	case "NEGATIVE", "LABEL_0":
		score.Polarity = models.PolarityNegative
		score.PolarityScore = -confidence
	default:
		// Three-class checkpoints report an explicit neutral label.
		score.Polarity = models.PolarityNeutral
		score.PolarityScore = 0
	}
	return score
}
