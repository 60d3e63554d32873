package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/vennlabs/pulseboard/internal/models"
)

var (
	scoringClientInstance *ScoringClient
	scoringClientOnce     sync.Once
)

// ScoringClient talks to a standalone scoring service over HTTP. The service
// base URL comes from SCORING_SERVICE_URL; it exposes /score_batch and
// /health.
type ScoringClient struct {
	Client  *http.Client
	baseURL string
}

func GetScoringClient() *ScoringClient {
	var timeout time.Duration
	env := os.Getenv("APP_ENV")
	if env == "production" {
		timeout = 10 * time.Second
	} else {
		timeout = 60 * time.Second
	}
	scoringClientOnce.Do(func() {
		baseURL := strings.TrimSuffix(os.Getenv("SCORING_SERVICE_URL"), "/")
		slog.Info("[ScoringClient] Initializing Client",
			slog.Duration("timeout", timeout),
			slog.String("env", env),
			slog.String("base_url", baseURL))
		scoringClientInstance = &ScoringClient{
			Client: &http.Client{
				Timeout: timeout,
			},
			baseURL: baseURL,
		}
	})
	return scoringClientInstance
}

// DoWithRetry retries 5xx responses and transport errors with exponential
// backoff. It never returns a response whose body has been closed: exhausting
// the attempts yields a nil response and an error carrying the last outcome.
func (s *ScoringClient) DoWithRetry(req *http.Request, maxAttempts int) (*http.Response, error) {
	var lastStatus int
	var err error
	backoff := INITIAL_BACKOFF

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return nil, fmt.Errorf("rewinding request body: %w", bodyErr)
				}
				req.Body = body
			}

			time.Sleep(backoff)
			if backoff < MAX_BACKOFF {
				backoff *= 2
			}
		}

		var resp *http.Response
		resp, err = s.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		lastStatus = 0
		if resp != nil {
			lastStatus = resp.StatusCode
			resp.Body.Close()
		}

		slog.Warn("[ScoringClient] Request failed, will retry",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxAttempts),
			slog.String("error", errMsg(err, lastStatus)))
	}

	if err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", maxAttempts, err)
	}
	return nil, fmt.Errorf("request failed after %d attempts: last status %d", maxAttempts, lastStatus)
}

func (s *ScoringClient) GetBatchedScores(input models.ScoreBatchRequest) (models.ScoreBatchResponse, error) {
	var result models.ScoreBatchResponse
	slog.Info("[ScoringClient] Requesting scores from scoring service")
	start := time.Now()

	err := s.postJSON(s.baseURL+"/score_batch", input, &result)
	if err != nil {
		slog.Error("[ScoringClient] Score request failed",
			slog.Duration("elapsed", time.Since(start)))
		return result, err
	}

	slog.Info("[ScoringClient] Score request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// HealthCheck probes the scoring service once; a single failed probe is
// reported, not retried, so the monitor sees state changes quickly.
func (s *ScoringClient) HealthCheck() bool {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := s.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// helper function for posting data to the scoring service
func (s *ScoringClient) postJSON(endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[ScoringClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		slog.Error("[ScoringClient] Failed to build request",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := s.DoWithRetry(req, MAX_RETRIES)
	if err != nil {
		slog.Error("[ScoringClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))

		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[ScoringClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[ScoringClient] Scoring service returned an error",
			slog.String("endpoint", endpoint),
			slog.Int("status_code", resp.StatusCode),
			getPreview(respBody))
		return fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[ScoringClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(string(respBody))))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, status int) string {
	if err != nil {
		return err.Error()
	}
	if status != 0 {
		return fmt.Sprintf("status code %d", status)
	}
	return "unknown error"
}
