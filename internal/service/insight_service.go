package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/scholarspoint/sphub-backend/internal/config"
	"github.com/scholarspoint/sphub-backend/internal/model"
	"github.com/scholarspoint/sphub-backend/internal/view"
)

// User-facing fallbacks. These are returned as the insight text itself, never
// as errors: the dashboard always has something to show.
const (
	InsightNoData  = "No student data available."
	InsightFailure = "Error connecting to AI service."
)

const (
	insightTimeout    = 30 * time.Second
	insightCacheTTL   = 12 * time.Hour
	attendanceHistory = 50
)

// Insight is one generated summary plus the sequence number of the request
// that produced it.
type Insight struct {
	Text        string `json:"text"`
	GeneratedAt string `json:"generatedAt"`
	Sequence    uint64 `json:"sequence"`
}

// InsightService calls the Gemini API to summarize the class's attendance and
// fee situation. Requests carry a monotonic sequence number so a slow response
// that lands after a newer request is dropped instead of overwriting it.
type InsightService struct {
	cfg    *config.Config
	rdb    *redis.Client
	client *http.Client
	log    zerolog.Logger

	seq    atomic.Uint64
	latest atomic.Uint64
}

func NewInsightService(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *InsightService {
	return &InsightService{
		cfg:    cfg,
		rdb:    rdb,
		client: &http.Client{Timeout: insightTimeout},
		log:    log.With().Str("component", "insight_service").Logger(),
	}
}

// geminiRequest mirrors the generateContent REST payload.
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"topK"`
	TopP        float64 `json:"topP"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// buildPrompt summarizes the state into the model prompt: the active roster
// with fee amounts, the last records of attendance history, and the current
// month's fee position.
func (s *InsightService) buildPrompt(state *model.AppState, now time.Time) string {
	active := view.ActiveRoster(state.Students)

	var b strings.Builder
	b.WriteString("You are an assistant for a small tuition class. ")
	b.WriteString("Analyze the data below and give a short, actionable summary ")
	b.WriteString("(3-4 sentences) covering attendance trends, fee collection and any students needing attention.\n\n")

	b.WriteString("Students:\n")
	for _, st := range active {
		fmt.Fprintf(&b, "- %s (monthly fee %.0f)\n", st.Name, st.MonthlyFee)
	}

	records := state.Attendance
	if len(records) > attendanceHistory {
		records = records[len(records)-attendanceHistory:]
	}
	b.WriteString("\nRecent attendance:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "- %s %s: %s\n", r.Date, r.StudentID, r.Status)
	}

	summary := view.BuildFeeSummary(state, int(now.Month())-1, now.Year())
	fmt.Fprintf(&b, "\nFees for %s %d: collected %.0f, pending %.0f across %d students.\n",
		now.Month(), now.Year(), summary.Collected, summary.PendingTotal, len(summary.Pending))

	return b.String()
}

// Generate produces a fresh insight for the given state. The returned text is
// always displayable; API failures degrade to the fixed failure message.
func (s *InsightService) Generate(ctx context.Context, state *model.AppState) Insight {
	seq := s.seq.Add(1)

	if len(view.ActiveRoster(state.Students)) == 0 {
		return s.finish(ctx, seq, InsightNoData)
	}

	text, err := s.callGemini(ctx, s.buildPrompt(state, time.Now()))
	if err != nil {
		s.log.Error().Err(err).Msg("Insight generation failed")
		return s.finish(ctx, seq, InsightFailure)
	}
	return s.finish(ctx, seq, text)
}

// finish records the result as the latest insight unless a newer request has
// already completed, and caches the winner in redis.
func (s *InsightService) finish(ctx context.Context, seq uint64, text string) Insight {
	insight := Insight{
		Text:        text,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Sequence:    seq,
	}

	for {
		latest := s.latest.Load()
		if seq <= latest {
			s.log.Debug().Uint64("seq", seq).Uint64("latest", latest).Msg("Dropping stale insight")
			return insight
		}
		if s.latest.CompareAndSwap(latest, seq) {
			break
		}
	}

	payload, err := json.Marshal(insight)
	if err == nil {
		if err := s.rdb.Set(ctx, config.CacheKey.LatestInsightKey(), payload, insightCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Insight cache write failed")
		}
	}
	return insight
}

// Latest returns the cached insight, if any.
func (s *InsightService) Latest(ctx context.Context) (*Insight, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.LatestInsightKey()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var insight Insight
	if err := json.Unmarshal(raw, &insight); err != nil {
		return nil, err
	}
	return &insight, nil
}

func (s *InsightService) callGemini(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature: 0.7,
			TopK:        40,
			TopP:        0.95,
		},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		s.cfg.GeminiBaseURL, s.cfg.GeminiModel, s.cfg.GeminiAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}
