package matching

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"agritrade-backend/internal/config"
	"agritrade-backend/internal/models"

	"go.uber.org/zap"
)

const (
	reasonMaxTokens      = 500
	reasonRequestTimeout = 10 * time.Second
)

// ReasonClient turns a score breakdown into a human-readable explanation.
// It tries the configured text-generation API first and always degrades to
// the deterministic templates; a caller never sees an error.
type ReasonClient struct {
	cfg        *config.Config
	httpClient *http.Client
	log        *zap.Logger
}

func NewReasonClient(cfg *config.Config, log *zap.Logger) *ReasonClient {
	return &ReasonClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: reasonRequestTimeout},
		log:        log,
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r *ReasonClient) Reasons(ctx context.Context, buyer *models.Buyer, listing *models.Listing, res ScoreResult) string {
	if r.cfg.AIAPIKey == "" {
		return FallbackReasons(listing, res)
	}

	text, err := r.callAPI(ctx, buyer, listing, res)
	if err != nil {
		r.log.Warn("reason generation failed, using fallback",
			zap.Uint("listing_id", listing.ID),
			zap.Error(err))
		return FallbackReasons(listing, res)
	}
	return text
}

func (r *ReasonClient) callAPI(ctx context.Context, buyer *models.Buyer, listing *models.Listing, res ScoreResult) (string, error) {
	prompt := fmt.Sprintf(
		"In two short sentences, explain to an agricultural buyer why this listing matches their needs. "+
			"Buyer seeks: %s (quality: %s, volume: %s). "+
			"Listing: %.1f %s of %s, grade %s, %.2f %s per unit. Compatibility score: %.0f/100.",
		buyer.SeekingCrops, buyer.QualityStandards, buyer.VolumeRequirement,
		listing.Quantity, listing.Unit, listing.CropType, listing.QualityGrade,
		listing.PricePerUnit, listing.Currency, res.Score)

	body, err := json.Marshal(chatRequest{
		Model:     r.cfg.AIModel,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: reasonMaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.AIServiceURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.AIAPIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text API returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("text API returned no content")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// FallbackReasons builds the deterministic explanation from whichever scoring
// rules fired.
func FallbackReasons(listing *models.Listing, res ScoreResult) string {
	var reasons []string

	switch {
	case res.CropExact:
		reasons = append(reasons, fmt.Sprintf("%s is on your seeking list", listing.CropType))
	case res.CropPartial:
		reasons = append(reasons, fmt.Sprintf("%s is close to a crop you are seeking", listing.CropType))
	}

	if res.GradeMatch || res.GradeFallback {
		reasons = append(reasons, fmt.Sprintf("quality grade %s meets your standards", listing.QualityGrade))
	}

	if res.VolumePoints >= 20 {
		reasons = append(reasons, "the available quantity closely fits your volume requirement")
	} else if res.VolumePoints >= 15 {
		reasons = append(reasons, "the available quantity is within range of your volume requirement")
	}

	if res.AvailabilityScore >= 10 {
		reasons = append(reasons, "the produce is available now")
	} else if res.AvailabilityScore >= 7 {
		reasons = append(reasons, "the produce becomes available within 30 days")
	}

	if res.Verified {
		reasons = append(reasons, "the farmer is a verified supplier")
	}

	if len(reasons) == 0 {
		return fmt.Sprintf("This listing scored %.0f/100 for your profile.", res.Score)
	}

	return "Suggested because " + strings.Join(reasons, "; ") + "."
}
