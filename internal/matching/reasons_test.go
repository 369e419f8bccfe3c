package matching

import (
	"context"
	"testing"
	"time"

	"agritrade-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFallbackReasonsIsDeterministic(t *testing.T) {
	listing := baseListing()
	res := Score(baseBuyer(), listing, homeCountry, time.Now())

	first := FallbackReasons(listing, res)
	second := FallbackReasons(listing, res)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "Cocoa is on your seeking list")
	assert.Contains(t, first, "verified supplier")
	assert.Contains(t, first, "available now")
}

func TestFallbackReasonsWithNoFiredRules(t *testing.T) {
	listing := baseListing()
	reasons := FallbackReasons(listing, ScoreResult{Score: 35})

	assert.Contains(t, reasons, "35/100")
}

func TestReasonsWithoutAPIKeyUsesFallback(t *testing.T) {
	cfg := &config.Config{AIAPIKey: ""}
	client := NewReasonClient(cfg, zap.NewNop())

	listing := baseListing()
	buyer := baseBuyer()
	res := Score(buyer, listing, homeCountry, time.Now())

	got := client.Reasons(context.Background(), buyer, listing, res)
	assert.Equal(t, FallbackReasons(listing, res), got)
}

func TestReasonsFallsBackOnAPIFailure(t *testing.T) {
	// Unroutable endpoint: the call errors and the templates take over.
	cfg := &config.Config{
		AIAPIKey:     "test-key",
		AIServiceURL: "http://127.0.0.1:1/v1/chat/completions",
		AIModel:      "test-model",
	}
	client := NewReasonClient(cfg, zap.NewNop())

	listing := baseListing()
	buyer := baseBuyer()
	res := Score(buyer, listing, homeCountry, time.Now())

	got := client.Reasons(context.Background(), buyer, listing, res)
	assert.Equal(t, FallbackReasons(listing, res), got)
}
