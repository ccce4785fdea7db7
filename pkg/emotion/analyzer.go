package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"solace/pkg/flight"
	"solace/pkg/inference"
	"solace/pkg/schema"
	"solace/pkg/utils"
)

// Analyzer drives one model call per input text and assembles the full
// emotion profile plus the companion reply from the output. Identical
// texts are coalesced and served from a bounded cache; the analysis
// prompt is deterministic enough for that to be safe.
type Analyzer struct {
	inf        inference.Inferencer
	structured bool
	cache      *flight.Cache[string, analysis]
}

type analysis struct {
	profile Profile
	reply   string
}

func NewAnalyzer(inf inference.Inferencer) *Analyzer {
	return &Analyzer{
		inf:   inf,
		cache: flight.NewCache[string, analysis](),
	}
}

// UseStructuredOutputs asks the model for a JSON emotion report instead of
// marker-formatted text. The marker parser remains the fallback when the
// report does not decode.
func (a *Analyzer) UseStructuredOutputs(on bool) {
	a.structured = on
}

// CacheExpiry bounds how long analysis results are reused.
func (a *Analyzer) CacheExpiry(d time.Duration) {
	a.cache.Expiry(d)
}

// Analyze obtains the emotion profile and companion reply for text.
// On model failure it returns a zero profile along with the error; the
// caller owns the visible degradation to "no emotion detected".
func (a *Analyzer) Analyze(ctx context.Context, text string) (Profile, string, error) {
	res, err := a.cache.Do(text, func() (analysis, error) {
		return a.analyze(ctx, text)
	})
	return res.profile, res.reply, err
}

func (a *Analyzer) analyze(ctx context.Context, text string) (analysis, error) {
	user := fmt.Sprintf(analysisUserPrompt, text)
	if tokens, err := utils.NumTokensFromMessages(analysisSystemPrompt + user); err == nil {
		log.Debug("analyzing text", "chars", len(text), "prompt_tokens", tokens)
	}

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(1024),
	}
	if a.structured {
		params.ResponseFormat = schema.StructuredOutputsResponseFormat()
	}

	out, err := a.inf.Infer(ctx, params, analysisSystemPrompt, user)
	if err != nil {
		return analysis{}, fmt.Errorf("emotion analysis: %w", err)
	}

	var observations []Observation
	var reply string
	if a.structured {
		observations, reply = parseReport(out)
	}
	if len(observations) == 0 && reply == "" {
		observations, reply = Parse(out)
	}

	profile := BuildProfile(observations)
	log.Debug("analysis complete", "emotions", len(profile.Raw), "standardized", profile.Standardized)
	return analysis{profile: profile, reply: reply}, nil
}

// parseReport decodes a structured-outputs emotion report. Returns empty
// results when the payload is not the expected JSON.
func parseReport(out string) ([]Observation, string) {
	var report schema.EmotionReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		return nil, ""
	}

	var observations []Observation
	index := make(map[string]int)
	for _, e := range report.BasicEmotions {
		obs := Observation{
			Name:      strings.ToLower(strings.TrimSpace(e.Name)),
			Intensity: e.Intensity,
			Reason:    strings.TrimSpace(e.Reason),
		}
		if obs.Name == "" {
			continue
		}
		if i, ok := index[obs.Name]; ok {
			observations[i] = obs
			continue
		}
		index[obs.Name] = len(observations)
		observations = append(observations, obs)
	}
	return observations, strings.TrimSpace(report.CompanionResponse)
}
