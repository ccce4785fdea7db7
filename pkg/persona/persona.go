package persona

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"github.com/segmentio/ksuid"

	"solace/pkg/emotion"
	"solace/pkg/inference"
)

// NotSpecified is the sentinel for traits the model's definition did not
// name. Trait lookups always succeed; they never report absence.
const NotSpecified = "Not specified"

// TraitKeys enumerates the traits extracted from every persona definition.
var TraitKeys = []string{"core_essence", "communication_style", "support_method", "emotional_approach"}

var traitHeaders = map[string]string{
	"core_essence":        "Core Essence",
	"communication_style": "Communication Style",
	"support_method":      "Support Method",
	"emotional_approach":  "Emotional Approach",
}

// Persona is the synthesized behavioral description governing one
// conversation's tone. It is created exactly once per conversation and
// immutable afterwards; personas are never shared across conversations.
type Persona struct {
	ID            string            `json:"id"`
	RawDefinition string            `json:"raw_definition"`
	Traits        map[string]string `json:"traits"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Trait returns the named trait, falling back to the sentinel so callers
// never have to handle a missing key.
func (p Persona) Trait(name string) string {
	if v, ok := p.Traits[name]; ok && v != "" {
		return v
	}
	return NotSpecified
}

// Synthesizer derives a persona from the first turn of a conversation.
type Synthesizer struct {
	inf inference.Inferencer
}

func NewSynthesizer(inf inference.Inferencer) *Synthesizer {
	return &Synthesizer{inf: inf}
}

// Synthesize sends the creation prompt built from the user's first
// sharing, its emotion profile, and the model's own companion reply. The
// returned text is kept verbatim as the authoritative definition; traits
// are best-effort extracted from it.
func (s *Synthesizer) Synthesize(ctx context.Context, userText string, profile emotion.Profile, companionReply string) (Persona, error) {
	user := fmt.Sprintf(creationUserPrompt, userText, formatEmotions(profile), companionReply)

	params := &openai.ChatCompletionNewParams{
		MaxCompletionTokens: openai.Int(1536),
	}
	definition, err := s.inf.Infer(ctx, params, creationSystemPrompt, user)
	if err != nil {
		return Persona{}, fmt.Errorf("persona synthesis: %w", err)
	}

	p := Persona{
		ID:            "persona_" + ksuid.New().String(),
		RawDefinition: definition,
		Traits:        extractTraits(definition),
		CreatedAt:     time.Now(),
	}
	log.Info("persona synthesized", "id", p.ID, "essence", p.Trait("core_essence"))
	return p, nil
}

// extractTraits does a best-effort substring search for each section
// header and takes the following line as the trait value. Headers whose
// content cannot be found yield the sentinel instead of being omitted.
func extractTraits(definition string) map[string]string {
	lines := strings.Split(definition, "\n")
	traits := make(map[string]string, len(traitHeaders))
	for key, header := range traitHeaders {
		traits[key] = findSection(lines, header)
	}
	return traits
}

func findSection(lines []string, header string) string {
	needle := strings.ToLower(header)
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		// Prefer content on the same line after the header, e.g.
		// "- Core Essence: A warm presence ...".
		if idx := strings.Index(strings.ToLower(line), needle); idx >= 0 {
			rest := line[idx+len(header):]
			rest = strings.TrimLeft(rest, "*: ")
			rest = strings.TrimSpace(rest)
			if rest != "" {
				return rest
			}
		}
		if i+1 < len(lines) {
			next := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(lines[i+1]), "- "))
			if next != "" {
				return next
			}
		}
		break
	}
	return NotSpecified
}

func formatEmotions(profile emotion.Profile) string {
	if len(profile.Raw) == 0 {
		return "(no clear emotions were detected)"
	}
	var b strings.Builder
	for _, obs := range profile.Raw {
		fmt.Fprintf(&b, "- %s (intensity %d): %s\n", obs.Name, obs.Intensity, obs.Reason)
	}
	return strings.TrimRight(b.String(), "\n")
}
