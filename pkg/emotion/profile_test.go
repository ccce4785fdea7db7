package emotion

import (
	"reflect"
	"testing"
)

func TestBuildProfile(t *testing.T) {
	t.Parallel()

	p := BuildProfile([]Observation{
		{Name: "joy", Intensity: 4, Reason: "bright tone"},
		{Name: "trust", Intensity: 3, Reason: "open sharing"},
	})

	if len(p.BaseScores) != len(Basis) {
		t.Fatalf("expected all %d basis slots, got %d", len(Basis), len(p.BaseScores))
	}
	if p.BaseScores["joy"] != 4 || p.BaseScores["trust"] != 3 {
		t.Fatalf("base scores = %v", p.BaseScores)
	}
	if p.BaseScores["anger"] != 0 {
		t.Fatalf("unobserved basis slot should be 0, got %v", p.BaseScores["anger"])
	}
	if p.Normalized["joy"] != 0.8 || p.Normalized["trust"] != 0.6 {
		t.Fatalf("normalized = %v", p.Normalized)
	}
	if p.Blends["love"] != 0.7 {
		t.Fatalf("blends = %v, want love=0.7", p.Blends)
	}
	if p.IntensityLabels["joy"] != "Ecstasy" {
		t.Fatalf("joy at intensity 4 should label Ecstasy, got %q", p.IntensityLabels["joy"])
	}
	if p.IntensityLabels["trust"] != "Trust" {
		t.Fatalf("trust at intensity 3 should label Trust, got %q", p.IntensityLabels["trust"])
	}
	if _, ok := p.IntensityLabels["anger"]; ok {
		t.Fatal("zero-score basis emotion must not receive a label")
	}
	if p.Empty() {
		t.Fatal("profile with base scores reported Empty")
	}
}

func TestBuildProfileDegradesUniformly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		observations []Observation
	}{
		{name: "no observations", observations: nil},
		{
			name: "synonym-only input stays gated",
			observations: []Observation{
				{Name: "happiness", Intensity: 4, Reason: "synonym"},
				{Name: "anxiety", Intensity: 2, Reason: "synonym"},
			},
		},
		{
			name: "unknown words only",
			observations: []Observation{
				{Name: "wistfulness", Intensity: 3, Reason: "off vocabulary"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := BuildProfile(tt.observations)
			if !p.Empty() {
				t.Fatal("expected empty profile")
			}
			if len(p.BaseScores) != 0 || len(p.Normalized) != 0 || len(p.Blends) != 0 || len(p.IntensityLabels) != 0 {
				t.Fatalf("degradation not uniform: scores=%v normalized=%v blends=%v labels=%v",
					p.BaseScores, p.Normalized, p.Blends, p.IntensityLabels)
			}
		})
	}
}

func TestBuildProfileStandardizesSynonyms(t *testing.T) {
	t.Parallel()

	p := BuildProfile([]Observation{
		{Name: "happiness", Intensity: 4, Reason: "synonym"},
		{Name: "fear", Intensity: 2, Reason: "basis"},
	})

	// The gate is open (fear is on the basis) but only literal basis words
	// carry their intensity into the vector.
	if !reflect.DeepEqual(p.Standardized, []string{"joy", "fear"}) {
		t.Fatalf("standardized = %v", p.Standardized)
	}
	if p.BaseScores["joy"] != 0 {
		t.Fatalf("synonym intensity must not transfer, joy = %v", p.BaseScores["joy"])
	}
	if p.BaseScores["fear"] != 2 {
		t.Fatalf("fear = %v, want 2", p.BaseScores["fear"])
	}
}

func TestIntensityTierBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		intensity int
		want      string
	}{
		{1, "Serenity"},
		{2, "Serenity"},
		{3, "Joy"},
		{4, "Ecstasy"},
		{5, "Ecstasy"},
	}
	for _, tt := range tests {
		p := BuildProfile([]Observation{{Name: "joy", Intensity: tt.intensity, Reason: "x"}})
		if got := p.IntensityLabels["joy"]; got != tt.want {
			t.Errorf("intensity %d: label = %q, want %q", tt.intensity, got, tt.want)
		}
	}
}

func TestProfileScoresAndReasons(t *testing.T) {
	t.Parallel()

	p := BuildProfile([]Observation{
		{Name: "sadness", Intensity: 3, Reason: "a heavy day"},
	})
	if p.Scores()["sadness"] != 3 {
		t.Fatalf("Scores = %v", p.Scores())
	}
	if p.Reasons()["sadness"] != "a heavy day" {
		t.Fatalf("Reasons = %v", p.Reasons())
	}
}
