package emotion

import (
	"reflect"
	"testing"
)

const sampleReport = `basic_emotions:
- joy: intensity = 4, reason = "you sound genuinely thrilled about the news"
- anticipation: intensity = 2, reason = "there's a hint of looking forward"

companion_response:
That's wonderful to hear! Tell me more about what happened.`

func TestParse(t *testing.T) {
	t.Parallel()

	obs, reply := Parse(sampleReport)

	want := []Observation{
		{Name: "joy", Intensity: 4, Reason: "you sound genuinely thrilled about the news"},
		{Name: "anticipation", Intensity: 2, Reason: "there's a hint of looking forward"},
	}
	if !reflect.DeepEqual(obs, want) {
		t.Fatalf("observations = %+v, want %+v", obs, want)
	}
	if reply != "That's wonderful to hear! Tell me more about what happened." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestParseSkipsMangledLines(t *testing.T) {
	t.Parallel()

	raw := `basic_emotions:
- joy: intensity = 3, reason = "solid"
- fear: intensity = abc, reason = "oops"
- sadness: intensity = 2, reason = "quiet"`

	obs, _ := Parse(raw)
	want := []Observation{
		{Name: "joy", Intensity: 3, Reason: "solid"},
		{Name: "sadness", Intensity: 2, Reason: "quiet"},
	}
	if !reflect.DeepEqual(obs, want) {
		t.Fatalf("observations = %+v, want %+v", obs, want)
	}
}

func TestParseDuplicateKeepsPositionLastValue(t *testing.T) {
	t.Parallel()

	raw := `basic_emotions:
- joy: intensity = 2, reason = "first"
- fear: intensity = 1, reason = "middle"
- joy: intensity = 5, reason = "second"`

	obs, _ := Parse(raw)
	want := []Observation{
		{Name: "joy", Intensity: 5, Reason: "second"},
		{Name: "fear", Intensity: 1, Reason: "middle"},
	}
	if !reflect.DeepEqual(obs, want) {
		t.Fatalf("observations = %+v, want %+v", obs, want)
	}
}

func TestParseTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantObs   int
		wantReply string
	}{
		{name: "empty input", raw: ""},
		{name: "no markers at all", raw: "I am just chatting, no structure here."},
		{
			name:      "reply only",
			raw:       "companion_response: I'm here for you.",
			wantReply: "I'm here for you.",
		},
		{
			name:    "block with zero valid lines",
			raw:     "basic_emotions:\n- joy: something unparseable",
			wantObs: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			obs, reply := Parse(tt.raw)
			if len(obs) != tt.wantObs {
				t.Fatalf("got %d observations, want %d", len(obs), tt.wantObs)
			}
			if reply != tt.wantReply {
				t.Fatalf("reply = %q, want %q", reply, tt.wantReply)
			}
		})
	}
}

func TestParseCaseFoldsNames(t *testing.T) {
	t.Parallel()

	obs, _ := Parse(`basic_emotions:
- Joy: intensity = 3, reason = "upper"`)
	if len(obs) != 1 || obs[0].Name != "joy" {
		t.Fatalf("observations = %+v, want single lowercase joy", obs)
	}
}
