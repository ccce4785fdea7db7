package emotion

import (
	"errors"
	"math"
	"strings"

	"github.com/aryann/difflib"
	"github.com/charmbracelet/log"
)

// Basis holds Robert Plutchik's 8 basic emotions in wheel order.
var Basis = []string{"joy", "trust", "fear", "surprise", "sadness", "disgust", "anger", "anticipation"}

// replacements maps common non-standard emotion words onto the basis.
var replacements = map[string]string{
	"happiness":      "joy",
	"contentment":    "joy",
	"love":           "joy",
	"confidence":     "trust",
	"hope":           "anticipation",
	"curiosity":      "anticipation",
	"anxiety":        "fear",
	"stress":         "fear",
	"shock":          "surprise",
	"confusion":      "surprise",
	"grief":          "sadness",
	"disappointment": "sadness",
	"envy":           "disgust",
	"boredom":        "disgust",
	"rage":           "anger",
	"frustration":    "anger",
	"resentment":     "anger",
	"embarrassment":  "fear",
}

// dyads names the secondary emotions that arise when two adjacent basis
// emotions are both present.
var dyads = map[string][2]string{
	"love":           {"joy", "trust"},
	"submission":     {"trust", "fear"},
	"alarm":          {"fear", "surprise"},
	"disappointment": {"surprise", "sadness"},
	"remorse":        {"sadness", "disgust"},
	"contempt":       {"disgust", "anger"},
	"aggressiveness": {"anger", "anticipation"},
	"optimism":       {"anticipation", "joy"},
}

// intensityTiers gives the mild/moderate/strong label per basis emotion.
var intensityTiers = map[string][3]string{
	"anger":        {"Annoyance", "Anger", "Rage"},
	"anticipation": {"Interest", "Anticipation", "Vigilance"},
	"joy":          {"Serenity", "Joy", "Ecstasy"},
	"trust":        {"Acceptance", "Trust", "Admiration"},
	"fear":         {"Apprehension", "Fear", "Terror"},
	"surprise":     {"Distraction", "Surprise", "Amazement"},
	"sadness":      {"Pensiveness", "Sadness", "Grief"},
	"disgust":      {"Boredom", "Disgust", "Loathing"},
}

// IsBasis reports whether word is one of the 8 basis emotions.
func IsBasis(word string) bool {
	for _, b := range Basis {
		if word == b {
			return true
		}
	}
	return false
}

// fuzzyCutoff is the minimum close-match ratio for accepting a misspelled
// or adjacent emotion word as a basis emotion.
const fuzzyCutoff = 0.7

// Standardize maps arbitrary emotion words onto the 8 basis emotions.
// Words already on the basis pass through, known synonyms are replaced,
// and, when fuzzy is set, near-misses within the close-match cutoff are
// accepted. Anything else is dropped with a diagnostic. The result is
// deduplicated, preserving first-occurrence order.
func Standardize(words []string, fuzzy bool) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	keep := func(w string) {
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}

	for _, word := range words {
		w := strings.ToLower(strings.TrimSpace(word))
		switch {
		case IsBasis(w):
			keep(w)
		case replacements[w] != "":
			keep(replacements[w])
		case fuzzy:
			if match, ok := closestBasis(w); ok {
				log.Debug("fuzzy matched emotion", "word", word, "basis", match)
				keep(match)
			} else {
				log.Warn("unrecognized emotion, skipped", "word", word)
			}
		default:
			log.Warn("unrecognized emotion, skipped", "word", word)
		}
	}
	return out
}

// closestBasis returns the basis emotion with the highest close-match
// ratio to w, if any ratio reaches the cutoff.
func closestBasis(w string) (string, bool) {
	best := ""
	bestRatio := 0.0
	for _, b := range Basis {
		if r := matchRatio(w, b); r > bestRatio {
			best, bestRatio = b, r
		}
	}
	if bestRatio >= fuzzyCutoff {
		return best, true
	}
	return "", false
}

// matchRatio computes a SequenceMatcher-style similarity between two words:
// twice the number of common characters over the total length.
func matchRatio(a, b string) float64 {
	at := strings.Split(a, "")
	bt := strings.Split(b, "")
	if len(at)+len(bt) == 0 {
		return 0
	}
	var common int
	for _, rec := range difflib.Diff(at, bt) {
		if rec.Delta == difflib.Common {
			common++
		}
	}
	return 2 * float64(common) / float64(len(at)+len(bt))
}

// BlendMethod selects how a blend score is derived from its two components.
type BlendMethod string

const (
	BlendAverage BlendMethod = "average"
	BlendMin     BlendMethod = "min"
)

// ErrInvalidMethod is returned by DetectBlends for an unknown BlendMethod.
// This is a programming error, not a data error.
var ErrInvalidMethod = errors.New("invalid blend method: use \"average\" or \"min\"")

// DefaultBlendThreshold is the minimum normalized score both components of
// a dyad must reach before the blend is reported.
const DefaultBlendThreshold = 0.1

// DetectBlends scans the dyad table against a normalized score vector and
// returns every blend whose two components both reach the threshold. The
// blend score is the average or the minimum of the components, rounded to
// 3 decimal places.
func DetectBlends(scores map[string]float64, threshold float64, method BlendMethod) (map[string]float64, error) {
	if method != BlendAverage && method != BlendMin {
		return nil, ErrInvalidMethod
	}

	blends := make(map[string]float64)
	for blend, pair := range dyads {
		s1, ok1 := scores[pair[0]]
		s2, ok2 := scores[pair[1]]
		if !ok1 || !ok2 {
			continue
		}
		if s1 < threshold || s2 < threshold {
			continue
		}
		var score float64
		if method == BlendAverage {
			score = (s1 + s2) / 2
		} else {
			score = math.Min(s1, s2)
		}
		blends[blend] = math.Round(score*1000) / 1000
	}
	return blends, nil
}
