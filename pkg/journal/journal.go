package journal

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"solace/pkg/emotion"
	"solace/pkg/utils"
)

// Entry is one logged analysis: the flat derived fields of a profile,
// never the profile itself.
type Entry struct {
	Timestamp       time.Time          `json:"timestamp"`
	Input           string             `json:"input"`
	EmotionScores   map[string]float64 `json:"emotion_scores"`
	EmotionReasons  map[string]string  `json:"emotion_reasons"`
	IntensityLabels map[string]string  `json:"intensity_labels"`
	BlendedEmotions map[string]float64 `json:"blended_emotions"`
	Response        string             `json:"response"`
}

// NewEntry flattens a profile into a journal entry.
func NewEntry(input string, profile emotion.Profile, response string) Entry {
	return Entry{
		Timestamp:       time.Now(),
		Input:           input,
		EmotionScores:   profile.BaseScores,
		EmotionReasons:  profile.Reasons(),
		IntensityLabels: profile.IntensityLabels,
		BlendedEmotions: profile.Blends,
		Response:        response,
	}
}

// Store is the append-only mood log backed by a single JSON file.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []Entry
}

// Open loads the log at path. A missing or unreadable file starts empty.
func Open(path string) *Store {
	s := &Store{path: path}
	if !utils.Exists(path) {
		return s
	}
	entries, err := utils.Load[[]Entry](path)
	if err != nil {
		log.Warn("could not read mood log, starting empty", "path", path, "error", err)
		return s
	}
	s.entries = entries
	log.Info("mood log loaded", "path", path, "entries", len(entries))
	return s
}

func (s *Store) Append(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return utils.Save(s.path, s.entries)
}

func (s *Store) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// EmotionStat aggregates one basis emotion across the log.
type EmotionStat struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Stats summarizes the log: how often each emotion appeared with a
// nonzero score and its average intensity when present.
func (s *Store) Stats() map[string]EmotionStat {
	entries := s.All()

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, e := range entries {
		for emo, score := range e.EmotionScores {
			if score == 0 {
				continue
			}
			sums[emo] += score
			counts[emo]++
		}
	}

	stats := make(map[string]EmotionStat, len(counts))
	for emo, n := range counts {
		stats[emo] = EmotionStat{
			Count:   n,
			Average: math.Round(sums[emo]/float64(n)*100) / 100,
		}
	}
	return stats
}

// ExportCSV renders the log as CSV with one row per entry.
func (s *Store) ExportCSV() (string, error) {
	entries := s.All()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"timestamp", "input", "emotions", "intensity_labels", "blended_emotions", "response"}); err != nil {
		return "", err
	}
	for _, e := range entries {
		row := []string{
			e.Timestamp.Format(time.RFC3339),
			e.Input,
			joinScores(e.EmotionScores),
			joinLabels(e.IntensityLabels),
			joinScores(e.BlendedEmotions),
			e.Response,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

func joinScores(scores map[string]float64) string {
	keys := make([]string, 0, len(scores))
	for k, v := range scores {
		if v == 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, scores[k]))
	}
	return strings.Join(parts, ";")
}

func joinLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+labels[k])
	}
	return strings.Join(parts, ";")
}
