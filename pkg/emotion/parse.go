package emotion

import (
	"regexp"
	"strconv"
	"strings"
)

// Observation is one extracted emotion word with its model-assigned
// intensity and a short reason. Intensity is unconstrained at parse time
// but expected in [1,5].
type Observation struct {
	Name      string `json:"name"`
	Intensity int    `json:"intensity"`
	Reason    string `json:"reason"`
}

var (
	emotionBlockRX = regexp.MustCompile(`basic_emotions:\s*((?:\n\s*-\s*[a-zA-Z]+:.*)+)`)
	emotionLineRX  = regexp.MustCompile(`^\s*-\s*([a-zA-Z_]+):\s*intensity\s*=\s*(\d+),\s*reason\s*=\s*"([^"]*)"`)
	companionRX    = regexp.MustCompile(`(?s)companion_response:\s*(.+)`)
)

// Parse extracts the labeled emotion block and the companion reply from
// raw model output. Lines that do not match the expected bullet shape are
// skipped; the reply is empty when its marker is absent. Parse is total:
// it never fails, returning (nil, "") when nothing matches.
func Parse(raw string) ([]Observation, string) {
	var observations []Observation
	index := make(map[string]int)

	if m := emotionBlockRX.FindStringSubmatch(raw); m != nil {
		for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
			lm := emotionLineRX.FindStringSubmatch(line)
			if lm == nil {
				continue
			}
			intensity, err := strconv.Atoi(lm[2])
			if err != nil {
				continue
			}
			obs := Observation{
				Name:      strings.ToLower(lm[1]),
				Intensity: intensity,
				Reason:    strings.TrimSpace(lm[3]),
			}
			// Duplicate words keep their first position, last value wins.
			if i, ok := index[obs.Name]; ok {
				observations[i] = obs
				continue
			}
			index[obs.Name] = len(observations)
			observations = append(observations, obs)
		}
	}

	var reply string
	if m := companionRX.FindStringSubmatch(raw); m != nil {
		reply = strings.TrimSpace(m[1])
	}

	return observations, reply
}
