package emotion

// Profile is the complete structured emotion result derived from one
// piece of input text. It is built once and never mutated.
//
// The profile degrades uniformly: when no raw word sits on the basis,
// BaseScores stays empty and so do Normalized, Blends and IntensityLabels.
// This keeps "no valid input" distinguishable from "all low scores".
type Profile struct {
	Raw             []Observation      `json:"raw"`
	Standardized    []string           `json:"standardized"`
	BaseScores      map[string]float64 `json:"base_scores"`
	Normalized      map[string]float64 `json:"normalized"`
	Blends          map[string]float64 `json:"blends"`
	IntensityLabels map[string]string  `json:"intensity_labels"`
}

// intensityCeiling is the maximum score the analysis prompt asks for.
const intensityCeiling = 5

// BuildProfile derives the full profile from parsed observations.
// Fuzzy standardization is off by default; the analysis prompt already
// restricts the model to the basis vocabulary.
func BuildProfile(observations []Observation) Profile {
	p := Profile{
		Raw:          observations,
		Standardized: Standardize(names(observations), false),
	}

	p.BaseScores = fillBaseScores(observations)
	p.Normalized = normalize(p.BaseScores)
	p.Blends, _ = DetectBlends(p.Normalized, DefaultBlendThreshold, BlendAverage)
	p.IntensityLabels = classifyIntensity(p.BaseScores)
	return p
}

// Empty reports whether the analysis found nothing usable.
func (p Profile) Empty() bool {
	return len(p.BaseScores) == 0
}

// Scores returns the raw word -> intensity mapping.
func (p Profile) Scores() map[string]float64 {
	out := make(map[string]float64, len(p.Raw))
	for _, obs := range p.Raw {
		out[obs.Name] = float64(obs.Intensity)
	}
	return out
}

// Reasons returns the raw word -> reason mapping.
func (p Profile) Reasons() map[string]string {
	out := make(map[string]string, len(p.Raw))
	for _, obs := range p.Raw {
		out[obs.Name] = obs.Reason
	}
	return out
}

func names(observations []Observation) []string {
	out := make([]string, 0, len(observations))
	for _, obs := range observations {
		out = append(out, obs.Name)
	}
	return out
}

// fillBaseScores populates all 8 basis slots, but only when at least one
// observation already names a basis emotion. Synonym-only input does not
// open the gate; a pure-noise extraction must not produce a spurious
// all-zero vector.
func fillBaseScores(observations []Observation) map[string]float64 {
	hasBase := false
	for _, obs := range observations {
		if IsBasis(obs.Name) {
			hasBase = true
			break
		}
	}
	if !hasBase {
		return map[string]float64{}
	}

	scores := make(map[string]float64, len(Basis))
	for _, b := range Basis {
		scores[b] = 0.0
	}
	for _, obs := range observations {
		if _, ok := scores[obs.Name]; ok {
			scores[obs.Name] = float64(obs.Intensity)
		}
	}
	return scores
}

// normalize divides each score by the intensity ceiling. Zero entries stay
// a literal 0.0 so no floating artifacts leak into the vector.
func normalize(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for emo, val := range scores {
		if val == 0 {
			out[emo] = 0.0
			continue
		}
		out[emo] = val / intensityCeiling
	}
	return out
}

// classifyIntensity picks the qualitative tier label for every populated,
// nonzero basis score. Terms without a tier table entry are omitted.
func classifyIntensity(scores map[string]float64) map[string]string {
	out := make(map[string]string)
	for emo, score := range scores {
		tiers, ok := intensityTiers[emo]
		if !ok || score == 0 {
			continue
		}
		switch {
		case score <= 2:
			out[emo] = tiers[0]
		case score == 3:
			out[emo] = tiers[1]
		default:
			out[emo] = tiers[2]
		}
	}
	return out
}
