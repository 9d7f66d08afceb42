// internal/workers/matching/calculate-match-score/weights.go
package calculatematchscore

import (
	"fmt"
	"sort"
)

const (
	PresetRoleFirst = "role-first"
	PresetBalanced  = "balanced"
)

const (
	FactorRole       = "role"
	FactorSkills     = "skills"
	FactorExperience = "experience"
	FactorLocation   = "location"
	FactorEducation  = "education"
	FactorKeywords   = "keywords"
	FactorBenefits   = "benefits"
)

// factorOrder breaks weight ties in Factors output.
var factorOrder = []string{
	FactorRole, FactorSkills, FactorExperience, FactorLocation,
	FactorEducation, FactorKeywords, FactorBenefits,
}

var factorLabels = map[string]string{
	FactorRole:       "Role",
	FactorSkills:     "Skills",
	FactorExperience: "Experience",
	FactorLocation:   "Location",
	FactorEducation:  "Education",
	FactorKeywords:   "Keywords",
	FactorBenefits:   "Benefits",
}

type preset struct {
	weights  map[string]float64
	roleGate bool
}

// The role-first table gates the whole score on a role match. The balanced
// table has no role factor and adds preference keywords and benefits.
var presets = map[string]preset{
	PresetRoleFirst: {
		weights: map[string]float64{
			FactorRole:       0.50,
			FactorSkills:     0.30,
			FactorExperience: 0.10,
			FactorLocation:   0.05,
			FactorEducation:  0.05,
		},
		roleGate: true,
	},
	PresetBalanced: {
		weights: map[string]float64{
			FactorSkills:     0.35,
			FactorExperience: 0.20,
			FactorLocation:   0.15,
			FactorEducation:  0.10,
			FactorKeywords:   0.10,
			FactorBenefits:   0.10,
		},
	},
}

type factorWeight struct {
	name   string
	weight float64
}

// resolveWeights applies overrides to a preset and orders factors by
// weight, heaviest first. Zero-weight factors are dropped.
func resolveWeights(name string, overrides map[string]float64) ([]factorWeight, bool, error) {
	p, ok := presets[name]
	if !ok {
		return nil, false, fmt.Errorf("unknown weight preset %q", name)
	}

	merged := make(map[string]float64, len(p.weights))
	for k, v := range p.weights {
		merged[k] = v
	}
	for k, v := range overrides {
		if _, known := factorLabels[k]; !known {
			return nil, false, fmt.Errorf("unknown match factor %q", k)
		}
		if v < 0 {
			return nil, false, fmt.Errorf("weight for %q must not be negative", k)
		}
		merged[k] = v
	}

	out := make([]factorWeight, 0, len(merged))
	for _, name := range factorOrder {
		if w := merged[name]; w > 0 {
			out = append(out, factorWeight{name: name, weight: w})
		}
	}
	if len(out) == 0 {
		return nil, false, fmt.Errorf("preset %q has no positive weights", name)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].weight > out[j].weight })

	roleGate := p.roleGate && merged[FactorRole] > 0
	return out, roleGate, nil
}
