// internal/workers/matching/calculate-match-score/scorer.go
package calculatematchscore

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"jobmatch-workers/internal/models"
	"jobmatch-workers/pkg/taxonomy"
)

// neutralScore is used when one side of a comparison carries no data.
const neutralScore = 50.0

// Scorer computes match results. It holds no mutable state and is safe for
// concurrent use.
type Scorer struct {
	weights       []factorWeight
	totalWeight   float64
	roleGate      bool
	taxonomy      *taxonomy.Taxonomy
	defaultRadius float64
}

func NewScorer(config *Config, tax *taxonomy.Taxonomy) (*Scorer, error) {
	if tax == nil {
		return nil, fmt.Errorf("taxonomy is required")
	}
	weights, gate, err := resolveWeights(config.Preset, config.Weights)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, w := range weights {
		total += w.weight
	}

	radius := config.DefaultMaxRadius
	if radius <= 0 {
		radius = 25
	}

	return &Scorer{
		weights:       weights,
		totalWeight:   total,
		roleGate:      gate,
		taxonomy:      tax,
		defaultRadius: radius,
	}, nil
}

// RoleGated reports whether a zero role score zeroes the composite.
func (s *Scorer) RoleGated() bool {
	return s.roleGate
}

// Score rates job against user on 0..100. With the role gate active a job
// outside the user's role bucket scores 0 whatever its other factors.
func (s *Scorer) Score(user *models.UserProfile, job *models.Job) models.MatchResult {
	result := models.MatchResult{
		Factors:   make([]string, 0, len(s.weights)),
		Breakdown: make(map[string]float64, len(s.weights)),
	}

	var sum float64
	for _, fw := range s.weights {
		score := s.factor(fw.name, user, job)
		sum += fw.weight * score

		rounded := math.Round(score)
		result.Breakdown[fw.name] = rounded
		result.Factors = append(result.Factors,
			fmt.Sprintf("%s: %d%% match", factorLabels[fw.name], int(rounded)))
	}

	if s.roleGate && result.Breakdown[FactorRole] == 0 {
		result.Score = 0
		return result
	}

	result.Score = clamp(int(math.Round(sum / s.totalWeight)))
	return result
}

func (s *Scorer) factor(name string, user *models.UserProfile, job *models.Job) float64 {
	switch name {
	case FactorRole:
		return s.roleScore(user, job)
	case FactorSkills:
		return skillsScore(user, job)
	case FactorExperience:
		return experienceScore(user.EffectiveYears(), job.YearsRequired)
	case FactorLocation:
		return s.locationScore(user, job)
	case FactorEducation:
		return educationScore(user.Education, job.Education)
	case FactorKeywords:
		return keywordsScore(user.Preferences.Keywords, job)
	case FactorBenefits:
		return benefitsScore(user.Preferences.Benefits, job.Benefits)
	default:
		return 0
	}
}

func (s *Scorer) roleScore(user *models.UserProfile, job *models.Job) float64 {
	if s.taxonomy.IsRoleMatch(user.Role, job.Title, job.Category) {
		return 100
	}
	return 0
}

// skillsScore is the share of the job's required skills the user holds.
func skillsScore(user *models.UserProfile, job *models.Job) float64 {
	if len(job.RequiredSkills) == 0 {
		return 0
	}

	held := make(map[string]struct{}, len(user.Skills)*2)
	for _, s := range user.Skills {
		held[strings.ToLower(s.Name)] = struct{}{}
		held[normalizeSkill(s.Name)] = struct{}{}
	}

	matched := 0
	for _, req := range job.RequiredSkills {
		if _, ok := held[strings.ToLower(req)]; ok {
			matched++
			continue
		}
		if _, ok := held[normalizeSkill(req)]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(job.RequiredSkills)) * 100
}

// normalizeSkill folds case, drops punctuation and a trailing "js" so that
// "React", "react.js" and "ReactJS" compare equal.
func normalizeSkill(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 2 && strings.HasSuffix(out, "js") {
		out = strings.TrimSuffix(out, "js")
	}
	return out
}

func experienceScore(userYears float64, requiredYears int) float64 {
	if requiredYears <= 0 || userYears >= float64(requiredYears) {
		return 100
	}
	if userYears <= 0 {
		return 0
	}
	return userYears / float64(requiredYears) * 100
}

func (s *Scorer) locationScore(user *models.UserProfile, job *models.Job) float64 {
	if job.Remote || user.Preferences.RemoteWork {
		return 100
	}
	if user.Coordinates == nil || job.Coordinates == nil {
		return neutralScore
	}

	radius := user.Preferences.MaxRadius
	if radius <= 0 {
		radius = s.defaultRadius
	}
	d := Distance(*user.Coordinates, *job.Coordinates)
	if d > radius {
		return 0
	}
	return math.Max(0, 100-d/radius*100)
}

func educationScore(user, required models.EducationLevel) float64 {
	need := EducationRank(required)
	if need == 0 {
		return neutralScore
	}
	have := EducationRank(user)
	if have >= need {
		return 100
	}
	return float64(have) / float64(need) * 100
}

// EducationRank orders education levels from 1 (high school) to 5 (PhD).
// Unknown or unspecified levels rank 0.
func EducationRank(level models.EducationLevel) int {
	l := strings.ToLower(string(level))
	switch {
	case strings.Contains(l, "phd"), strings.Contains(l, "doctor"):
		return 5
	case strings.Contains(l, "master"):
		return 4
	case strings.Contains(l, "bachelor"):
		return 3
	case strings.Contains(l, "associate"):
		return 2
	case strings.Contains(l, "high school"), strings.Contains(l, "ged"):
		return 1
	default:
		return 0
	}
}

// keywordsScore is the share of preferred keywords found in the job text.
func keywordsScore(keywords []string, job *models.Job) float64 {
	if len(keywords) == 0 {
		return neutralScore
	}
	text := strings.ToLower(job.Title + " " + job.Description + " " + strings.Join(job.RequiredSkills, " "))

	found := 0
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(text, k) {
			found++
		}
	}
	return float64(found) / float64(len(keywords)) * 100
}

func benefitsScore(preferred, offered []string) float64 {
	if len(preferred) == 0 {
		return neutralScore
	}
	have := make(map[string]struct{}, len(offered))
	for _, b := range offered {
		have[strings.ToLower(b)] = struct{}{}
	}

	found := 0
	for _, p := range preferred {
		if _, ok := have[strings.ToLower(p)]; ok {
			found++
		}
	}
	return float64(found) / float64(len(preferred)) * 100
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
