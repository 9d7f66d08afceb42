// internal/workers/matching/search-jobs/keywords.go
package searchjobs

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"jobmatch-workers/internal/models"
)

// Points per match kind, summed over every expanded term.
const (
	pointsTitleExact       = 4
	pointsTitlePartial     = 3
	pointsSkillExact       = 3
	pointsSkillPartial     = 2
	pointsDescriptionWord  = 2
	pointsDescriptionMatch = 1
	pointsFuzzy            = 1
)

// keywordScorer holds one job's lowered fields so each term is compared
// without re-folding.
type keywordScorer struct {
	title       string
	skills      []string
	description string
	fuzzy       int
}

func newKeywordScorer(job *models.Job, fuzzy int) *keywordScorer {
	skills := make([]string, len(job.RequiredSkills))
	for i, s := range job.RequiredSkills {
		skills[i] = strings.ToLower(s)
	}
	return &keywordScorer{
		title:       strings.ToLower(strings.TrimSpace(job.Title)),
		skills:      skills,
		description: strings.ToLower(job.Description),
		fuzzy:       fuzzy,
	}
}

func (k *keywordScorer) score(terms []string) int {
	total := 0
	for _, term := range terms {
		total += k.scoreTerm(term)
	}
	return total
}

func (k *keywordScorer) scoreTerm(term string) int {
	points := 0

	switch {
	case k.title == term:
		points += pointsTitleExact
	case strings.Contains(k.title, term):
		points += pointsTitlePartial
	}

	exactSkill, partialSkill, fuzzySkill := false, false, false
	for _, s := range k.skills {
		switch {
		case s == term:
			exactSkill = true
		case strings.Contains(s, term):
			partialSkill = true
		}
		if !fuzzySkill && withinDistance(s, term, k.fuzzy) {
			fuzzySkill = true
		}
	}
	switch {
	case exactSkill:
		points += pointsSkillExact
	case partialSkill:
		points += pointsSkillPartial
	}

	switch {
	case containsWord(k.description, term):
		points += pointsDescriptionWord
	case strings.Contains(k.description, term):
		points += pointsDescriptionMatch
	}

	if withinDistance(k.title, term, k.fuzzy) {
		points += pointsFuzzy
	}
	if fuzzySkill {
		points += pointsFuzzy
	}
	return points
}

// containsWord reports whether term occurs in text bounded by
// non-alphanumeric runes or the ends of text.
func containsWord(text, term string) bool {
	if term == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(text[start:], term)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(term)
		if boundaryBefore(text, i) && boundaryAfter(text, end) {
			return true
		}
		start = i + 1
	}
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
