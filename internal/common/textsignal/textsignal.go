// Package textsignal mines free-text job descriptions for structured signals.
// Every function is a pure mapping from text to value.
//
// Matching is plain case-insensitive substring containment with no word
// boundaries, so short dictionary entries such as "AI" or "ms" also hit
// inside longer words.
package textsignal

import (
	"regexp"
	"strconv"
	"strings"

	"jobmatch-workers/internal/models"
)

// Skills is the canonical skill dictionary, in match order.
var Skills = []string{
	"JavaScript", "React", "Node.js", "Python", "Java", "SQL", "AWS", "Docker", "Git",
	"HTML/CSS", "MongoDB", "REST APIs", "GraphQL", "TypeScript", "Vue.js",
	"Angular", "PostgreSQL", "Redis", "Kubernetes", "C#", ".NET",
	"Project Management", "Agile", "Scrum", "JIRA", "Confluence",
	"Data Analysis", "Machine Learning", "AI", "Cloud Computing",
	"DevOps", "CI/CD", "Microservices", "System Design",
	"Manufacturing", "Engineering", "Quality Control", "Production",
	"Assembly", "CNC", "Welding", "Machining", "Industrial",
	"Maintenance", "Electrical", "Mechanical", "Technical",
	"Customer Service", "Administrative", "Office", "Reception",
	"Data Entry", "Accounting", "Finance", "HR", "Marketing",
	"Sales", "Retail", "Warehouse", "Logistics", "Supply Chain",
}

type keywordSet struct {
	label    string
	keywords []string
}

// educationLevels is ordered by priority: the first level with a hit wins.
var educationLevels = []keywordSet{
	{string(models.EducationPhD), []string{"phd", "doctorate", "doctoral"}},
	{string(models.EducationMasters), []string{"masters", "ms", "ma", "mba"}},
	{string(models.EducationBachelors), []string{"bachelors", "bs", "ba", "b.s.", "b.a."}},
	{string(models.EducationAssociates), []string{"associates", "aa", "a.s.", "a.a."}},
}

var benefitCategories = []keywordSet{
	{"Health Insurance", []string{"health insurance", "medical", "dental", "vision"}},
	{"401(k)", []string{"401k", "retirement", "pension"}},
	{"Paid Time Off", []string{"pto", "vacation", "paid time off", "paid leave"}},
	{"Remote Work", []string{"remote", "work from home", "wfh"}},
	{"Flexible Schedule", []string{"flexible schedule", "flexible hours"}},
	{"Professional Development", []string{"professional development", "training", "education"}},
	{"Life Insurance", []string{"life insurance"}},
	{"Disability Insurance", []string{"disability insurance"}},
	{"Stock Options", []string{"stock options", "equity"}},
	{"Gym Membership", []string{"gym", "fitness"}},
	{"Child Care", []string{"child care", "daycare"}},
	{"Commuter Benefits", []string{"commuter", "transit"}},
}

// BenefitCategories returns the canonical benefit labels in dictionary order.
func BenefitCategories() []string {
	out := make([]string, len(benefitCategories))
	for i, b := range benefitCategories {
		out[i] = b.label
	}
	return out
}

var remoteMarkers = []string{"remote", "work from home", "wfh"}

var yearsPattern = regexp.MustCompile(`(?i)(\d+)\+?\s*(?:years?|yrs?)(?:\s+of)?\s+experience`)

// ExtractSkills returns the dictionary labels found in text, in dictionary order.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, skill := range Skills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return UniqueFold(found)
}

// ExtractYearsRequired returns the first "N years of experience" count, or 0.
func ExtractYearsRequired(text string) int {
	m := yearsPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ExtractEducation returns the highest-priority education level mentioned.
func ExtractEducation(text string) models.EducationLevel {
	lower := strings.ToLower(text)
	for _, lvl := range educationLevels {
		if containsAny(lower, lvl.keywords) {
			return models.EducationLevel(lvl.label)
		}
	}
	return models.EducationNotSpecified
}

// ExtractBenefits returns every benefit category with at least one keyword hit.
func ExtractBenefits(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	for _, b := range benefitCategories {
		if containsAny(lower, b.keywords) {
			found = append(found, b.label)
		}
	}
	return found
}

// DetermineExperienceLevel looks at the title first and falls back to the
// description; anything inconclusive is Mid-level.
func DetermineExperienceLevel(title, description string) models.ExperienceLevel {
	t := strings.ToLower(title)
	switch {
	case containsAny(t, []string{"senior", "lead", "principal"}):
		return models.ExperienceSenior
	case containsAny(t, []string{"junior", "entry"}):
		return models.ExperienceJunior
	}

	d := strings.ToLower(description)
	switch {
	case containsAny(d, []string{"senior level", "leadership"}):
		return models.ExperienceSenior
	case containsAny(d, []string{"entry level", "junior"}):
		return models.ExperienceJunior
	}
	return models.ExperienceMid
}

// NormalizeExperienceLevel maps a feed-supplied level label onto the enum.
// ok is false when the label is not recognizable.
func NormalizeExperienceLevel(label string) (models.ExperienceLevel, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "":
		return models.ExperienceNotSpecified, false
	case containsAny(l, []string{"executive", "director", "vice president", "vp", "chief"}):
		return models.ExperienceExecutive, true
	case containsAny(l, []string{"senior", "lead", "principal", "expert"}):
		return models.ExperienceSenior, true
	case containsAny(l, []string{"junior", "associate"}):
		return models.ExperienceJunior, true
	case containsAny(l, []string{"entry", "intern", "graduate", "trainee"}):
		return models.ExperienceEntry, true
	case containsAny(l, []string{"mid", "intermediate", "experienced"}):
		return models.ExperienceMid, true
	case l == "not specified":
		return models.ExperienceNotSpecified, true
	}
	return models.ExperienceNotSpecified, false
}

// ParseRemote reports whether description or location advertises remote work.
func ParseRemote(description, location string) bool {
	combined := strings.ToLower(description + " " + location)
	return containsAny(combined, remoteMarkers)
}

// ParseJobType normalizes an employment type label. Unknown or empty labels
// are Full-time.
func ParseJobType(label string) models.JobType {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "part") || strings.Contains(l, "pt"):
		return models.JobTypePartTime
	case strings.Contains(l, "contract") && strings.Contains(l, "hire"):
		return models.JobTypeContractToHire
	case strings.Contains(l, "contract"):
		return models.JobTypeContract
	}
	return models.JobTypeFullTime
}

// UniqueFold drops case-insensitive duplicates and blanks, keeping the first
// spelling of each value.
func UniqueFold(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
