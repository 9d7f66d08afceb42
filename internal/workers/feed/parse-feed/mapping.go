// internal/workers/feed/parse-feed/mapping.go
package parsefeed

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jobmatch-workers/internal/common/textsignal"
	"jobmatch-workers/internal/models"
)

var (
	ErrMissingIdentifier = errors.New("MISSING_IDENTIFIER")

	payRatePattern  = regexp.MustCompile(`\$([\d,]+(?:\.\d{2})?)\s*-\s*\$([\d,]+(?:\.\d{2})?)`)
	wpImagePattern  = regexp.MustCompile(`src=["'](/wp-content[^"']+)["']`)
	listSplitter    = regexp.MustCompile(`[,;|]`)
	postDateLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"01/02/2006 15:04:05",
		"1/2/2006 3:04:05 PM",
		"01/02/2006",
		"1/2/2006",
		time.RFC1123Z,
		time.RFC1123,
	}
)

// Field aliases, first non-empty wins. Lookups are case-insensitive, so the
// CamelCase and lower-case dialects share most names.
var (
	directIDFields   = []string{"Jobid", "JobID", "id"}
	referenceFields  = []string{"JobReqID", "referenceid", "referencenumber"}
	titleFields      = []string{"JobTitle", "title"}
	companyFields    = []string{"Company", "CompanyName"}
	cityFields       = []string{"PhyCity", "city"}
	stateFields      = []string{"PhyState", "state"}
	locationFields   = []string{"location", "JobLocation"}
	categoryFields   = []string{"category", "JobCategory"}
	departmentFields = []string{"Department"}
	payFields        = []string{"TargetedPayRate", "PayRate", "salary", "compensation"}
	bodyFields       = []string{"JobBody", "JobDescription", "description"}
	remoteFields     = []string{"RemoteWork", "remote", "IsRemote"}
	typeFields       = []string{"EmploymentType", "JobType", "employmenttype", "type"}
	levelFields      = []string{"JobLevel", "ExperienceLevel"}
	yearsFields      = []string{"YearsExperience", "YearsRequired"}
	educationFields  = []string{"Education", "EducationLevel"}
	postDateFields   = []string{"JobPostDate", "PostedDate", "date"}
	urlFields        = []string{"JobURL", "url"}
	applyFields      = []string{"ApplyOnlineURL", "ApplyURL"}
	latitudeFields   = []string{"Latitude", "lat"}
	longitudeFields  = []string{"Longitude", "lng", "lon"}
)

// mapper turns one job element into a canonical Job.
type mapper struct {
	config *Config
}

func (m *mapper) reference(n *Node) string {
	if ref, _ := n.field(directIDFields...); ref != "" {
		return ref
	}
	if ref, _ := n.field(referenceFields...); ref != "" {
		return ref
	}
	return ""
}

func (m *mapper) mapJob(n *Node) (models.Job, error) {
	var job models.Job

	id, err := n.field(directIDFields...)
	if err != nil {
		return job, err
	}
	if id == "" {
		ref, err := n.field(referenceFields...)
		if err != nil {
			return job, err
		}
		if ref == "" {
			return job, ErrMissingIdentifier
		}
		id = ref
		if m.config.IDPrefix != "" {
			id = m.config.IDPrefix + "-" + ref
		}
	}
	job.ID = id
	job.ExternalID = id

	if job.Title, err = n.field(titleFields...); err != nil {
		return job, err
	}
	if job.Title == "" {
		job.Title = "Untitled Position"
	}

	if job.Company, err = n.field(companyFields...); err != nil {
		return job, err
	}
	if job.Company == "" {
		job.Company = m.config.SourceName
	}

	if job.Location, err = m.location(n); err != nil {
		return job, err
	}
	if job.Coordinates, err = coordinates(n); err != nil {
		return job, err
	}

	if job.Category, err = m.category(n); err != nil {
		return job, err
	}
	if job.Department, err = n.field(departmentFields...); err != nil {
		return job, err
	}
	if job.Department == "" {
		job.Department = job.Category
	}

	pay, err := n.field(payFields...)
	if err != nil {
		return job, err
	}
	job.Salary = ParsePayRate(pay)
	if job.Salary == nil {
		job.SalaryText = pay
	}

	body := firstChild(n, bodyFields...)
	job.Description = RewriteImageSources(body.Markup(), m.config.ImageBaseURL)
	text := job.Description

	remote, err := n.field(remoteFields...)
	if err != nil {
		return job, err
	}
	if flag, ok := parseFlag(remote); ok {
		job.Remote = flag
	} else {
		job.Remote = textsignal.ParseRemote(text, job.Location)
	}

	jobType, err := n.field(typeFields...)
	if err != nil {
		return job, err
	}
	job.JobType = textsignal.ParseJobType(jobType)

	level, err := n.field(levelFields...)
	if err != nil {
		return job, err
	}
	if lvl, ok := textsignal.NormalizeExperienceLevel(level); ok {
		job.ExperienceLevel = lvl
	} else {
		job.ExperienceLevel = textsignal.DetermineExperienceLevel(job.Title, text)
	}

	years, present, err := n.number(yearsFields...)
	if err != nil {
		return job, err
	}
	if present {
		if years < 0 {
			years = 0
		}
		job.YearsRequired = int(years)
	} else {
		job.YearsRequired = textsignal.ExtractYearsRequired(text)
	}

	education, err := n.field(educationFields...)
	if err != nil {
		return job, err
	}
	job.Education = textsignal.ExtractEducation(education)
	if job.Education == models.EducationNotSpecified {
		job.Education = textsignal.ExtractEducation(text)
	}

	if skills := list(n, "Skills", "Skill"); len(skills) > 0 {
		job.RequiredSkills = textsignal.UniqueFold(skills)
	} else {
		job.RequiredSkills = textsignal.ExtractSkills(text)
	}
	if benefits := list(n, "Benefits", "Benefit"); len(benefits) > 0 {
		job.Benefits = textsignal.UniqueFold(benefits)
	} else {
		job.Benefits = textsignal.ExtractBenefits(text)
	}

	posted, err := n.field(postDateFields...)
	if err != nil {
		return job, err
	}
	job.PostedDate = ParsePostDate(posted)

	if job.URL, err = n.field(urlFields...); err != nil {
		return job, err
	}
	if job.ApplyURL, err = n.field(applyFields...); err != nil {
		return job, err
	}
	if job.ApplyURL == "" {
		job.ApplyURL = job.URL
	}
	if job.URL == "" {
		job.URL = job.ApplyURL
	}

	job.Source = m.config.SourceName
	job.IsActive = true
	return job, nil
}

// location prefers a nested JobLocations/Location entry, then flat
// city/state fields, then a free-text location.
func (m *mapper) location(n *Node) (string, error) {
	if locs := n.Child("JobLocations"); locs != nil {
		if entries := locs.ChildrenNamed("Location"); len(entries) > 0 {
			city, err := entries[0].field("City")
			if err != nil {
				return "", err
			}
			state, err := entries[0].field("State")
			if err != nil {
				return "", err
			}
			if loc := joinCityState(city, state); loc != "" {
				return loc, nil
			}
		}
	}

	city, err := n.field(cityFields...)
	if err != nil {
		return "", err
	}
	state, err := n.field(stateFields...)
	if err != nil {
		return "", err
	}
	if loc := joinCityState(city, state); loc != "" {
		return loc, nil
	}

	if loc, err := n.field(locationFields...); err != nil || loc != "" {
		return loc, err
	}
	return "Location not specified", nil
}

func (m *mapper) category(n *Node) (string, error) {
	if cats := n.Child("JobCategories"); cats != nil {
		entries := cats.ChildrenNamed("Category")
		if len(entries) == 0 {
			return cats.Text(), nil
		}
		if entries[0].IsLeaf() {
			return entries[0].Text(), nil
		}
		return entries[0].field("JobCategoryDesc", "Description", "Name")
	}
	return n.field(categoryFields...)
}

func joinCityState(city, state string) string {
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	}
	return state
}

// coordinates reads a nested coordinates element or flat latitude and
// longitude fields. Both values must be numeric when present.
func coordinates(n *Node) (*models.Coordinates, error) {
	src := n
	if c := n.Child("coordinates"); c != nil {
		src = c
	}
	lat, hasLat, err := src.number(latitudeFields...)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lng, hasLng, err := src.number(longitudeFields...)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	if !hasLat || !hasLng {
		return nil, nil
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: coordinates %v,%v out of range", ErrNotNumeric, lat, lng)
	}
	return &models.Coordinates{Latitude: lat, Longitude: lng}, nil
}

func firstChild(n *Node, names ...string) *Node {
	for _, name := range names {
		if c := n.Child(name); c != nil && (c.Text() != "" || !c.IsLeaf()) {
			return c
		}
	}
	return nil
}

// list reads <Skills><Skill>a</Skill>...</Skills> or a delimited scalar.
func list(n *Node, container, item string) []string {
	c := n.Child(container)
	if c == nil {
		return nil
	}
	var out []string
	if items := c.ChildrenNamed(item); len(items) > 0 {
		for _, it := range items {
			if v := it.Text(); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	for _, part := range listSplitter.Split(c.Text(), -1) {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseFlag(raw string) (bool, bool) {
	switch v := Coerce(raw).(type) {
	case bool:
		return v, true
	case int64:
		return v != 0, true
	case string:
		switch strings.ToLower(v) {
		case "yes", "y":
			return true, true
		case "no", "n":
			return false, true
		}
	}
	return false, false
}

// ParsePayRate extracts a "$X - $Y" range in USD.
func ParsePayRate(raw string) *models.Salary {
	m := payRatePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	lo, err1 := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	hi, err2 := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &models.Salary{Min: lo, Max: hi, Currency: "USD"}
}

// RewriteImageSources makes /wp-content image paths absolute under base.
// All other markup is returned unchanged.
func RewriteImageSources(html, base string) string {
	if base == "" || html == "" {
		return html
	}
	repl := `src="` + strings.ReplaceAll(strings.TrimRight(base, "/"), "$", "$$") + `${1}"`
	return wpImagePattern.ReplaceAllString(html, repl)
}

// ParsePostDate accepts the date layouts seen in feeds. Unparseable or empty
// values yield the zero time.
func ParsePostDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range postDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
