// pkg/taxonomy/registry.go
package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Load reads a taxonomy document from path and validates it.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates data against the taxonomy document schema and decodes it.
func Parse(data []byte) (*Taxonomy, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("taxonomy: invalid document: %s", strings.Join(msgs, "; "))
	}

	var t Taxonomy
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}
	t.index()
	return &t, nil
}

// index builds lowercased synonym lookups in both directions.
func (t *Taxonomy) index() {
	keys := make([]string, 0, len(t.Synonyms))
	for key := range t.Synonyms {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	t.forward = make(map[string][]string, len(keys))
	t.reverse = make(map[string][]string)
	for _, key := range keys {
		k := strings.ToLower(key)
		for _, alt := range t.Synonyms[key] {
			a := strings.ToLower(alt)
			t.forward[k] = append(t.forward[k], a)
			t.reverse[a] = append(t.reverse[a], k)
		}
	}
}

// FindRole returns the first canonical role whose title appears inside text.
func (t *Taxonomy) FindRole(text string) (RoleInfo, bool) {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return RoleInfo{}, false
	}
	for _, c := range t.Categories {
		for _, s := range c.Subcategories {
			for _, r := range s.Roles {
				if strings.Contains(lower, strings.ToLower(r)) {
					return RoleInfo{Category: c.Name, Subcategory: s.Name, Role: r}, true
				}
			}
		}
	}
	return RoleInfo{}, false
}

// IsRoleMatch reports whether the user's role and the job share a category
// and subcategory. Roles in a cross-match category match any other role in
// that same category. The job is located by title, then by category label.
func (t *Taxonomy) IsRoleMatch(userRole, jobTitle, jobCategory string) bool {
	user, ok := t.FindRole(userRole)
	if !ok {
		return false
	}
	job, ok := t.FindRole(jobTitle)
	if !ok {
		job, ok = t.FindRole(jobCategory)
		if !ok {
			return false
		}
	}

	if user.Category == job.Category && user.Subcategory == job.Subcategory {
		return true
	}
	return user.Category == job.Category && t.isCrossMatch(user.Category)
}

func (t *Taxonomy) isCrossMatch(category string) bool {
	for _, c := range t.CrossMatchCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ExpandTerm returns term plus its synonyms in both directions, lowercased
// and deduplicated, term first.
func (t *Taxonomy) ExpandTerm(term string) []string {
	base := strings.ToLower(strings.TrimSpace(term))
	if base == "" {
		return nil
	}

	out := []string{base}
	seen := map[string]bool{base: true}
	add := func(v string) {
		v = strings.ToLower(v)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	for _, a := range t.forward[base] {
		add(a)
	}
	for _, key := range t.reverse[base] {
		add(key)
	}
	return out
}

// RolesIn returns every role of category, or of one subcategory when given.
func (t *Taxonomy) RolesIn(category, subcategory string) []string {
	var roles []string
	for _, c := range t.Categories {
		if c.Name != category {
			continue
		}
		for _, s := range c.Subcategories {
			if subcategory == "" || s.Name == subcategory {
				roles = append(roles, s.Roles...)
			}
		}
	}
	return roles
}
