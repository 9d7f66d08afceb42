// pkg/taxonomy/schema.go
package taxonomy

// Taxonomy is an occupational classification (category → subcategory →
// canonical role titles) plus the synonym table used for query expansion.
// Slices keep declaration order, which decides the first match.
type Taxonomy struct {
	Version              string              `json:"version"`
	LastUpdated          string              `json:"lastUpdated,omitempty"`
	Categories           []Category          `json:"categories"`
	CrossMatchCategories []string            `json:"crossMatchCategories,omitempty"`
	Synonyms             map[string][]string `json:"synonyms,omitempty"`

	forward map[string][]string
	reverse map[string][]string
}

type Category struct {
	Name          string        `json:"name"`
	Subcategories []Subcategory `json:"subcategories"`
}

type Subcategory struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

// RoleInfo locates a canonical role inside the taxonomy.
type RoleInfo struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Role        string `json:"role"`
}

const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["version", "categories"],
  "properties": {
    "version": {"type": "string", "minLength": 1},
    "lastUpdated": {"type": "string"},
    "categories": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "subcategories"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "subcategories": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["name", "roles"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "roles": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}}
              }
            }
          }
        }
      }
    },
    "crossMatchCategories": {"type": "array", "items": {"type": "string"}},
    "synonyms": {
      "type": "object",
      "additionalProperties": {"type": "array", "items": {"type": "string", "minLength": 1}}
    }
  }
}`
