// internal/models/user.go
package models

type Skill struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

type Experience struct {
	Title   string  `json:"title"`
	Company string  `json:"company,omitempty"`
	Years   float64 `json:"years"`
}

type Preferences struct {
	JobTypes   []JobType `json:"jobTypes,omitempty"`
	RemoteWork bool      `json:"remoteWork"`
	MaxRadius  float64   `json:"maxRadius,omitempty"` // miles
	Keywords   []string  `json:"keywords,omitempty"`
	Benefits   []string  `json:"benefits,omitempty"`
}

// UserProfile is read-only input to search and scoring.
type UserProfile struct {
	ID          string         `json:"id,omitempty"`
	Skills      []Skill        `json:"skills"`
	Experience  []Experience   `json:"experience"`
	Education   EducationLevel `json:"education"`
	Location    string         `json:"location,omitempty"`
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
	Role        string         `json:"role"`
	Preferences Preferences    `json:"preferences"`
}

// EffectiveYears is the largest years value across experience entries.
func (u *UserProfile) EffectiveYears() float64 {
	var years float64
	for _, e := range u.Experience {
		if e.Years > years {
			years = e.Years
		}
	}
	return years
}

// SkillNames returns the profile's skill names in order.
func (u *UserProfile) SkillNames() []string {
	names := make([]string, 0, len(u.Skills))
	for _, s := range u.Skills {
		names = append(names, s.Name)
	}
	return names
}
