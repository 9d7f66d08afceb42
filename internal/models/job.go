// internal/models/job.go
package models

import "time"

type JobType string

const (
	JobTypeFullTime       JobType = "Full-time"
	JobTypePartTime       JobType = "Part-time"
	JobTypeContract       JobType = "Contract"
	JobTypeContractToHire JobType = "Contract-to-hire"
)

// JobTypes lists every job type accepted by filters, in display order.
var JobTypes = []JobType{JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeContractToHire}

type ExperienceLevel string

const (
	ExperienceEntry        ExperienceLevel = "Entry"
	ExperienceJunior       ExperienceLevel = "Junior"
	ExperienceMid          ExperienceLevel = "Mid-level"
	ExperienceSenior       ExperienceLevel = "Senior"
	ExperienceExecutive    ExperienceLevel = "Executive"
	ExperienceNotSpecified ExperienceLevel = "Not Specified"
)

type EducationLevel string

const (
	EducationHighSchool   EducationLevel = "High School"
	EducationAssociates   EducationLevel = "Associates"
	EducationBachelors    EducationLevel = "Bachelors"
	EducationMasters      EducationLevel = "Masters"
	EducationPhD          EducationLevel = "PhD"
	EducationNotSpecified EducationLevel = "Not Specified"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Salary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Job is the canonical job record produced by the feed parser.
type Job struct {
	ID              string          `json:"id"`
	ExternalID      string          `json:"externalId"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	Coordinates     *Coordinates    `json:"coordinates,omitempty"`
	JobType         JobType         `json:"jobType"`
	Remote          bool            `json:"remote"`
	Description     string          `json:"description"`
	RequiredSkills  []string        `json:"requiredSkills"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	YearsRequired   int             `json:"yearsRequired"`
	Education       EducationLevel  `json:"education"`
	Benefits        []string        `json:"benefits"`
	Salary          *Salary         `json:"salary,omitempty"`
	SalaryText      string          `json:"salaryText,omitempty"`
	Category        string          `json:"category,omitempty"`
	Department      string          `json:"department,omitempty"`
	PostedDate      time.Time       `json:"postedDate"`
	URL             string          `json:"url,omitempty"`
	ApplyURL        string          `json:"applyUrl,omitempty"`
	Source          string          `json:"source,omitempty"`
	IsActive        bool            `json:"isActive"`
}
