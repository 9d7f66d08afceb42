package textsignal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jobmatch-workers/internal/models"
)

func TestExtractSkills(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "canonical casing returned",
			text: "experience with python and postgresql required",
			want: []string{"Python", "SQL", "PostgreSQL"},
		},
		{
			name: "duplicates in text counted once",
			text: "AWS, aws and more Aws",
			want: []string{"AWS"},
		},
		{
			name: "substring hits are accepted",
			text: "must maintain equipment",
			want: []string{"AI"},
		},
		{
			name: "nothing found",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSkills(tt.text))
		})
	}
}

func TestExtractSkills_Deterministic(t *testing.T) {
	text := "React, Node.js, Docker and Kubernetes on AWS"
	first := ExtractSkills(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ExtractSkills(text))
	}
}

func TestExtractYearsRequired(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Requires 5+ years of experience in sales", 5},
		{"3 yrs experience preferred", 3},
		{"At least 10 Years Experience", 10},
		{"2 years of experience, ideally 4 years of experience", 2},
		{"years of experience matter", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractYearsRequired(tt.text))
		})
	}
}

func TestExtractEducation(t *testing.T) {
	tests := []struct {
		text string
		want models.EducationLevel
	}{
		{"PhD in chemistry", models.EducationPhD},
		{"MBA preferred, bachelors required", models.EducationMasters},
		{"Bachelors degree", models.EducationBachelors},
		{"B.S. in biology", models.EducationBachelors},
		{"AA degree", models.EducationAssociates},
		{"no degree needed", models.EducationNotSpecified},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEducation(tt.text))
		})
	}
}

func TestExtractBenefits(t *testing.T) {
	got := ExtractBenefits("We offer medical and dental, 401k, PTO, and a gym.")
	assert.Equal(t, []string{"Health Insurance", "401(k)", "Paid Time Off", "Gym Membership"}, got)
	assert.Empty(t, ExtractBenefits("nothing here"))
	assert.Len(t, BenefitCategories(), 12)
}

func TestDetermineExperienceLevel(t *testing.T) {
	tests := []struct {
		title       string
		description string
		want        models.ExperienceLevel
	}{
		{"Senior Accountant", "", models.ExperienceSenior},
		{"Team Lead", "entry level", models.ExperienceSenior},
		{"Junior Developer", "", models.ExperienceJunior},
		{"Entry Clerk", "", models.ExperienceJunior},
		{"Accountant", "a senior level role", models.ExperienceSenior},
		{"Accountant", "shows leadership", models.ExperienceSenior},
		{"Accountant", "entry level role", models.ExperienceJunior},
		{"Accountant", "general ledger", models.ExperienceMid},
	}

	for _, tt := range tests {
		t.Run(tt.title+"/"+tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineExperienceLevel(tt.title, tt.description))
		})
	}
}

func TestNormalizeExperienceLevel(t *testing.T) {
	tests := []struct {
		label string
		want  models.ExperienceLevel
		ok    bool
	}{
		{"Executive", models.ExperienceExecutive, true},
		{"Senior Level", models.ExperienceSenior, true},
		{"Entry Level", models.ExperienceEntry, true},
		{"Mid Career", models.ExperienceMid, true},
		{"", models.ExperienceNotSpecified, false},
		{"Level 7", models.ExperienceNotSpecified, false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := NormalizeExperienceLevel(tt.label)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseRemote(t *testing.T) {
	assert.True(t, ParseRemote("This is a Remote position", ""))
	assert.True(t, ParseRemote("", "WFH"))
	assert.True(t, ParseRemote("Work From Home available", "Troy, MI"))
	assert.False(t, ParseRemote("On-site only", "Troy, MI"))
}

func TestParseJobType(t *testing.T) {
	tests := []struct {
		label string
		want  models.JobType
	}{
		{"Part-time", models.JobTypePartTime},
		{"PT", models.JobTypePartTime},
		{"Contract to Hire", models.JobTypeContractToHire},
		{"Contract", models.JobTypeContract},
		{"Full Time", models.JobTypeFullTime},
		{"", models.JobTypeFullTime},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseJobType(tt.label))
		})
	}
}

func TestUniqueFold(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, UniqueFold([]string{"Go", " go ", "", "SQL", "sql"}))
}
