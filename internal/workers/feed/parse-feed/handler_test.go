// internal/workers/feed/parse-feed/handler_test.go
package parsefeed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "jobmatch-workers/internal/common/errors"
	"jobmatch-workers/internal/common/logger"
	"jobmatch-workers/internal/models"
)

const kellyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<Jobs>
  <Job Jobid="1001">
    <JobTitle>Senior Software Engineer</JobTitle>
    <JobLocations><Location><City>Troy</City><State>MI</State></Location></JobLocations>
    <JobCategories><Category><JobCategoryDesc>Information Technology</JobCategoryDesc></Category></JobCategories>
    <TargetedPayRate>$45.00 - $60.00 per hour</TargetedPayRate>
    <EmploymentType>Contract to Hire</EmploymentType>
    <JobBody><![CDATA[<p>Build services in Python and SQL on AWS. Requires 5+ years of experience and a Bachelors degree. Medical and 401k.</p><img src="/wp-content/uploads/logo.png">]]></JobBody>
    <JobPostDate>2024-03-01</JobPostDate>
    <ApplyOnlineURL>https://apply.example.com/1001</ApplyOnlineURL>
  </Job>
  <Job>
    <JobReqID>778</JobReqID>
    <PhyCity>Austin</PhyCity>
    <PhyState>TX</PhyState>
    <RemoteWork>true</RemoteWork>
    <JobBody>Entry level warehouse role.</JobBody>
  </Job>
  <Job Jobid="1003">
    <JobTitle>Office Clerk</JobTitle>
    <JobBody>Data entry. Work from home available.</JobBody>
  </Job>
</Jobs>`

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewZapAdapter(zaptest.NewLogger(t)))
}

func TestHandler_Execute_KellyFeed(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{Payload: []byte(kellyFeed)})
	require.NoError(t, err)
	require.Len(t, out.Jobs, 3)
	assert.Empty(t, out.Failures)
	assert.Equal(t, "jobs", out.Dialect)

	first := out.Jobs[0]
	assert.Equal(t, "1001", first.ID)
	assert.Equal(t, "1001", first.ExternalID)
	assert.Equal(t, "Senior Software Engineer", first.Title)
	assert.Equal(t, "Kelly Services", first.Company)
	assert.Equal(t, "Troy, MI", first.Location)
	assert.Equal(t, "Information Technology", first.Category)
	assert.Equal(t, "Information Technology", first.Department)
	assert.Equal(t, &models.Salary{Min: 45, Max: 60, Currency: "USD"}, first.Salary)
	assert.Equal(t, models.JobTypeContractToHire, first.JobType)
	assert.Equal(t, models.ExperienceSenior, first.ExperienceLevel)
	assert.Equal(t, 5, first.YearsRequired)
	assert.Equal(t, models.EducationBachelors, first.Education)
	assert.Contains(t, first.RequiredSkills, "Python")
	assert.Contains(t, first.RequiredSkills, "AWS")
	assert.Contains(t, first.Benefits, "Health Insurance")
	assert.Contains(t, first.Benefits, "401(k)")
	assert.Contains(t, first.Description, `src="https://www.mykelly.com/wp-content/uploads/logo.png"`)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.PostedDate)
	assert.Equal(t, "https://apply.example.com/1001", first.ApplyURL)
	assert.Equal(t, "https://apply.example.com/1001", first.URL)
	assert.False(t, first.Remote)
	assert.True(t, first.IsActive)

	second := out.Jobs[1]
	assert.Equal(t, "kelly-778", second.ExternalID)
	assert.Equal(t, "Untitled Position", second.Title)
	assert.Equal(t, "Austin, TX", second.Location)
	assert.True(t, second.Remote)
	assert.Equal(t, models.ExperienceJunior, second.ExperienceLevel)
	assert.Equal(t, models.JobTypeFullTime, second.JobType)
	assert.Nil(t, second.Salary)

	third := out.Jobs[2]
	assert.Equal(t, "Location not specified", third.Location)
	assert.True(t, third.Remote, "derived from description")
}

func TestHandler_Execute_SourceDialect(t *testing.T) {
	h := newTestHandler(t)
	payload := `<source>
  <job>
    <id>src-1</id>
    <title>Registered Nurse</title>
    <company>Mercy Health</company>
    <city>Toledo</city>
    <state>OH</state>
    <type>Part-time</type>
    <salary>Competitive</salary>
    <description>Care for patients.</description>
    <coordinates><latitude>41.6528</latitude><longitude>-83.5379</longitude></coordinates>
    <Skills><Skill>Patient Care</Skill><Skill>patient care</Skill><Skill>EMR</Skill></Skills>
    <url>https://jobs.example.com/src-1</url>
    <date>2024-02-10T08:30:00Z</date>
  </job>
</source>`

	out, err := h.Execute(context.Background(), &Input{Payload: []byte(payload)})
	require.NoError(t, err)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, "source", out.Dialect)

	job := out.Jobs[0]
	assert.Equal(t, "src-1", job.ExternalID)
	assert.Equal(t, "Mercy Health", job.Company)
	assert.Equal(t, "Toledo, OH", job.Location)
	assert.Equal(t, models.JobTypePartTime, job.JobType)
	assert.Nil(t, job.Salary)
	assert.Equal(t, "Competitive", job.SalaryText)
	require.NotNil(t, job.Coordinates)
	assert.InDelta(t, 41.6528, job.Coordinates.Latitude, 1e-9)
	assert.Equal(t, []string{"Patient Care", "EMR"}, job.RequiredSkills)
	assert.Equal(t, "https://jobs.example.com/src-1", job.ApplyURL)
}

func TestHandler_Execute_MalformedJobIsolated(t *testing.T) {
	h := newTestHandler(t)
	payload := `<Jobs>
  <Job Jobid="a"><JobTitle>One</JobTitle></Job>
  <Job Jobid="b"><JobTitle>Two</JobTitle><Latitude>north</Latitude><Longitude>-80</Longitude></Job>
  <Job Jobid="c"><JobTitle>Three</JobTitle></Job>
</Jobs>`

	out, err := h.Execute(context.Background(), &Input{Payload: []byte(payload)})
	require.NoError(t, err)
	require.Len(t, out.Jobs, 2)
	assert.Equal(t, "a", out.Jobs[0].ID)
	assert.Equal(t, "c", out.Jobs[1].ID)

	require.Len(t, out.Failures, 1)
	assert.Equal(t, 1, out.Failures[0].Index)
	assert.Equal(t, "b", out.Failures[0].Ref)
	assert.Contains(t, out.Failures[0].Error, "latitude")
}

func TestHandler_Execute_UnescapedAmpersand(t *testing.T) {
	h := newTestHandler(t)
	payload := `<Jobs>
  <Job Jobid="1"><JobTitle>Machinist</JobTitle></Job>
  <Job Jobid="2"><JobTitle>R&D Technician</JobTitle><JobBody>Test & measurement lab</JobBody></Job>
  <Job Jobid="3"><JobTitle>Line Cook</JobTitle></Job>
</Jobs>`

	out, err := h.Execute(context.Background(), &Input{Payload: []byte(payload)})
	require.NoError(t, err)
	require.Len(t, out.Jobs, 3)
	assert.Empty(t, out.Failures)
	assert.Equal(t, "R&D Technician", out.Jobs[1].Title)
}

func TestHandler_Execute_DroppedJobs(t *testing.T) {
	h := newTestHandler(t)
	payload := `<Jobs>
  <Job Jobid="x"><JobTitle>First</JobTitle></Job>
  <Job Jobid="x"><JobTitle>Duplicate</JobTitle></Job>
  <Job><JobTitle>No id</JobTitle></Job>
  <Job Jobid="y"><JobTitle><b>nested</b></JobTitle></Job>
</Jobs>`

	out, err := h.Execute(context.Background(), &Input{Payload: []byte(payload)})
	require.NoError(t, err)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, "First", out.Jobs[0].Title)
	assert.Len(t, out.Failures, 3)
}

func TestHandler_Execute_StructureErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not xml", "this is not xml"},
		{"unknown root", "<Listings><Job Jobid=\"1\"/></Listings>"},
		{"empty job list", "<Jobs></Jobs>"},
		{"truncated", "<Jobs><Job Jobid=\"1\">"},
	}

	h := newTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), &Input{Payload: []byte(tt.payload)})
			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, ErrFeedStructure)

			stdErr, ok := apperrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeFeedStructure, stdErr.Code)
		})
	}
}

func TestHandler_Execute_SingleJob(t *testing.T) {
	h := newTestHandler(t)
	out, err := h.Execute(context.Background(), &Input{Payload: []byte(`<Jobs><Job Jobid="only"/></Jobs>`)})
	require.NoError(t, err)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, "only", out.Jobs[0].ID)
}

func TestParsePayRate(t *testing.T) {
	tests := []struct {
		in   string
		want *models.Salary
	}{
		{"$18.50 - $22.00", &models.Salary{Min: 18.5, Max: 22, Currency: "USD"}},
		{"$45,000 - $55,000 per year", &models.Salary{Min: 45000, Max: 55000, Currency: "USD"}},
		{"$20-$25", &models.Salary{Min: 20, Max: 25, Currency: "USD"}},
		{"DOE", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePayRate(tt.in))
		})
	}
}

func TestRewriteImageSources(t *testing.T) {
	in := `<img src='/wp-content/a.png'><img src="https://cdn.example.com/b.png"><a href="/wp-content/c">c</a>`
	got := RewriteImageSources(in, "https://www.mykelly.com/")
	assert.Equal(t, `<img src="https://www.mykelly.com/wp-content/a.png"><img src="https://cdn.example.com/b.png"><a href="/wp-content/c">c</a>`, got)
	assert.Equal(t, in, RewriteImageSources(in, ""))
}

func TestParsePostDate(t *testing.T) {
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), ParsePostDate("01/05/2024"))
	assert.Equal(t, time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), ParsePostDate("2024-01-05 09:00:00"))
	assert.True(t, ParsePostDate("someday").IsZero())
	assert.True(t, ParsePostDate("").IsZero())
}
