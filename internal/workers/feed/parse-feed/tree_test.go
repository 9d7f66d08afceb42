package parsefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTree_AttributesAndChildren(t *testing.T) {
	root, err := ParseTree([]byte(`<Jobs><Job Jobid="42"><JobTitle> Nurse </JobTitle><Hours>40</Hours></Job></Jobs>`))
	require.NoError(t, err)

	assert.Equal(t, "Jobs", root.Name)
	job := root.Child("job")
	require.NotNil(t, job)

	id, ok := job.Attr("jobid")
	assert.True(t, ok)
	assert.Equal(t, "42", id)
	assert.Equal(t, "Nurse", job.Child("JobTitle").Text())
	assert.Equal(t, int64(40), job.Child("Hours").Value())
	assert.True(t, job.Child("Hours").IsLeaf())
	assert.False(t, job.IsLeaf())
}

func TestParseTree_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"unterminated", "<Jobs><Job>"},
		{"multiple roots", "<Jobs/><Jobs/>"},
		{"text only", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTree([]byte(tt.payload))
			assert.Error(t, err)
		})
	}
}

func TestParseTree_Lenient(t *testing.T) {
	root, err := ParseTree([]byte(`<Jobs><Job Jobid="7" Dept="R&D">` +
		`<JobTitle>R&D Technician</JobTitle>` +
		`<JobBody>Tools &amp; dies&nbsp;shop<br>Day shift</JobBody>` +
		`</Job></Jobs>`))
	require.NoError(t, err)

	job := root.Child("Job")
	require.NotNil(t, job)
	assert.Equal(t, "R&D Technician", job.Child("JobTitle").Text())
	assert.Contains(t, job.Child("JobBody").Text(), "Tools & dies")
	assert.Contains(t, job.Child("JobBody").Markup(), "<br></br>Day shift")

	dept, ok := job.Attr("Dept")
	assert.True(t, ok)
	assert.Equal(t, "R&D", dept)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{"true", true},
		{"FALSE", false},
		{"12", int64(12)},
		{"-3", int64(-3)},
		{"42.5", 42.5},
		{"  hello ", "hello"},
		{"", ""},
		{"12abc", "12abc"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(tt.in))
		})
	}
}

func TestNode_Markup(t *testing.T) {
	root, err := ParseTree([]byte(`<Job><JobBody><p>Hello &amp; <b class="x">world</b></p></JobBody><Plain><![CDATA[<p>raw</p>]]></Plain></Job>`))
	require.NoError(t, err)

	assert.Equal(t, `<p>Hello &amp; <b class="x">world</b></p>`, root.Child("JobBody").Markup())
	assert.Equal(t, `<p>raw</p>`, root.Child("Plain").Markup())
}

func TestNode_FieldAndNumber(t *testing.T) {
	root, err := ParseTree([]byte(`<Job id="a1"><Title></Title><title2>Backup</title2><Loc><City>X</City></Loc><Lat>41.5</Lat><Lng>east</Lng></Job>`))
	require.NoError(t, err)

	v, err := root.field("id")
	require.NoError(t, err)
	assert.Equal(t, "a1", v)

	v, err = root.field("Title", "title2")
	require.NoError(t, err)
	assert.Equal(t, "Backup", v)

	_, err = root.field("Loc")
	assert.ErrorIs(t, err, ErrUnexpectedStructure)

	f, ok, err := root.number("Lat")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 41.5, f)

	_, _, err = root.number("Lng")
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, ok, err = root.number("Missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}
