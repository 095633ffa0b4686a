package ats

import (
	"strings"
	"testing"

	"resumeforge/internal/types"
)

func TestFormatEmptyResume(t *testing.T) {
	got := Format(types.Resume{})

	want := strings.Join([]string{
		"NAME",
		"",
		"-- SUMMARY --",
		"—",
		"",
		"-- SKILLS --",
		"—",
		"",
		"-- EXPERIENCE --",
		"—",
		"",
		"-- PROJECTS --",
		"—",
		"",
		"-- EDUCATION --",
		"—",
	}, "\n") + "\n"

	if got != want {
		t.Errorf("empty resume format mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatFullResume(t *testing.T) {
	r := types.Resume{
		Header: types.Header{
			Name:     "Jane Doe",
			Location: "Portland, OR",
			Email:    "jane@example.com",
			Phone:    "555-1234",
			Links: []types.Link{
				{Label: "GitHub", URL: "https://github.com/jane"},
				{Label: "Portfolio"},
			},
		},
		Summary: "Backend engineer shipping Go services.",
		Skills: types.Skills{
			Languages: []string{"Go", "Python"},
			Tools:     []string{"Docker", "Kubernetes"},
		},
		Experience: []types.Experience{
			{
				Company:  "Acme",
				Title:    "Engineer",
				Location: "Remote",
				Start:    "2020",
				End:      "Present",
				Bullets:  []string{"Built APIs", "Cut latency 40%"},
			},
			{Company: "Initech", Title: "Intern"},
		},
		Projects: []types.Project{
			{Name: "Tracker", Tech: []string{"go", "sqlite"}, Bullets: []string{"CLI habit tracker"}},
		},
		Education: []types.Education{
			{School: "State University", Degree: "BS Computer Science", Year: "2019"},
		},
	}

	got := Format(r)

	checks := []string{
		"Jane Doe\n",
		"Portland, OR | jane@example.com | 555-1234 | https://github.com/jane | Portfolio\n",
		"Languages: Go, Python\n",
		"Tools: Docker, Kubernetes\n",
		"Acme — Engineer | Remote | 2020–Present\n",
		"- Built APIs\n",
		"- Cut latency 40%\n",
		// An entry without bullets still renders a placeholder bullet.
		"Initech — Intern\n- —\n",
		"Tracker | go, sqlite\n",
		"State University — BS Computer Science | 2019\n",
	}
	for _, c := range checks {
		if !strings.Contains(got, c) {
			t.Errorf("formatted output missing %q\nfull output:\n%s", c, got)
		}
	}

	// Frameworks and Other are empty and must not appear at all.
	if strings.Contains(got, "Frameworks:") || strings.Contains(got, "Other:") {
		t.Error("empty skill categories should be omitted")
	}
}

func TestFormatDeterministic(t *testing.T) {
	r := types.Resume{
		Header:  types.Header{Name: "Jane"},
		Summary: "Engineer.",
		Experience: []types.Experience{
			{Company: "Acme", Title: "Engineer", Bullets: []string{"a", "b"}},
		},
	}
	first := Format(r)
	for i := 0; i < 10; i++ {
		if next := Format(r); next != first {
			t.Fatalf("format not deterministic on run %d", i)
		}
	}
}

func TestFormatCollapsesWhitespace(t *testing.T) {
	r := types.Resume{
		Header:  types.Header{Name: "Jane\nDoe"},
		Summary: "Two  spaces\tand\na newline.",
	}
	got := Format(r)

	if !strings.HasPrefix(got, "Jane Doe\n") {
		t.Errorf("expected name whitespace collapsed, got %q", got[:20])
	}
	if !strings.Contains(got, "Two spaces and a newline.") {
		t.Errorf("expected summary whitespace collapsed, got:\n%s", got)
	}
}

func TestFormatEndsWithSingleNewline(t *testing.T) {
	got := Format(types.Resume{Header: types.Header{Name: "Jane"}})
	if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Errorf("output should end with exactly one newline, got %q", got[len(got)-3:])
	}
}
