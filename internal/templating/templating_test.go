package templating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testVars() Vars {
	v := Vars{}
	v.Set("incident", "title", "Ransomware on FS01")
	v.Set("Incident", "Severity", "critical")
	v.Set("organization", "name", "Acme")
	v.Set("incident", "assignee", "")
	return v
}

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		want        string
		wantMissing []string
	}{
		{
			name: "simple substitution",
			text: "[{{incident.severity}}] {{ incident.title }}",
			want: "[critical] Ransomware on FS01",
		},
		{
			name: "whitespace around the dot",
			text: "{{ incident . title }} / {{incident .severity}}",
			want: "Ransomware on FS01 / critical",
		},
		{
			name: "whitespace around the dot with fallback",
			text: "Owner: {{ incident . assignee | unassigned }}",
			want: "Owner: unassigned",
		},
		{
			name: "case insensitive names",
			text: "{{ORGANIZATION.Name}}",
			want: "Acme",
		},
		{
			name: "fallback used for missing value",
			text: "Owner: {{incident.assignee|unassigned}}",
			want: "Owner: unassigned",
		},
		{
			name: "quoted fallback keeps spaces",
			text: `ETA {{custom.eta | " within the hour"}}`,
			want: "ETA  within the hour",
		},
		{
			name: "empty fallback",
			text: "a{{custom.note|}}b",
			want: "ab",
		},
		{
			name:        "missing without fallback stays verbatim",
			text:        "Call {{user.phone}} or {{user.phone}} / {{user.email}}",
			want:        "Call {{user.phone}} or {{user.phone}} / {{user.email}}",
			wantMissing: []string{"user.phone", "user.email"},
		},
		{
			name: "non placeholders untouched",
			text: "{{notaplaceholder}} {single} {{a.}}",
			want: "{{notaplaceholder}} {single} {{a.}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Render(tt.text, testVars())
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, tt.wantMissing, res.Missing)
		})
	}
}

func TestVariables(t *testing.T) {
	got := Variables("{{incident.title}} {{Incident.Title}}", "{{user.name|x}} {{incident.severity}}")
	assert.Equal(t, []string{"incident.title", "user.name", "incident.severity"}, got)
	assert.Empty(t, Variables("plain text"))
	assert.Equal(t, []string{"incident.title"}, Variables("{{ incident . title }}", "{{incident.TITLE}}"))
}
