// Package templating substitutes {{namespace.field}} placeholders in
// communication templates.
//
// A placeholder may carry a fallback after a pipe, optionally double-quoted:
//
//	{{incident.title}}
//	{{incident.assignee|unassigned}}
//	{{custom.eta | "within the hour"}}
//
// Namespace and field names are case-insensitive and may be padded with
// whitespace, as in {{ incident . title }}.
package templating

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\.\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?:\|([^}]*))?\}\}`)

// Vars maps namespace -> field -> value.
type Vars map[string]map[string]string

// Set stores value under namespace.field.
func (v Vars) Set(namespace, field, value string) {
	ns := strings.ToLower(namespace)
	if v[ns] == nil {
		v[ns] = make(map[string]string)
	}
	v[ns][strings.ToLower(field)] = value
}

// SetAll stores every field of values under namespace.
func (v Vars) SetAll(namespace string, values map[string]string) {
	for k, val := range values {
		v.Set(namespace, k, val)
	}
}

// Lookup returns the value of namespace.field. Empty values count as absent.
func (v Vars) Lookup(namespace, field string) (string, bool) {
	fields, ok := v[strings.ToLower(namespace)]
	if !ok {
		return "", false
	}
	val, ok := fields[strings.ToLower(field)]
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

// Result is the outcome of rendering one text.
type Result struct {
	Text    string
	Missing []string
}

// Render substitutes placeholders in text. A placeholder without a value uses its
// fallback; without a fallback it stays in the output verbatim and is reported in Missing.
func Render(text string, vars Vars) Result {
	var missing []string
	seen := make(map[string]struct{})

	out := placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		m := placeholderRe.FindStringSubmatch(match)
		ns, field := m[1], m[2]
		if val, ok := vars.Lookup(ns, field); ok {
			return val
		}
		if fallback, ok := parseFallback(m[3], strings.Contains(match, "|")); ok {
			return fallback
		}
		name := key(ns, field)
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			missing = append(missing, name)
		}
		return match
	})
	return Result{Text: out, Missing: missing}
}

// Variables lists the distinct placeholders of the given texts in order of first appearance.
func Variables(texts ...string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, text := range texts {
		for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
			name := key(m[1], m[2])
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func key(ns, field string) string {
	return strings.ToLower(ns) + "." + strings.ToLower(field)
}

// parseFallback returns the fallback text. An explicit empty fallback ("{{a.b|}}")
// is a valid fallback that renders as nothing.
func parseFallback(raw string, hasPipe bool) (string, bool) {
	if !hasPipe {
		return "", false
	}
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return s, true
}
