// Package template implements ordered wildcard matching of SQL statement
// shapes. A pattern is literal text interleaved with {} gaps, {name} captures
// and {:s} whitespace runs; matching is case-insensitive, spans newlines, and
// must cover the whole input. Callers keep precedence explicit by trying a
// slice of templates in order instead of folding the variants into one
// alternation.
package template

import (
	"fmt"
	"regexp"
	"strings"
)

// fieldPattern matches one {...} placeholder inside a template string.
var fieldPattern = regexp.MustCompile(`\{[^{}]*\}`)

// Template is a single compiled statement shape.
type Template struct {
	source string
	re     *regexp.Regexp
	names  []string
}

// Compile translates a pattern into a Template.
//
//	{}        an anonymous gap, at least one character
//	{name}    a named capture, at least one character, non-greedy
//	{:s}      a whitespace run
//	{name:s}  a captured whitespace run
func Compile(pattern string) (*Template, error) {
	var sb strings.Builder
	sb.WriteString(`(?is)\A`)

	var names []string
	last := 0
	for _, loc := range fieldPattern.FindAllStringIndex(pattern, -1) {
		sb.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		last = loc[1]

		field := pattern[loc[0]+1 : loc[1]-1]
		name, spec, _ := strings.Cut(field, ":")

		var body string
		switch spec {
		case "":
			body = `.+?`
		case "s":
			body = `\s+`
		default:
			return nil, fmt.Errorf("unsupported field spec %q in template %q", spec, pattern)
		}

		if name == "" {
			sb.WriteString(`(?:` + body + `)`)
		} else {
			if !regexp.MustCompile(`^[a-z_][a-z0-9_]*$`).MatchString(name) {
				return nil, fmt.Errorf("invalid field name %q in template %q", name, pattern)
			}
			names = append(names, name)
			sb.WriteString(`(?P<` + name + `>` + body + `)`)
		}
	}
	sb.WriteString(regexp.QuoteMeta(pattern[last:]))
	sb.WriteString(`\z`)

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile template %q: %w", pattern, err)
	}
	return &Template{source: pattern, re: re, names: names}, nil
}

// MustCompile is Compile for package-level template variables; it panics on
// malformed patterns.
func MustCompile(pattern string) *Template {
	t, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

// MustCompileAll compiles an ordered list of patterns.
func MustCompileAll(patterns ...string) []*Template {
	templates := make([]*Template, 0, len(patterns))
	for _, p := range patterns {
		templates = append(templates, MustCompile(p))
	}
	return templates
}

// String returns the original pattern.
func (t *Template) String() string {
	return t.source
}

// Match reports whether input matches the template and returns the named
// captures when it does.
func (t *Template) Match(input string) (map[string]string, bool) {
	m := t.re.FindStringSubmatch(input)
	if m == nil {
		return nil, false
	}
	captures := make(map[string]string, len(t.names))
	for i, name := range t.re.SubexpNames() {
		if name != "" {
			captures[name] = m[i]
		}
	}
	return captures, true
}

// First tries each template in order and returns the captures of the first
// one that matches. The bool result is false when none match.
func First(templates []*Template, input string) (map[string]string, bool) {
	for _, t := range templates {
		if captures, ok := t.Match(input); ok {
			return captures, true
		}
	}
	return nil, false
}
