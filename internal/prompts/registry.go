// Package prompts holds the system prompt templates selectable at startup.
package prompts

import (
	"sort"
)

// Template is a named system prompt
type Template struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description,omitempty"`
	Text        string `yaml:"text"`
}

// Registry maps template codes to templates.
// It is built once and never mutated afterwards, so it is safe for concurrent reads.
type Registry struct {
	byCode map[string]Template
	codes  []string
}

// Builtin returns the templates compiled into the binary
func Builtin() []Template {
	return []Template{
		{
			Code:        "cursor",
			Description: "IDE coding assistant (db_structure.md / project_specs.md aware)",
			Text:        cursorPrompt,
		},
	}
}

// NewRegistry builds a registry from templates.
// A later template replaces an earlier one with the same code.
func NewRegistry(templates ...Template) *Registry {
	r := &Registry{byCode: make(map[string]Template, len(templates))}
	for _, t := range templates {
		if t.Code == "" {
			continue
		}
		r.byCode[t.Code] = t
	}

	r.codes = make([]string, 0, len(r.byCode))
	for code := range r.byCode {
		r.codes = append(r.codes, code)
	}
	sort.Strings(r.codes)

	return r
}

// Lookup returns the template registered under code.
// A miss is not an error: callers proceed without a system prompt.
func (r *Registry) Lookup(code string) (Template, bool) {
	if r == nil {
		return Template{}, false
	}
	t, ok := r.byCode[code]
	return t, ok
}

// Codes returns all registered codes in sorted order
func (r *Registry) Codes() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.codes))
	copy(out, r.codes)
	return out
}

// Templates returns all templates ordered by code
func (r *Registry) Templates() []Template {
	if r == nil {
		return nil
	}
	out := make([]Template, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.byCode[code])
	}
	return out
}

// Len returns the number of templates
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byCode)
}
