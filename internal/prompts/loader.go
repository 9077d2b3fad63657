package prompts

import (
	"fmt"
	"os"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Validation constants
const (
	MaxCodeLength        = 32
	MaxDescriptionLength = 200
	MaxTextLength        = 64 * 1024
)

// templateFile is the on-disk layout of a user templates file:
//
//	templates:
//	  - code: reviewer
//	    description: Code reviewer
//	    text: |
//	      You review Go code...
type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// LoadFile reads user templates from a YAML file.
// A missing file yields no templates and no error.
func LoadFile(path string) ([]Template, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse templates file: %w", err)
	}

	seen := make(map[string]bool, len(file.Templates))
	for _, t := range file.Templates {
		if err := ValidateTemplate(t); err != nil {
			return nil, fmt.Errorf("template %q: %w", t.Code, err)
		}
		if seen[t.Code] {
			return nil, fmt.Errorf("template %q defined more than once", t.Code)
		}
		seen[t.Code] = true
	}

	return file.Templates, nil
}

// Load builds the process registry: builtin templates overlaid with the user file.
func Load(path string) (*Registry, error) {
	user, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewRegistry(append(Builtin(), user...)...), nil
}

// ValidateTemplate validates a template's fields
func ValidateTemplate(t Template) error {
	fieldErrors := make(map[string]string)

	switch {
	case t.Code == "":
		fieldErrors["code"] = "code is required"
	case len(t.Code) > MaxCodeLength:
		fieldErrors["code"] = fmt.Sprintf("code too long (max %d characters)", MaxCodeLength)
	case !isValidCode(t.Code):
		fieldErrors["code"] = "code must not contain whitespace"
	}

	if len(t.Description) > MaxDescriptionLength {
		fieldErrors["description"] = fmt.Sprintf("description too long (max %d characters)", MaxDescriptionLength)
	}

	if t.Text == "" {
		fieldErrors["text"] = "text is required"
	} else if len(t.Text) > MaxTextLength {
		fieldErrors["text"] = fmt.Sprintf("text too long (max %d characters)", MaxTextLength)
	}

	if len(fieldErrors) > 0 {
		return fmt.Errorf("validation failed: %v", fieldErrors)
	}
	return nil
}

// Codes are typed on their own line at startup, so whitespace would make them unselectable.
func isValidCode(code string) bool {
	for _, c := range code {
		if unicode.IsSpace(c) {
			return false
		}
	}
	return true
}
