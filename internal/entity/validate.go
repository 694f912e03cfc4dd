package entity

import (
	"fmt"
	"strings"
)

// #region validation-error

// Issue describes a single shape violation found during construction.
type Issue struct {
	Field   string
	Message string
}

// String renders "field: message", or just the message when no field applies.
func (i Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("%s: %s", i.Field, i.Message)
	}
	return i.Message
}

// ValidationError reports why a candidate value failed shape validation.
// Only constructors return it; the pure Valid* predicates never error.
type ValidationError struct {
	Kind   string // "field" | "prop" | "dataset" | an action kind
	Issues []Issue
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return fmt.Sprintf("invalid %s", e.Kind)
	case 1:
		return fmt.Sprintf("invalid %s: %s", e.Kind, e.Issues[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid %s: %d issues:", e.Kind, len(e.Issues))
	for i, issue := range e.Issues {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, issue)
	}
	return b.String()
}

// Add appends an issue.
func (e *ValidationError) Add(field, message string) {
	e.Issues = append(e.Issues, Issue{Field: field, Message: message})
}

// OrNil returns the error when it holds issues, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Issues) > 0 {
		return e
	}
	return nil
}

// #endregion validation-error

// #region predicates

// ValidField reports whether f is a well-formed Field: both the name and
// the type key must be present.
func ValidField(f Field) bool {
	return f.Name != "" && f.Type != ""
}

// ValidProp reports whether p is a well-formed Prop. The accepted-types
// sequence may be empty, but every listed entry must be a non-empty name.
func ValidProp(p Prop) bool {
	if p.Name == "" {
		return false
	}
	for _, t := range p.Types {
		if t == "" {
			return false
		}
	}
	return true
}

// ValidDataset reports whether d is a well-formed Dataset. Validation is
// compositional: every element of d.Fields must independently pass
// ValidField.
func ValidDataset(d Dataset) bool {
	if d.Name == "" || d.Controller == nil {
		return false
	}
	for _, f := range d.Fields {
		if !ValidField(f) {
			return false
		}
	}
	return true
}

// #endregion predicates

// #region constructors

// NewField validates and constructs a Field.
func NewField(name, fieldType string) (Field, error) {
	verr := &ValidationError{Kind: "field"}
	if name == "" {
		verr.Add("name", "required")
	}
	if fieldType == "" {
		verr.Add("type", "required")
	}
	if err := verr.OrNil(); err != nil {
		return Field{}, err
	}
	return Field{Name: name, Type: fieldType}, nil
}

// NewProp validates and constructs a Prop. The types slice is copied so
// later caller mutation cannot corrupt the constructed value.
func NewProp(name string, types []string) (Prop, error) {
	verr := &ValidationError{Kind: "prop"}
	if name == "" {
		verr.Add("name", "required")
	}
	for i, t := range types {
		if t == "" {
			verr.Add(fmt.Sprintf("types[%d]", i), "empty type name")
		}
	}
	if err := verr.OrNil(); err != nil {
		return Prop{}, err
	}
	return Prop{Name: name, Types: append([]string(nil), types...)}, nil
}

// NewDataset validates and constructs a Dataset. Every element of fields
// must independently pass ValidField (construction-time invariant).
func NewDataset(name string, controller any, fields []Field) (Dataset, error) {
	verr := &ValidationError{Kind: "dataset"}
	if name == "" {
		verr.Add("name", "required")
	}
	if controller == nil {
		verr.Add("controller", "required")
	}
	for i, f := range fields {
		if !ValidField(f) {
			verr.Add(fmt.Sprintf("fields[%d]", i), fieldIssue(f))
		}
	}
	if err := verr.OrNil(); err != nil {
		return Dataset{}, err
	}
	return Dataset{Name: name, Controller: controller, Fields: append([]Field(nil), fields...)}, nil
}

// fieldIssue names the missing key for an invalid field.
func fieldIssue(f Field) string {
	switch {
	case f.Name == "" && f.Type == "":
		return "missing name and type"
	case f.Name == "":
		return "missing name"
	default:
		return "missing type"
	}
}

// #endregion constructors
