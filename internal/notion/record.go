package notion

import (
	"errors"
	"fmt"
	"time"
)

// Accessor errors.
var (
	// ErrFieldMissing is returned when a record has no property with the requested name.
	ErrFieldMissing = errors.New("field missing from record")

	// ErrKindMismatch is returned when a property is read as the wrong kind.
	ErrKindMismatch = errors.New("field kind mismatch")

	// ErrUnsupportedKind is returned when reading a property of a kind the pipeline does not handle.
	ErrUnsupportedKind = errors.New("unsupported field kind")
)

// Kind is the type tag of a database property.
type Kind string

const (
	KindTitle       Kind = "title"
	KindRichText    Kind = "rich_text"
	KindMultiSelect Kind = "multi_select"
	KindDate        Kind = "date"
	KindCheckbox    Kind = "checkbox"
	KindUnsupported Kind = "unsupported"
)

// Field is a single property value of a record.
//
// Checkbox fields carry Checked. Every other kind is a list of text runs:
// plain text for title and rich text, option names for multi-select, and the
// RFC 3339 start for dates. Start is also set for dates that have one.
type Field struct {
	Kind    Kind
	Checked bool
	Runs    []string
	Start   *time.Time

	// RawType is the remote property type, kept for diagnostics on unsupported kinds.
	RawType string
}

// Record is one row of the tracks database.
type Record struct {
	ID     string
	Fields map[string]Field
}

// Text returns the first text run of the named field.
// ok is false when the field exists but holds no runs.
func (r Record) Text(name string) (value string, ok bool, err error) {
	f, err := r.field(name)
	if err != nil {
		return "", false, err
	}

	switch f.Kind {
	case KindTitle, KindRichText, KindMultiSelect, KindDate:
		if len(f.Runs) == 0 {
			return "", false, nil
		}
		return f.Runs[0], true, nil
	case KindCheckbox:
		return "", false, fmt.Errorf("%q is a checkbox: %w", name, ErrKindMismatch)
	default:
		return "", false, fmt.Errorf("%q has type %q: %w", name, f.RawType, ErrUnsupportedKind)
	}
}

// Checkbox returns the value of the named checkbox field.
func (r Record) Checkbox(name string) (bool, error) {
	f, err := r.field(name)
	if err != nil {
		return false, err
	}

	switch f.Kind {
	case KindCheckbox:
		return f.Checked, nil
	case KindTitle, KindRichText, KindMultiSelect, KindDate:
		return false, fmt.Errorf("%q is %s, not a checkbox: %w", name, f.Kind, ErrKindMismatch)
	default:
		return false, fmt.Errorf("%q has type %q: %w", name, f.RawType, ErrUnsupportedKind)
	}
}

func (r Record) field(name string) (Field, error) {
	f, ok := r.Fields[name]
	if !ok {
		return Field{}, fmt.Errorf("record %s: %q: %w", r.ID, name, ErrFieldMissing)
	}
	return f, nil
}

// TitleField builds a title value with a single run.
func TitleField(text string) Field {
	return Field{Kind: KindTitle, Runs: []string{text}}
}

// RichTextField builds a rich text value with a single run.
func RichTextField(text string) Field {
	return Field{Kind: KindRichText, Runs: []string{text}}
}

// MultiSelectField builds a multi-select value. It replaces any existing selection when written.
func MultiSelectField(options ...string) Field {
	return Field{Kind: KindMultiSelect, Runs: options}
}

// DateField builds a date value starting at t.
func DateField(t time.Time) Field {
	return Field{Kind: KindDate, Runs: []string{t.Format(time.RFC3339)}, Start: &t}
}

// CheckboxField builds a checkbox value.
func CheckboxField(checked bool) Field {
	return Field{Kind: KindCheckbox, Checked: checked}
}
