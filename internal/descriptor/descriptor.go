// Package descriptor loads and validates collection descriptor files.
//
// A descriptor is a Markdown file with YAML frontmatter:
//
//	---
//	schema: 1
//	title: Fuji, Japan
//	date: 2021-01-01
//	featured:
//	  - Summit
//	---
//	Optional description in Markdown.
package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/gallerybuilder/internal/markdown"
)

// SchemaVersion is the descriptor schema understood by this build.
const SchemaVersion = 1

var (
	// ErrInvalid is wrapped by every descriptor parse or validation failure.
	ErrInvalid = errors.New("invalid collection descriptor")

	ErrMissingFrontmatter      = errors.New("descriptor has no YAML frontmatter")
	ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")
	ErrUnsupportedSchema       = errors.New("unsupported descriptor schema")
	ErrInvalidDate             = errors.New("invalid date")
)

// Descriptor is the validated content of a collection's index.md.
type Descriptor struct {
	Schema      int
	Title       string
	Date        Date
	Featured    []string
	Body        []byte // Markdown body after the frontmatter
	Description string // Body rendered to HTML
	Fingerprint string // content fingerprint of frontmatter and body
}

// fields is the on-disk schema. Unknown keys are rejected at decode time.
type fields struct {
	Schema   int      `yaml:"schema" validate:"omitempty,min=1"`
	Title    string   `yaml:"title" validate:"required"`
	Date     string   `yaml:"date" validate:"required"`
	Featured []string `yaml:"featured" validate:"dive,required"`
}

var validate = validator.New()

// Load reads and parses the descriptor at path.
func Load(path string) (*Descriptor, error) {
	// #nosec G304 -- path comes from scanning the configured input tree.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalid, path, err)
	}
	d, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse parses descriptor content.
func Parse(content []byte) (*Descriptor, error) {
	raw, body, had, err := split(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !had {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, ErrMissingFrontmatter)
	}

	var f fields
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	f.Title = strings.TrimSpace(f.Title)
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, describeValidation(err))
	}

	if f.Schema == 0 {
		f.Schema = SchemaVersion
	}
	if f.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: %w: %d (supported: %d)", ErrInvalid, ErrUnsupportedSchema, f.Schema, SchemaVersion)
	}

	date, err := ParseDate(f.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	description, err := markdown.Render(body, markdown.Options{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return &Descriptor{
		Schema:      f.Schema,
		Title:       f.Title,
		Date:        date,
		Featured:    f.Featured,
		Body:        body,
		Description: description,
		Fingerprint: mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(raw), "\n"), string(body)),
	}, nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %q is required", field))
		default:
			msgs = append(msgs, fmt.Sprintf("field %q failed %q", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
