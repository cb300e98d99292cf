package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound indicates an explicitly requested configuration file is missing.
	ErrNotFound = errors.New("configuration file not found")

	// ErrInvalid indicates the configuration failed to decode or validate.
	ErrInvalid = errors.New("invalid configuration")
)

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(yamlName)
	return v
}()

// Validate checks cfg after defaults and command line overrides are applied.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, describe(err))
	}

	in, err := filepath.Abs(cfg.Input)
	if err != nil {
		return fmt.Errorf("%w: input: %w", ErrInvalid, err)
	}
	out, err := filepath.Abs(cfg.Output)
	if err != nil {
		return fmt.Errorf("%w: output: %w", ErrInvalid, err)
	}
	if in == out {
		return fmt.Errorf("%w: output directory must differ from input directory (%s)", ErrInvalid, in)
	}
	return nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value())))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s, got %v", field, bound(fe.Tag()), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func bound(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}

// yamlName reports fields by their YAML key.
func yamlName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
