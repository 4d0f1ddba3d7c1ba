package license

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/module"
)

// EntryConfig is the raw, already-parsed form of one catalog entry.
// ID and Aliases are optional.
type EntryConfig struct {
	Name    string   `json:"name"              yaml:"name"              validate:"required"`
	Package string   `json:"package"           yaml:"package"           validate:"required,import_path"`
	ID      string   `json:"id,omitempty"      yaml:"id,omitempty"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty" validate:"dive,required"`
}

// Entry is the immutable identity of one license.
type Entry struct {
	name    string
	pkg     string
	id      string
	aliases []string
}

var entryValidator = newEntryValidator()

func newEntryValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("import_path", validateImportPath); err != nil {
		panic(fmt.Sprintf("register import_path validation: %v", err))
	}
	return v
}

func validateImportPath(fl validator.FieldLevel) bool {
	return module.CheckImportPath(fl.Field().String()) == nil
}

// NewEntry validates cfg and returns the entry it describes.
// Surrounding whitespace is dropped from every field; a blank ID means the
// entry has no normative id.
func NewEntry(cfg EntryConfig) (*Entry, error) {
	normalized := EntryConfig{
		Name:    strings.TrimSpace(cfg.Name),
		Package: strings.TrimSpace(cfg.Package),
		ID:      strings.TrimSpace(cfg.ID),
	}
	if len(cfg.Aliases) > 0 {
		normalized.Aliases = make([]string, len(cfg.Aliases))
		for i, alias := range cfg.Aliases {
			normalized.Aliases[i] = strings.TrimSpace(alias)
		}
	}
	ref := EntryRef{Index: -1, Name: normalized.Name, Package: normalized.Package}
	if err := entryValidator.Struct(normalized); err != nil {
		return nil, translateValidation(err, normalized, ref)
	}
	seen := make(map[string]string, len(normalized.Aliases))
	for _, alias := range normalized.Aliases {
		key := foldKey(alias)
		if first, dup := seen[key]; dup {
			return nil, &ValidationError{
				Field:   FieldAlias,
				Value:   alias,
				Reason:  fmt.Sprintf("duplicate alias (already listed as %q)", first),
				Entries: []EntryRef{ref},
			}
		}
		seen[key] = alias
	}
	return &Entry{
		name:    normalized.Name,
		pkg:     normalized.Package,
		id:      normalized.ID,
		aliases: normalized.Aliases,
	}, nil
}

func translateValidation(err error, cfg EntryConfig, ref EntryRef) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "entry", Reason: err.Error(), Entries: []EntryRef{ref}}
	}
	fe := fieldErrs[0]
	verr := &ValidationError{Entries: []EntryRef{ref}}
	switch {
	case fe.StructField() == "Name":
		verr.Field = FieldName
		verr.Reason = "name is required"
	case fe.StructField() == "Package" && fe.Tag() == "import_path":
		verr.Field = FieldPackage
		verr.Value = cfg.Package
		verr.Reason = importPathReason(cfg.Package)
	case fe.StructField() == "Package":
		verr.Field = FieldPackage
		verr.Reason = "package is required"
	case strings.HasPrefix(fe.StructField(), "Aliases"):
		verr.Field = FieldAlias
		verr.Reason = "alias cannot be blank"
	default:
		verr.Field = fe.Field()
		verr.Reason = fmt.Sprintf("failed %q check", fe.Tag())
	}
	return verr
}

func importPathReason(path string) string {
	if err := module.CheckImportPath(path); err != nil {
		return "not a valid import path: " + err.Error()
	}
	return "not a valid import path"
}

// Name returns the display name.
func (e *Entry) Name() string { return e.name }

// Package returns the import path the generated artifact belongs to.
func (e *Entry) Package() string { return e.pkg }

// NormativeID returns the normative id, or "" when the entry has none.
func (e *Entry) NormativeID() string { return e.id }

// HasNormativeID reports whether the entry carries a normative id.
func (e *Entry) HasNormativeID() bool { return e.id != "" }

// Aliases returns a copy of the alias list in declaration order.
func (e *Entry) Aliases() []string { return slices.Clone(e.aliases) }

// Config returns the entry as a raw tuple.
func (e *Entry) Config() EntryConfig {
	return EntryConfig{
		Name:    e.name,
		Package: e.pkg,
		ID:      e.id,
		Aliases: e.Aliases(),
	}
}

func (e *Entry) String() string {
	if e.id == "" {
		return fmt.Sprintf("%s (%s)", e.name, e.pkg)
	}
	return fmt.Sprintf("%s [%s] (%s)", e.name, e.id, e.pkg)
}

func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Config())
}

func (e *Entry) ref(index int) EntryRef {
	return EntryRef{Index: index, Name: e.name, Package: e.pkg}
}
