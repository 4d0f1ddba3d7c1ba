package config

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/module"
)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("import_path", validateImportPath); err != nil {
		return err
	}
	return v.RegisterValidation("glob_pattern", validateGlobPattern)
}

func validateImportPath(fl validator.FieldLevel) bool {
	return module.CheckImportPath(fl.Field().String()) == nil
}

func validateGlobPattern(fl validator.FieldLevel) bool {
	return doublestar.ValidatePattern(fl.Field().String())
}
