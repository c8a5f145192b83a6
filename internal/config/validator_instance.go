package config

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/pixtheme/internal/parser"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	colorNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 _-]*$`)
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("color_name", func(fl validator.FieldLevel) bool {
			return colorNamePattern.MatchString(fl.Field().String())
		})

		// theme_color accepts the hex forms descriptors accept.
		_ = v.RegisterValidation("theme_color", func(fl validator.FieldLevel) bool {
			_, ok := parser.ParseHexColor(fl.Field().String())
			return ok
		})

		validateInst = v
	})

	return validateInst
}
