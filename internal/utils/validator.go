package utils

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

// sampleIDPattern matches identifiers like "cn-sup-001".
var sampleIDPattern = regexp.MustCompile(`^[a-z]{2}-sup-\d{3}$`)

func InitValidator() {
	Validate = validator.New()

	// Report violations under the YAML field names the operators see.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation("sample_id", func(fl validator.FieldLevel) bool {
		return sampleIDPattern.MatchString(fl.Field().String())
	})

	_ = Validate.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.RFC3339, fl.Field().String())
		return err == nil
	})
}
