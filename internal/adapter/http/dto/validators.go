package dto

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var suiAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("sui_address", validateSuiAddress)
	}
}

// validateSuiAddress accepts 0x followed by up to 64 hex digits.
func validateSuiAddress(fl validator.FieldLevel) bool {
	return IsSuiAddress(fl.Field().String())
}

// IsSuiAddress reports whether s looks like a Sui address.
func IsSuiAddress(s string) bool {
	return suiAddressRe.MatchString(s)
}

// SanitizeStruct trims whitespace on every exported string field
// (including *string and string-kinded types) of a struct pointer.
func SanitizeStruct(v interface{}) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return
	}
	sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanSet() {
			continue
		}
		switch f.Kind() {
		case reflect.String:
			f.SetString(strings.TrimSpace(f.String()))
		case reflect.Ptr:
			if f.IsNil() {
				continue
			}
			if elem := f.Elem(); elem.Kind() == reflect.String {
				elem.SetString(strings.TrimSpace(elem.String()))
			}
		}
	}
}
