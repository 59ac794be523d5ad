// Package validation holds the declarative field rules shared by the request
// types. Rules live in `validate` struct tags; this package registers the
// domain specific ones and turns failures into field level messages.
package validation

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MinMovieYear is the year of the first known motion picture.
const MinMovieYear = 1888

// maxYearsAhead bounds how far in the future a release year may be.
const maxYearsAhead = 5

var Genres = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy",
	"Crime", "Documentary", "Drama", "Family", "Fantasy",
	"Film-Noir", "History", "Horror", "Musical", "Mystery",
	"Romance", "Sci-Fi", "Sport", "Thriller", "War", "Western",
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	validate *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator with the custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		// Report JSON names so messages match the request body
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		mustRegister(v, "genre", func(fl validator.FieldLevel) bool {
			return IsValidGenre(fl.Field().String())
		})
		mustRegister(v, "objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
		mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		mustRegister(v, "minyear", func(fl validator.FieldLevel) bool {
			return fl.Field().Int() >= MinMovieYear
		})
		mustRegister(v, "maxyear", func(fl validator.FieldLevel) bool {
			return fl.Field().Int() <= int64(MaxMovieYear())
		})

		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: registering %q: %v", tag, err))
	}
}

func MaxMovieYear() int {
	return time.Now().Year() + maxYearsAhead
}

func IsValidGenre(genre string) bool {
	return slices.Contains(Genres, genre)
}

// Struct validates s and returns one FieldError per violated rule, or nil.
func Struct(s any) []FieldError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return fieldErrors
}

// ObjectId validates a single identifier, typically a path value.
func ObjectId(field, value string) []FieldError {
	if primitive.IsValidObjectID(value) {
		return nil
	}
	return []FieldError{{Field: field, Message: fmt.Sprintf("%s must be a valid id", field)}}
}

// fieldPath drops the root struct name: "CreateMovieRequest.genre[0]" -> "genre[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe)
	kind := fe.Kind()

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "min":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("%s cannot be more than %s characters", field, fe.Param())
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("%s cannot contain more than %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot be more than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "genre":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(Genres, ", "))
	case "objectid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "minyear":
		return fmt.Sprintf("%s must be %d or greater", field, MinMovieYear)
	case "maxyear":
		return fmt.Sprintf("%s cannot be later than %d", field, MaxMovieYear())
	}
	return fmt.Sprintf("%s is invalid", field)
}
