package question

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KaramelBytes/tabloom-cli/internal/filter"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError describes why a question definition was rejected.
type ValidationError struct {
	ID     int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: field %s %s", e.ID, e.Field, e.Reason)
}

// Validate checks required fields, the question type, the display structure
// and the syntax of the base filter.
func Validate(q Question) error {
	if err := validate.Struct(q); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			fe := ves[0]
			return &ValidationError{ID: q.ID, Field: fieldName(fe), Reason: reason(fe)}
		}
		return fmt.Errorf("question %d: %w", q.ID, err)
	}
	if q.QuestionType != Multi && len(q.QuestionVar) > 1 {
		return &ValidationError{ID: q.ID, Field: "question_var",
			Reason: fmt.Sprintf("takes one variable for %s questions, got %d", q.QuestionType, len(q.QuestionVar))}
	}
	if _, err := q.Categories(); err != nil {
		return fmt.Errorf("question %d: display_structure %w", q.ID, err)
	}
	if _, err := filter.Parse(q.BaseFilter); err != nil {
		return fmt.Errorf("question %d: base_filter: %w", q.ID, err)
	}
	return nil
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "min":
		return fmt.Sprintf("needs at least %s value(s)", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
