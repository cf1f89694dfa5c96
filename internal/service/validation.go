package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Rahnken/recipe-tracker/internal/models"
	"github.com/Rahnken/recipe-tracker/internal/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool {
			return models.MealType(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

// validateStruct runs the struct tags of s and converts failures into a
// *ValidationError keyed by JSON field path.
func validateStruct(s interface{}) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
		})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "mealtype":
		return fmt.Sprintf("unknown meal type %q", fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// normalizeRecipeInput trims text fields, applies defaults and checks the
// rules struct tags cannot express.
func normalizeRecipeInput(in *types.RecipeInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.SourceURL = strings.TrimSpace(in.SourceURL)
	for i := range in.Ingredients {
		in.Ingredients[i].Unit = strings.TrimSpace(in.Ingredients[i].Unit)
		in.Ingredients[i].Notes = strings.TrimSpace(in.Ingredients[i].Notes)
	}
	for i := range in.Instructions {
		in.Instructions[i].Step = strings.TrimSpace(in.Instructions[i].Step)
	}

	if err := validateStruct(in); err != nil {
		return err
	}

	verr := &ValidationError{}
	seenOrder := make(map[int]bool, len(in.Instructions))
	for i, step := range in.Instructions {
		if seenOrder[step.OrderIndex] {
			verr.Fields = append(verr.Fields, FieldError{
				Field:   fmt.Sprintf("instructions[%d].order_index", i),
				Message: "must be unique within the recipe",
			})
		}
		seenOrder[step.OrderIndex] = true
	}
	verr.Fields = append(verr.Fields, duplicateIDs("ingredients", idsOf(in.Ingredients, func(x types.RecipeIngredientInput) string { return x.ID }))...)
	verr.Fields = append(verr.Fields, duplicateIDs("instructions", idsOf(in.Instructions, func(x types.RecipeInstructionInput) string { return x.ID }))...)
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func idsOf[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func duplicateIDs(field string, ids []string) []FieldError {
	var out []FieldError
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if id == "" {
			continue
		}
		if seen[id] {
			out = append(out, FieldError{
				Field:   fmt.Sprintf("%s[%d].id", field, i),
				Message: "appears more than once",
			})
		}
		seen[id] = true
	}
	return out
}
