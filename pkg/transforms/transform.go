package transforms

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
)

// TransformDefinition overrides fields of every value of Type that satisfies
// both Match and When. Match compares fields by their string form, When is an
// expr expression evaluated with the value as environment.
type TransformDefinition struct {
	Type  string                 `yaml:"Type"`
	Match map[string]string      `yaml:"Match"`
	When  string                 `yaml:"When"`
	Data  map[string]interface{} `yaml:"Data"`

	// Overwrite replaces fields that already hold a value, by default only
	// empty fields are filled
	Overwrite bool `yaml:"Overwrite"`

	program *vm.Program
}

// Compile prepares the When expression. Definitions without one always pass.
func (t *TransformDefinition) Compile() error {
	if strings.TrimSpace(t.When) == "" {
		t.program = nil
		return nil
	}

	program, err := expr.Compile(t.When, expr.AsBool())
	if err != nil {
		return fmt.Errorf("compile transform condition %q: %w", t.When, err)
	}
	t.program = program

	return nil
}

func (t *TransformDefinition) Matches(typeName string, value reflect.Value) bool {
	if t.Type != "" && t.Type != typeName {
		return false
	}

	for key, expected := range t.Match {
		field := value.FieldByName(key)
		if !field.IsValid() || fieldString(field) != expected {
			return false
		}
	}

	if t.program != nil {
		result, err := expr.Run(t.program, value.Interface())
		if err != nil {
			log.Debug().Err(err).Str("when", t.When).Msg("Transform condition failed")
			return false
		}

		matched, _ := result.(bool)
		return matched
	}

	return true
}

// Apply writes Data into value, which must be an addressable struct.
func (t *TransformDefinition) Apply(value reflect.Value) int {
	changed := 0

	for key, data := range t.Data {
		field := value.FieldByName(key)
		if !field.IsValid() || !field.CanSet() {
			continue
		}

		if !t.Overwrite && !field.IsZero() {
			continue
		}

		if setField(field, data) {
			changed++
		}
	}

	return changed
}

func fieldString(field reflect.Value) string {
	if field.Kind() == reflect.String {
		return field.String()
	}

	return fmt.Sprint(field.Interface())
}

func setField(field reflect.Value, data interface{}) bool {
	dataValue := reflect.ValueOf(data)
	if !dataValue.IsValid() {
		field.Set(reflect.Zero(field.Type()))
		return true
	}

	switch {
	case field.Kind() == reflect.String && dataValue.Kind() != reflect.String:
		field.SetString(fmt.Sprint(data))
	case dataValue.Type().AssignableTo(field.Type()):
		field.Set(dataValue)
	case dataValue.Type().ConvertibleTo(field.Type()):
		field.Set(dataValue.Convert(field.Type()))
	default:
		log.Debug().
			Str("field", field.Type().String()).
			Str("data", dataValue.Type().String()).
			Msg("Transform data does not fit field")
		return false
	}

	return true
}
