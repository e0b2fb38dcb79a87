package filter

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/travigo/cifparser/pkg/cif"
)

// Env is what a filter expression can see. Record holds the record fields by
// their Go names, with enums as plain strings and schedule times as HH:MM.
type Env struct {
	Identity string
	Source   string
	Record   map[string]any
}

type Filter struct {
	Expression string

	program *vm.Program
}

// Compile prepares an expression such as
//
//	Identity == "BS" && Record.STPIndicator == "O"
//
// An empty expression yields a nil Filter that matches everything.
func Compile(expression string) (*Filter, error) {
	if expression == "" {
		return nil, nil
	}

	program, err := expr.Compile(expression, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling filter %q: %w", expression, err)
	}

	return &Filter{
		Expression: expression,
		program:    program,
	}, nil
}

func (f *Filter) Match(source string, record cif.Record) (bool, error) {
	if f == nil {
		return true, nil
	}

	output, err := expr.Run(f.program, Env{
		Identity: string(record.Identity()),
		Source:   source,
		Record:   Fields(record),
	})
	if err != nil {
		return false, fmt.Errorf("running filter %q: %w", f.Expression, err)
	}

	return output.(bool), nil
}

// Fields flattens a record into a map keyed by field name.
func Fields(record cif.Record) map[string]any {
	fields := map[string]any{}
	collectFields(reflect.ValueOf(record), fields)

	return fields
}

var scheduleTimeType = reflect.TypeOf(cif.NoTime)

func collectFields(value reflect.Value, fields map[string]any) {
	valueType := value.Type()

	for i := 0; i < valueType.NumField(); i++ {
		field := valueType.Field(i)
		fieldValue := value.Field(i)

		switch {
		case field.Anonymous && field.Type.Kind() == reflect.Struct:
			collectFields(fieldValue, fields)
		case !field.IsExported():
			continue
		case field.Type == scheduleTimeType:
			fields[field.Name] = fieldValue.Interface().(cif.ScheduleTime).String()
		case field.Type.Kind() == reflect.String:
			fields[field.Name] = fieldValue.String()
		default:
			fields[field.Name] = fieldValue.Interface()
		}
	}
}
