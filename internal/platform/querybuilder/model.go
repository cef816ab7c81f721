package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an insert for a struct using its db tags as column
// names. Fields tagged "-" or without a db tag are skipped.
func InsertModel(table string, model any) (*InsertBuilder, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, fmt.Errorf("insert model is nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, fmt.Errorf("insert model must be a struct, got %s", value.Kind())
	}

	columns, values := collectModelFields(value)
	if len(columns) == 0 {
		return nil, fmt.Errorf("insert model has no db-tagged fields")
	}

	return InsertInto(table).Columns(columns...).Values(values...), nil
}

func collectModelFields(value reflect.Value) ([]string, []any) {
	t := value.Type()
	columns := make([]string, 0, t.NumField())
	values := make([]any, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nestedCols, nestedVals := collectModelFields(value.Field(i))
			columns = append(columns, nestedCols...)
			values = append(values, nestedVals...)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		column := strings.Split(tag, ",")[0]
		if column == "" {
			continue
		}

		columns = append(columns, column)
		values = append(values, value.Field(i).Interface())
	}

	return columns, values
}
