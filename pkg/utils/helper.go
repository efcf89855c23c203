package utils

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/go-querystring/query"
)

// FormatObject renders obj as indented JSON. Exported struct fields holding
// funcs or channels print as a placeholder; unexported fields are skipped.
func FormatObject(obj interface{}) (string, error) {
	v := reflect.Indirect(reflect.ValueOf(obj))
	if v.Kind() != reflect.Struct {
		return marshalIndent(obj)
	}

	fields := make(map[string]interface{}, v.NumField())
	for i := 0; i < v.NumField(); i++ {
		field, value := v.Type().Field(i), v.Field(i)
		if !field.IsExported() {
			continue
		}
		switch value.Kind() {
		case reflect.Func, reflect.Chan:
			fields[field.Name] = "<" + value.Kind().String() + ">"
		default:
			fields[field.Name] = value.Interface()
		}
	}
	return marshalIndent(fields)
}

func marshalIndent(v interface{}) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func EncodeURLParams(params interface{}) (string, error) {
	v, err := query.Values(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode url param: %w", err)
	}
	return v.Encode(), nil
}

func BeautifyJSON(data []byte) string {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return string(data)
	}
	pretty, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return string(data)
	}
	return string(pretty)
}
