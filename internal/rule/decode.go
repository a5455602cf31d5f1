package rule

import "fmt"

// Decode converts a generic value (the shape rules take after JSON, TOML, or
// script decoding) into a Rule. It checks structure only: every present field
// must have the right type, but fields may be absent. Emptiness is Validate's
// concern, evaluated separately by consumers that require complete rules. A
// disabled user rule, for instance, needs no command.
func Decode(v any) (Rule, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return Rule{}, &FieldError{Field: "rule", Expected: "object", Actual: typeName(v)}
	}

	var r Rule

	if cv, present := m["command"]; present && cv != nil {
		s, ok := cv.(string)
		if !ok {
			return Rule{}, &FieldError{Field: "command", Expected: "string", Actual: typeName(cv)}
		}
		r.Command = s
	}

	if kv, present := m["keys"]; present && kv != nil {
		keys, err := decodeKeys(kv)
		if err != nil {
			return Rule{}, err
		}
		r.Keys = keys
	}

	if sv, present := m["selector"]; present && sv != nil {
		s, ok := sv.(string)
		if !ok {
			return Rule{}, &FieldError{Field: "selector", Expected: "string", Actual: typeName(sv)}
		}
		r.Selector = s
	}

	if av, present := m["args"]; present && av != nil {
		args, ok := av.(map[string]any)
		if !ok {
			return Rule{}, &FieldError{Field: "args", Expected: "object", Actual: typeName(av)}
		}
		r.Args = args
	}

	if dv, present := m["disabled"]; present && dv != nil {
		d, ok := dv.(bool)
		if !ok {
			return Rule{}, &FieldError{Field: "disabled", Expected: "bool", Actual: typeName(dv)}
		}
		r.Disabled = d
	}

	return r, nil
}

// decodeKeys accepts both []string (rules built in Go) and []any of strings
// (rules decoded from JSON or TOML).
func decodeKeys(v any) ([]string, error) {
	switch kv := v.(type) {
	case []string:
		return append([]string(nil), kv...), nil
	case []any:
		keys := make([]string, 0, len(kv))
		for _, e := range kv {
			s, ok := e.(string)
			if !ok {
				return nil, &FieldError{Field: "keys", Expected: "string element", Actual: typeName(e)}
			}
			keys = append(keys, s)
		}
		return keys, nil
	default:
		return nil, &FieldError{Field: "keys", Expected: "array of strings", Actual: typeName(v)}
	}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
