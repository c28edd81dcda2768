package venmo

import (
	"fmt"
	"strings"
)

// extractData returns body.data, descending through nested keys when given.
func extractData(env *Envelope, nested ...string) (any, error) {
	if env == nil || len(env.Body) == 0 {
		return nil, &DeserializeError{Reason: "no body to read data from", Err: ErrEmptyBody}
	}

	data, ok := env.Body["data"]
	if !ok || data == nil {
		return nil, &DeserializeError{Reason: "body has no data field"}
	}
	if len(nested) == 0 {
		return data, nil
	}

	v, ok := descend(data, nested...)
	if !ok {
		return nil, &DeserializeError{
			Reason: fmt.Sprintf("could not find data.%s in the response", strings.Join(nested, ".")),
		}
	}
	return v, nil
}

// deserializeOne decodes a single record from the envelope. A record the
// decoder rejects yields nil without an error.
func deserializeOne[T any](env *Envelope, decode func(any) *T, nested ...string) (*T, error) {
	data, err := extractData(env, nested...)
	if err != nil {
		return nil, err
	}

	if _, isList := data.([]any); isList {
		return nil, &DeserializeError{Reason: "expected a single object but got a list"}
	}
	return decode(data), nil
}

// deserializeList decodes every element of a list payload, dropping those the
// decoder rejects. A single object payload is treated as a one-element list.
func deserializeList[T any](env *Envelope, decode func(any) *T, nested ...string) ([]T, error) {
	data, err := extractData(env, nested...)
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []any:
		return decodeAll(v, decode), nil
	case map[string]any:
		return decodeAll([]any{v}, decode), nil
	default:
		return nil, &DeserializeError{Reason: fmt.Sprintf("unexpected data of type %T", data)}
	}
}
