package layouts

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-optionbuilder/schema"
)

// ErrRejectedPayload marks a snapshot blob that is malformed or carries
// anything other than plain maps, sequences and scalars.
var ErrRejectedPayload = errors.New("layouts: rejected payload")

// RejectError explains why Decode refused a blob.
type RejectError struct {
	Reason string
	Path   string
}

func (e *RejectError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("layouts: rejected payload: %s", e.Reason)
	}
	return fmt.Sprintf("layouts: rejected payload: %s at %s", e.Reason, e.Path)
}

func (e *RejectError) Unwrap() error { return ErrRejectedPayload }

// Keys that typed serializers use to tag object instances.
var objectMarkerKeys = map[string]struct{}{
	"__class":   {},
	"__type":    {},
	"__proto__": {},
	"$class":    {},
	"$type":     {},
	"@type":     {},
}

var serializedObject = regexp.MustCompile(`(?i)(^|[;{])[OC]:\d+:"[a-z0-9_\\]+":\d+:\{`)

// Encode serializes values as base64 JSON. A nil set encodes as an empty one.
func Encode(values schema.ValueSet) (string, error) {
	if values == nil {
		values = schema.ValueSet{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("layouts: encode: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode reverses Encode. It never panics: on any failure it returns an
// empty, non-nil ValueSet and an error wrapping ErrRejectedPayload.
func Decode(blob string) (schema.ValueSet, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return schema.ValueSet{}, &RejectError{Reason: "empty blob"}
	}
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return schema.ValueSet{}, &RejectError{Reason: "invalid base64"}
	}
	if !gjson.ValidBytes(raw) {
		return schema.ValueSet{}, &RejectError{Reason: "invalid json"}
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return schema.ValueSet{}, &RejectError{Reason: "top level is not a map"}
	}
	if err := inspect(root, ""); err != nil {
		return schema.ValueSet{}, err
	}

	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return schema.ValueSet{}, &RejectError{Reason: err.Error()}
	}
	if out == nil {
		return schema.ValueSet{}, nil
	}
	return schema.ValueSet(restoreNumbers(out).(map[string]any)), nil
}

// restoreNumbers turns decoded numbers back into int64 when integral and
// float64 otherwise, matching the values the validator produces.
func restoreNumbers(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, item := range typed {
			typed[key] = restoreNumbers(item)
		}
		return typed
	case []any:
		for i, item := range typed {
			typed[i] = restoreNumbers(item)
		}
		return typed
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return n
		}
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	}
	return value
}

func inspect(node gjson.Result, path string) error {
	var err error
	switch {
	case node.IsObject():
		node.ForEach(func(key, item gjson.Result) bool {
			name := key.String()
			at := join(path, name)
			if _, tagged := objectMarkerKeys[name]; tagged {
				err = &RejectError{Reason: "object type marker " + name, Path: at}
				return false
			}
			err = inspect(item, at)
			return err == nil
		})
	case node.IsArray():
		index := 0
		node.ForEach(func(_, item gjson.Result) bool {
			err = inspect(item, fmt.Sprintf("%s[%d]", path, index))
			index++
			return err == nil
		})
	case node.Type == gjson.String:
		if serializedObject.MatchString(node.String()) {
			err = &RejectError{Reason: "serialized object", Path: path}
		}
	}
	return err
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
