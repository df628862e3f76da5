package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names a declaration file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the declaration format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("schema: unsupported declaration file %q", path)
}

// LoadFile reads, decodes and normalizes a group declaration.
func LoadFile(path string) (Group, []*SchemaError, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Group{}, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Group{}, nil, fmt.Errorf("schema: read %q: %w", path, err)
	}
	return Load(data, format)
}

// Load decodes data strictly and normalizes the resulting group.
func Load(data []byte, format Format) (Group, []*SchemaError, error) {
	var group Group
	if err := decodeStrict(data, format, &group); err != nil {
		return Group{}, nil, err
	}
	normalized, problems := Normalize(group)
	return normalized, problems, nil
}

// DecodeDocument decodes data into generic maps, the shape Lint consumes.
func DecodeDocument(data []byte, format Format) (map[string]any, error) {
	var doc map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("schema: parse yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("schema: parse json: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("schema: parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("schema: unsupported format %q", format)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func decodeStrict(data []byte, format Format, out *Group) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("schema: parse yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("schema: parse json: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("schema: parse toml: %w", err)
		}
	default:
		return fmt.Errorf("schema: unsupported format %q", format)
	}
	return nil
}
