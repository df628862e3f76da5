package config

// SecretValue replaces secrets in dumped configuration.
const SecretValue = "<secret>"

// SecretString hides its value when marshalled.
type SecretString string

// MarshalJSON masks non-empty values.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte("\"" + SecretValue + "\""), nil
}

// MarshalYAML masks non-empty values.
func (s SecretString) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return SecretValue, nil
}
