package quantum

import "fmt"

// Options carries backend-specific configuration keys (simulator type, shot
// count, seeds, credentials). The facade forwards it verbatim to the
// selected adapter; interpretation is entirely adapter-owned.
type Options map[string]any

// String returns the string value under key, or fallback when the key is
// absent or not a string.
func (o Options) String(key, fallback string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return fallback
}

// Int returns the integer value under key, accepting the numeric types JSON
// decoding produces. Falls back when absent or non-numeric.
func (o Options) Int(key string, fallback int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// Require returns the string under key or an error naming the missing key.
func (o Options) Require(key string) (string, error) {
	v, ok := o[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("backend option %q is required", key)
	}
	return v, nil
}
