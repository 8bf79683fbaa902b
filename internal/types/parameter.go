package types

import (
	"fmt"
	"log/slog"
)

// redactedPlaceholder replaces parameter values in logs and fmt output.
const redactedPlaceholder = "***REDACTED***"

// Parameter is a resolved parameter: a name and its decrypted value.
//
// Both fields are always set. Values are plaintext secrets, so String and
// LogValue redact them; read Value directly only where the plaintext is
// genuinely needed (writing the environment file).
type Parameter struct {
	Name  string
	Value string
}

// String returns the name with a redacted value. This is invoked by
// fmt.Sprintf, fmt.Println, and %v formatting of slices.
func (p Parameter) String() string {
	return fmt.Sprintf("%s=%s", p.Name, redactedPlaceholder)
}

// LogValue implements slog.LogValuer so a Parameter passed to a logger never
// leaks its value.
func (p Parameter) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", p.Name),
		slog.Int("value_length", len(p.Value)),
	)
}

// ParameterNames returns the names of params in order.
func ParameterNames(params []Parameter) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}
