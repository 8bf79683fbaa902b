package types

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

const testSecretValue = "super-secret-api-key-12345"

func TestParameter_StringRedactsValue(t *testing.T) {
	p := Parameter{Name: "API_KEY", Value: testSecretValue}

	for _, got := range []string{
		p.String(),
		fmt.Sprintf("%v", p),
		fmt.Sprintf("%s", []Parameter{p}),
	} {
		if strings.Contains(got, testSecretValue) {
			t.Errorf("formatted parameter leaked the value: %s", got)
		}
		if !strings.Contains(got, "API_KEY") {
			t.Errorf("formatted parameter lost the name: %s", got)
		}
	}
}

func TestParameter_LogValueRedactsValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logger.Info("resolved", "param", Parameter{Name: "API_KEY", Value: testSecretValue})

	out := buf.String()
	if strings.Contains(out, testSecretValue) {
		t.Fatalf("log output leaked the value: %s", out)
	}
	if !strings.Contains(out, `"name":"API_KEY"`) {
		t.Errorf("log output missing name: %s", out)
	}
	if !strings.Contains(out, fmt.Sprintf(`"value_length":%d`, len(testSecretValue))) {
		t.Errorf("log output missing value_length: %s", out)
	}
}

func TestParameterNames(t *testing.T) {
	params := []Parameter{
		{Name: "S2_TOKEN", Value: "a"},
		{Name: "S1_TOKEN", Value: "b"},
	}

	names := ParameterNames(params)
	if len(names) != 2 || names[0] != "S2_TOKEN" || names[1] != "S1_TOKEN" {
		t.Errorf("ParameterNames() = %v, want [S2_TOKEN S1_TOKEN]", names)
	}

	if got := ParameterNames(nil); len(got) != 0 {
		t.Errorf("ParameterNames(nil) = %v, want empty", got)
	}
}
