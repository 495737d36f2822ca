package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const helperVar = "XPENGINE_TEST_HELPER_VAR"

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  int
	}{
		{"unset", nil, 42},
		{"empty", strPtr(""), 42},
		{"valid", strPtr("100"), 100},
		{"zero", strPtr("0"), 0},
		{"negative", strPtr("-10"), -10},
		{"garbage", strPtr("ten"), 42},
		{"float", strPtr("42.5"), 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setOrUnset(t, tt.value)
			assert.Equal(t, tt.want, getEnvAsInt(helperVar, 42))
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  time.Duration
	}{
		{"unset", nil, 5 * time.Minute},
		{"seconds", strPtr("30s"), 30 * time.Second},
		{"hours", strPtr("2h"), 2 * time.Hour},
		{"composite", strPtr("1h30m"), 90 * time.Minute},
		{"bare number", strPtr("300"), 5 * time.Minute},
		{"garbage", strPtr("soon"), 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setOrUnset(t, tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration(helperVar, 5*time.Minute))
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv(helperVar, " 10.0.0.1, ,192.168.1.1 ,")
	assert.Equal(t, []string{"10.0.0.1", "192.168.1.1"}, getEnvAsList(helperVar))

	t.Setenv(helperVar, "")
	assert.Nil(t, getEnvAsList(helperVar))
}

func TestGetEnv_EmptyValueIsKept(t *testing.T) {
	t.Setenv(helperVar, "")
	assert.Equal(t, "", getEnv(helperVar, "fallback"))
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{DBUser: "xp", DBPassword: "pw", DBHost: "db", DBPort: "6543", DBName: "xpengine"}
	assert.Equal(t, "postgres://xp:pw@db:6543/xpengine?sslmode=disable", cfg.GetDBConnString())
}

func strPtr(s string) *string {
	return &s
}

// setOrUnset sets helperVar for the test, or clears it when value is nil
func setOrUnset(t *testing.T, value *string) {
	t.Helper()
	if value == nil {
		t.Setenv(helperVar, "")
		return
	}
	t.Setenv(helperVar, *value)
}
