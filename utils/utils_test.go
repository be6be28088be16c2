package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeframe(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "30d", want: 30 * 24 * time.Hour},
		{in: " 1d ", want: 24 * time.Hour},
		{in: "0d", wantErr: true},
		{in: "-3d", wantErr: true},
		{in: "7", wantErr: true},
		{in: "7h", wantErr: true},
		{in: "d", wantErr: true},
		{in: "9999d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeframe(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("BEHAVIOR_TEST_STR", "x")
	t.Setenv("BEHAVIOR_TEST_INT", "12")
	t.Setenv("BEHAVIOR_TEST_BAD_INT", "twelve")
	t.Setenv("BEHAVIOR_TEST_BOOL", "true")

	assert.Equal(t, "x", GetEnv("BEHAVIOR_TEST_STR", "y"))
	assert.Equal(t, "y", GetEnv("BEHAVIOR_TEST_MISSING", "y"))
	assert.Equal(t, 12, GetEnvInt("BEHAVIOR_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvInt("BEHAVIOR_TEST_BAD_INT", 1))
	assert.True(t, GetEnvBool("BEHAVIOR_TEST_BOOL", false))
	assert.Equal(t, 12*time.Second, GetEnvSeconds("BEHAVIOR_TEST_INT", time.Minute))
	assert.Equal(t, time.Minute, GetEnvSeconds("BEHAVIOR_TEST_MISSING", time.Minute))
}
