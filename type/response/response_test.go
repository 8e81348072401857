package response_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunthewhat/easy-cert-batch/type/response"
)

func TestSuccess(t *testing.T) {
	withData := response.Success("Generation started", map[string]string{"job_id": "42"}, "ignored")
	require.NotNil(t, withData.Message)
	assert.True(t, withData.Success)
	assert.Equal(t, "Generation started", *withData.Message)
	assert.Equal(t, map[string]string{"job_id": "42"}, withData.Data)

	bare := response.Success("ok")
	assert.Nil(t, bare.Data)
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		msg      any
		expected string
	}{
		{"string message", "Result not ready", "Result not ready"},
		{"non-string message", 42, "Unknown Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := response.Error(tt.msg)
			require.NotNil(t, got.Message)
			assert.False(t, got.Success)
			assert.Equal(t, tt.expected, *got.Message)
		})
	}
}
