package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generateForm struct {
	Mode string `validate:"required,oneof=print online"`
}

type poolSettings struct {
	Workers int `validate:"min=1,max=16"`
}

type archiveSettings struct {
	Bucket   string
	Endpoint string `validate:"required_with=Bucket"`
}

type rendererChoice struct {
	Renderers map[string]string `validate:"dive,keys,oneof=print online,endkeys,oneof=template overlay"`
}

func TestValidateStruct_ValidData(t *testing.T) {
	assert.NoError(t, ValidateStruct(generateForm{Mode: "print"}))
	assert.NoError(t, ValidateStruct(poolSettings{Workers: 4}))
	assert.NoError(t, ValidateStruct(archiveSettings{}))
	assert.NoError(t, ValidateStruct(rendererChoice{Renderers: map[string]string{"online": "overlay"}}))
}

func TestGetValidationErrors_Messages(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"required", generateForm{}, "Mode is required"},
		{"oneof", generateForm{Mode: "fax"}, "Mode must be one of: print online"},
		{"min", poolSettings{Workers: 0}, "Workers must be at least 1"},
		{"max", poolSettings{Workers: 64}, "Workers must be at most 16"},
		{"required_with", archiveSettings{Bucket: "archive"}, "Endpoint is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			require.Error(t, err)

			messages := GetValidationErrors(err)
			require.Len(t, messages, 1)
			assert.Equal(t, tt.expected, messages[0])
		})
	}
}

func TestGetValidationErrors_MapKeys(t *testing.T) {
	err := ValidateStruct(rendererChoice{Renderers: map[string]string{"web": "template"}})
	require.Error(t, err)

	messages := GetValidationErrors(err)
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[0], "must be one of")
}

func TestGetValidationErrors_NonValidationError(t *testing.T) {
	messages := GetValidationErrors(errors.New("boom"))
	assert.Equal(t, []string{"boom"}, messages)
}

func TestGetValidationErrors_NilError(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
}

func TestDeref(t *testing.T) {
	assert.Equal(t, 3, Deref(Ptr(3), 7))
	assert.Equal(t, 7, Deref[int](nil, 7))
	assert.Equal(t, "x", *Ptr("x"))
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest([]byte("abc")), Digest([]byte("abc")))
	assert.NotEqual(t, Digest([]byte("abc")), Digest([]byte("abd")))
	assert.Len(t, Digest(nil), 64)
}
