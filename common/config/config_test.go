package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_AppliesDefaults(t *testing.T) {
	config, err := Parse([]byte("port: \":8000\"\ntemplates_dir: ./templates\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8000", *config.Port)
	assert.Equal(t, DefaultKeepaliveSeconds, *config.KeepaliveSeconds)
	assert.Equal(t, DefaultMonthLocale, *config.MonthLocale)
	assert.Equal(t, DefaultCity, *config.DefaultCity)
	assert.Equal(t, DefaultOnlinePad, *config.OnlineNamePad)
	assert.Equal(t, DefaultOnlinePad, *config.OnlineCoursePad)
	assert.Equal(t, "template", config.Renderers["print"])
	assert.Equal(t, "overlay", config.Renderers["online"])
	assert.Nil(t, config.Workers)
}

func TestParse_KeepsExplicitValues(t *testing.T) {
	yml := `
port: ":9000"
templates_dir: /srv/templates
workers: 4
month_locale: ru
keepalive_seconds: 5
renderers:
  print: overlay
`
	config, err := Parse([]byte(yml))
	require.NoError(t, err)

	assert.Equal(t, 4, *config.Workers)
	assert.Equal(t, "ru", *config.MonthLocale)
	assert.Equal(t, 5, *config.KeepaliveSeconds)
	assert.Equal(t, "overlay", config.Renderers["print"])
	assert.Equal(t, "overlay", config.Renderers["online"])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yml     string
		message string
	}{
		{"missing port", "templates_dir: ./t\n", "Port is required"},
		{"missing templates", "port: \":1\"\n", "TemplatesDir is required"},
		{"bad locale", "port: \":1\"\ntemplates_dir: ./t\nmonth_locale: de\n", "MonthLocale must be one of"},
		{"too many workers", "port: \":1\"\ntemplates_dir: ./t\nworkers: 99\n", "Workers must be at most 16"},
		{"bad renderer", "port: \":1\"\ntemplates_dir: ./t\nrenderers:\n  print: html\n", "must be one of"},
		{"bucket without endpoint", "port: \":1\"\ntemplates_dir: ./t\nbucket_archive: certs\n", "MinIoEndpoint is required"},
		{"not yaml", "port: [", "failed to unmarshal config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
