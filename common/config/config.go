package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sunthewhat/easy-cert-batch/common"
	"github.com/sunthewhat/easy-cert-batch/common/util"
	"github.com/sunthewhat/easy-cert-batch/type/shared"
	"gopkg.in/yaml.v3"
)

const (
	DefaultKeepaliveSeconds = 15
	DefaultMonthLocale      = "en"
	DefaultCity             = "Москва"
	DefaultOnlinePad        = 2
)

func LoadConfig(path string) {
	yml, readErr := os.ReadFile(path)
	if readErr != nil {
		fatal("Failed to read config file", readErr, path)
	}

	config, parseErr := Parse(yml)
	if parseErr != nil {
		fatal("Invalid config file", parseErr, path)
	}

	common.Config = config
}

// Parse decodes and validates a YAML configuration document and fills in
// defaults for the optional keys.
func Parse(yml []byte) (*shared.Config, error) {
	config := new(shared.Config)

	if unmarshalErr := yaml.Unmarshal(yml, config); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	if validateErr := util.ValidateStruct(config); validateErr != nil {
		return nil, fmt.Errorf("config validation failed: %v", util.GetValidationErrors(validateErr))
	}

	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *shared.Config) {
	if config.KeepaliveSeconds == nil {
		config.KeepaliveSeconds = util.Ptr(DefaultKeepaliveSeconds)
	}
	if config.MonthLocale == nil {
		config.MonthLocale = util.Ptr(DefaultMonthLocale)
	}
	if config.DefaultCity == nil {
		config.DefaultCity = util.Ptr(DefaultCity)
	}
	if config.OnlineNamePad == nil {
		config.OnlineNamePad = util.Ptr(DefaultOnlinePad)
	}
	if config.OnlineCoursePad == nil {
		config.OnlineCoursePad = util.Ptr(DefaultOnlinePad)
	}
	if config.Renderers == nil {
		config.Renderers = map[string]string{}
	}
	if _, ok := config.Renderers["print"]; !ok {
		config.Renderers["print"] = "template"
	}
	if _, ok := config.Renderers["online"]; !ok {
		config.Renderers["online"] = "overlay"
	}
}

func fatal(msg string, err error, path string) {
	slog.Error(msg, "error", err, "path", path)
	os.Exit(1)
}
