package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/sunthewhat/easy-cert-batch/api"
	"github.com/sunthewhat/easy-cert-batch/common"
	"github.com/sunthewhat/easy-cert-batch/common/config"
	"github.com/sunthewhat/easy-cert-batch/common/util"
	"github.com/sunthewhat/easy-cert-batch/internal/generator"
	"github.com/sunthewhat/easy-cert-batch/internal/layout"
)

func main() {
	configPath := pflag.String("config", "config.yml", "Path to the YAML config file")
	checkOnly := pflag.Bool("check-templates", false, "Print the template report and exit")
	pflag.Parse()

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		slog.Info(fmt.Sprintf(format, args...))
	})); err != nil {
		slog.Warn("Failed to set GOMAXPROCS", "error", err)
	}

	config.LoadConfig(*configPath)

	report := layout.CheckTemplates(*common.Config.TemplatesDir)
	if *checkOnly {
		printReport(report)
		if !report.Complete() {
			os.Exit(1)
		}
		return
	}
	if report.Complete() {
		slog.Info("All templates present", "dir", report.TemplatesDir, "count", len(report.Available))
	} else {
		slog.Warn("Templates missing", "dir", report.TemplatesDir, "missing", report.Missing)
	}

	if err := util.InitMinIO(); err != nil {
		slog.Error("Failed to initialize MinIO", "error", err)
		os.Exit(1)
	}

	service, err := generator.FromConfig(common.Config, common.MinIOClient)
	if err != nil {
		slog.Error("Failed to initialize generator", "error", err)
		os.Exit(1)
	}

	api.InitFiber(common.Config, service)
}

func printReport(report layout.TemplateReport) {
	fmt.Printf("templates dir: %s (exists: %t)\n", report.TemplatesDir, report.TemplatesDirExists)
	for _, name := range report.Available {
		fmt.Printf("  ok       %s\n", name)
	}
	for _, name := range report.Missing {
		fmt.Printf("  missing  %s\n", name)
	}
}
