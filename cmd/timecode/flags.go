package main

import (
	"strings"

	"github.com/freshell/timecode/internal/config"
)

// repeatedFlag collects a repeatable string flag (--meta k=v --meta k2=v2).
type repeatedFlag []string

func (f *repeatedFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *repeatedFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

// resolveTimeline falls back to the configured default when the flag is not
// passed. Returns "" when no timeline can be determined.
func resolveTimeline(flagValue string) string {
	if trimmed := strings.TrimSpace(flagValue); trimmed != "" {
		return trimmed
	}
	cfg, err := config.Load()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cfg.Timeline)
}

func configuredLabel() string {
	cfg, err := config.Load()
	if err != nil {
		return ""
	}
	return cfg.Label
}

func configuredExportDB() string {
	cfg, err := config.Load()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cfg.ExportDB)
}
