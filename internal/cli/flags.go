// Package cli holds flag parsing and plain-text output shared by the
// command-line tools.
package cli

import (
	"flag"
	"fmt"

	"github.com/smartbudget/recurring-backend/internal/infrastructure/config"
	"github.com/smartbudget/recurring-backend/internal/service"
)

// LoadConfig loads an explicit config file when given, otherwise falls back
// to config.yaml and the environment.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOrEnv(), nil
}

// ImportFlags configures the import command.
type ImportFlags struct {
	ConfigPath string
	DBPath     string
	Account    string
	File       string
}

// ParseImportFlags parses the import command line.
func ParseImportFlags() (ImportFlags, error) {
	var flags ImportFlags
	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file (default: config.yaml, then env)")
	flag.StringVar(&flags.DBPath, "db", "", "SQLite database path (overrides config)")
	flag.StringVar(&flags.Account, "account", "checking", "Account name to import into")
	flag.StringVar(&flags.File, "file", "", "CSV statement file (default: stdin)")
	flag.Parse()

	if flags.Account == "" {
		return flags, fmt.Errorf("-account must not be empty")
	}
	return flags, nil
}

// DetectFlags configures the detect command.
type DetectFlags struct {
	ConfigPath     string
	DBPath         string
	Account        string
	Kind           string
	MinOccurrences int
	MinConfidence  float64
	LookbackMonths int
	Persist        bool
}

// ParseDetectFlags parses the detect command line.
func ParseDetectFlags() (DetectFlags, error) {
	defaults := service.DefaultParams()

	var flags DetectFlags
	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file (default: config.yaml, then env)")
	flag.StringVar(&flags.DBPath, "db", "", "SQLite database path (overrides config)")
	flag.StringVar(&flags.Account, "account", "checking", "Account name to analyze")
	flag.StringVar(&flags.Kind, "kind", "autopays", "Detection kind: autopays or deposits")
	flag.IntVar(&flags.MinOccurrences, "min-occurrences", defaults.MinOccurrences, "Minimum occurrences per series")
	flag.Float64Var(&flags.MinConfidence, "min-confidence", defaults.MinConfidence, "Minimum confidence threshold")
	flag.IntVar(&flags.LookbackMonths, "lookback", defaults.LookbackMonths, "Months of history to analyze")
	flag.BoolVar(&flags.Persist, "persist", true, "Store the detection run in the database")
	flag.Parse()

	if flags.Kind != "autopays" && flags.Kind != "deposits" {
		return flags, fmt.Errorf("-kind must be autopays or deposits, got %q", flags.Kind)
	}
	if flags.MinOccurrences < 1 {
		return flags, fmt.Errorf("-min-occurrences must be at least 1")
	}
	if flags.MinConfidence < 0 || flags.MinConfidence > 1 {
		return flags, fmt.Errorf("-min-confidence must be between 0 and 1")
	}
	return flags, nil
}

// ToParams converts detect flags to service parameters.
func (f DetectFlags) ToParams() service.Params {
	return service.Params{
		MinOccurrences: f.MinOccurrences,
		MinConfidence:  f.MinConfidence,
		LookbackMonths: f.LookbackMonths,
		Persist:        f.Persist,
	}
}
