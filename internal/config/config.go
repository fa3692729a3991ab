// =============================================================================
// rfmaker - Configuration Module
// =============================================================================
//
// This module loads and validates the generator configuration.
//
// SOURCES (later wins):
//   1. Built-in defaults
//   2. The YAML configuration file (rfmaker.yaml, optional)
//   3. Command-line flags (applied by the cmd package)
//
// EXAMPLE:
//   input_dir: ./resources
//   output_dir: ./include/generated
//   verbose: true
//   log_format: json
//   continue_on_error: true
//   member_order: sorted
//   types:
//     - tag: vec2
//       type: glm::vec2
//       include: <glm/vec2.hpp>
//     - tag: path
//       type: std::string
//       include: <string>
//       quote: escaped
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/ginjaninja78/rfmaker/internal/extractor"
	"github.com/ginjaninja78/rfmaker/internal/hppwriter"
	"github.com/ginjaninja78/rfmaker/internal/logger"
	"github.com/ginjaninja78/rfmaker/internal/typemap"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when no --config
// flag is given. It is optional.
const DefaultConfigFile = "rfmaker.yaml"

// Log formats accepted by LogFormat.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the generator configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory scanned for .xml resource files.
	// Subdirectories are not descended into.
	InputDir string `yaml:"input_dir"`

	// OutputDir receives the generated <id>.hpp files.
	OutputDir string `yaml:"output_dir"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// Verbose writes diagnostics to stderr.
	Verbose bool `yaml:"verbose"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// ContinueOnError reports a failing file and moves on to the next one
	// instead of aborting the run.
	// Default: false
	ContinueOnError bool `yaml:"continue_on_error"`

	// MemberOrder is "document" or "sorted".
	// Default: "document"
	MemberOrder string `yaml:"member_order"`

	// AllowDuplicateMembers lets a repeated member id overwrite the earlier
	// one. When false a duplicate id is a malformed input error.
	AllowDuplicateMembers bool `yaml:"allow_duplicate_members"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// GuardPrefix and GuardSuffix surround the uppercased resource id in the
	// include guard.
	// Default: "RESOURCE_FILE_" and "_HPP"
	GuardPrefix string `yaml:"guard_prefix"`
	GuardSuffix string `yaml:"guard_suffix"`

	// DedupeIncludes writes each include once instead of once per member.
	DedupeIncludes bool `yaml:"dedupe_includes"`

	// Signature adds a "generated by" comment to every header.
	Signature bool `yaml:"signature"`

	// AggregateHeader, when set, names an extra header that includes every
	// generated header.
	AggregateHeader string `yaml:"aggregate_header"`

	// SummaryLog writes a processing summary file to the output directory.
	SummaryLog bool `yaml:"summary_log"`

	// =========================================================================
	// TYPE TABLE
	// =========================================================================

	// Types are extra type rules on top of the builtin "string" rule.
	Types []typemap.Rule `yaml:"types"`

	// TypesWorkbook is an optional XLSX file with more type rules.
	// Its rules are applied after Types.
	TypesWorkbook string `yaml:"types_workbook"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from path.
//
// RETURNS:
//   - The configuration with defaults applied. Validate is not called, so
//     flags can still be layered on top.
//   - An error if the file exists but cannot be read or parsed. A missing
//     file is only an error when required is true.
func Load(afs afero.Fs, path string, required bool) (*Config, error) {
	var config Config

	data, err := afero.ReadFile(afs, path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// No configuration file, defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ApplyDefaults(&config)
	return &config, nil
}

// ApplyDefaults sets default values for any unset configuration options.
func ApplyDefaults(config *Config) {
	if config.GuardPrefix == "" {
		config.GuardPrefix = hppwriter.DefaultGuardPrefix
	}
	if config.GuardSuffix == "" {
		config.GuardSuffix = hppwriter.DefaultGuardSuffix
	}
	if config.MemberOrder == "" {
		config.MemberOrder = string(extractor.OrderDocument)
	}
	if config.LogFormat == "" {
		config.LogFormat = LogFormatText
	}
}

// Validate checks the configuration. Input and output must name existing
// directories.
func (c *Config) Validate(afs afero.Fs) error {
	if c.InputDir == "" {
		return fmt.Errorf("no input directory given")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("no output directory given")
	}

	for _, dir := range []string{c.InputDir, c.OutputDir} {
		isDir, err := afero.IsDir(afs, dir)
		if err != nil {
			return fmt.Errorf("directory %s: %w", dir, err)
		}
		if !isDir {
			return fmt.Errorf("%s is not a directory", dir)
		}
	}

	if _, err := extractor.ParseMemberOrder(c.MemberOrder); err != nil {
		return err
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unknown log_format %q (want text or json)", c.LogFormat)
	}

	if strings.ContainsAny(c.AggregateHeader, `/\`) {
		return fmt.Errorf("aggregate_header must be a base name, got %q", c.AggregateHeader)
	}

	return nil
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// ExtractOptions returns the extractor options for file.
func (c *Config) ExtractOptions(file string) extractor.Options {
	order, _ := extractor.ParseMemberOrder(c.MemberOrder)
	return extractor.Options{
		File:                  file,
		MemberOrder:           order,
		AllowDuplicateMembers: c.AllowDuplicateMembers,
	}
}

// GenerateOptions returns the header writer options for file.
func (c *Config) GenerateOptions(file string) hppwriter.GenerateOptions {
	return hppwriter.GenerateOptions{
		GuardPrefix:    c.GuardPrefix,
		GuardSuffix:    c.GuardSuffix,
		DedupeIncludes: c.DedupeIncludes,
		Signature:      c.Signature,
		Source:         file,
	}
}

// LoggerConfig returns the logger settings derived from the configuration.
func (c *Config) LoggerConfig(output io.Writer) logger.Config {
	return logger.Config{
		Verbose:    c.Verbose,
		Output:     output,
		JSON:       c.LogFormat == LogFormatJSON,
		TimeFormat: "15:04:05",
	}
}

// TypeTable builds the type table from Types and TypesWorkbook.
func (c *Config) TypeTable(afs afero.Fs) (*typemap.Table, error) {
	table, err := typemap.New(c.Types...)
	if err != nil {
		return nil, fmt.Errorf("invalid types: %w", err)
	}

	if c.TypesWorkbook != "" {
		rules, err := typemap.LoadWorkbook(afs, c.TypesWorkbook)
		if err != nil {
			return nil, err
		}
		if err := table.Add(rules...); err != nil {
			return nil, fmt.Errorf("invalid types in %s: %w", c.TypesWorkbook, err)
		}
	}

	return table, nil
}
