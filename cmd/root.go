// =============================================================================
// rfmaker - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the root
// command converts every XML resource file of the input directory into a C++
// header in the output directory.
//
// COBRA CLI STRUCTURE:
//   rootCmd (rfmaker -i in -o out)
//   ├── typesCmd   (rfmaker types)
//   └── versionCmd (rfmaker version)
//
// EXIT STATUS:
//   0  if OK
//   1  if problems (missing or nonexistent input/output, help requested,
//      any failing resource file)
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/rfmaker/internal/config"
	"github.com/ginjaninja78/rfmaker/internal/converter"
	"github.com/ginjaninja78/rfmaker/internal/extractor"
	"github.com/ginjaninja78/rfmaker/internal/logger"
	"github.com/ginjaninja78/rfmaker/pkg/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// options holds the flag values of the root command.
type options struct {
	cfgFile         string
	input           string
	output          string
	verbose         bool
	logFormat       string
	continueOnError bool
	typesWorkbook   string
	sortedMembers   bool
	dedupeIncludes  bool
	signature       bool
	aggregate       string
	summary         bool
}

// helpShown is set when usage was printed; help is an exit-1 path.
var helpShown bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// NewRootCommand builds the CLI. fs is the filesystem every command works on.
func NewRootCommand(fs afero.Fs, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "rfmaker -i <input> -o <output> [options]",
		Short: "Read XML files to produce header files in C++",
		Long: `rfmaker reads every XML resource file of the input folder and writes one
C++ header per file to the output folder.

Each <resource id="Name"> file becomes Name.hpp. Every <struct id="S"> element
becomes a "static struct S_s { ... } S;" declaration and every child element of
a struct becomes a "static inline const" member: the tag is the type, the id
attribute is the name and the text is the value.

Example Usage:
  rfmaker -i ./resources -o ./include            # Generate headers
  rfmaker -i ./resources -o ./include -v         # Print diagnostics to stderr
  rfmaker -i ./resources -o ./include --continue-on-error`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, fs, stderr, opts)
		},
	}

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", config.DefaultConfigFile,
		"Path to the configuration file (optional)")
	rootCmd.PersistentFlags().StringVar(&opts.typesWorkbook, "types-workbook", "",
		"XLSX workbook with extra type rules")

	// ==========================================================================
	// LOCAL FLAGS
	// ==========================================================================

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "folder containing XML files")
	flags.StringVarP(&opts.output, "output", "o", "", "folder to which output the resource files based on the input option")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "toggle the logs")
	flags.StringVar(&opts.logFormat, "log-format", config.LogFormatText, "log format: text or json")
	flags.BoolVar(&opts.continueOnError, "continue-on-error", false, "report a failing file and continue with the others")
	flags.BoolVar(&opts.sortedMembers, "sorted-members", false, "emit struct members sorted by id instead of document order")
	flags.BoolVar(&opts.dedupeIncludes, "dedupe-includes", false, "write each include once")
	flags.BoolVar(&opts.signature, "signature", false, "add a generated-by comment to every header")
	flags.StringVar(&opts.aggregate, "aggregate", "", "also write <name>.hpp including every generated header")
	flags.BoolVar(&opts.summary, "summary", false, "write a processing summary to the output folder")

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpShown = true
		defaultHelp(cmd, args)
	})

	rootCmd.AddCommand(newTypesCommand(fs, opts))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI against the real filesystem. It is called by main.main.
func Execute() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit status.
func run(args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	helpShown = false

	rootCmd := NewRootCommand(fs, stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if len(args) == 0 {
		rootCmd.SetOut(stderr)
		rootCmd.Usage()
		return 1
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if helpShown {
		return 1
	}
	return 0
}

// =============================================================================
// GENERATION
// =============================================================================

// loadConfig reads the config file and layers the flags that were set on top.
func loadConfig(cmd *cobra.Command, fs afero.Fs, opts *options) (*config.Config, error) {
	required := cmd.Flags().Changed("config")
	cfg, err := config.Load(fs, opts.cfgFile, required)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputDir = opts.input
	}
	if flags.Changed("output") {
		cfg.OutputDir = opts.output
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if flags.Changed("continue-on-error") {
		cfg.ContinueOnError = opts.continueOnError
	}
	if flags.Changed("types-workbook") {
		cfg.TypesWorkbook = opts.typesWorkbook
	}
	if flags.Changed("sorted-members") && opts.sortedMembers {
		cfg.MemberOrder = string(extractor.OrderSorted)
	}
	if flags.Changed("dedupe-includes") {
		cfg.DedupeIncludes = opts.dedupeIncludes
	}
	if flags.Changed("signature") {
		cfg.Signature = opts.signature
	}
	if flags.Changed("aggregate") {
		cfg.AggregateHeader = opts.aggregate
	}
	if flags.Changed("summary") {
		cfg.SummaryLog = opts.summary
	}

	return cfg, nil
}

// runGenerate validates the configuration and runs the folder driver.
func runGenerate(cmd *cobra.Command, fs afero.Fs, stderr io.Writer, opts *options) error {
	cfg, err := loadConfig(cmd, fs, opts)
	if err != nil {
		return err
	}

	if err := cfg.Validate(fs); err != nil {
		return err
	}

	log := logger.New(cfg.LoggerConfig(stderr))

	table, err := cfg.TypeTable(fs)
	if err != nil {
		return err
	}

	files := utils.NewFileManager(fs, cfg.InputDir, cfg.OutputDir)
	summary, err := converter.Folder(cfg, table, files, log)
	if summary != nil {
		log.Debug("run complete",
			"run", files.RunID,
			"generated", summary.SuccessfulFiles,
			"skipped", summary.SkippedEntries,
			"failed", summary.FailedFiles,
			"elapsed", summary.EndTime.Sub(summary.StartTime))
	}
	return err
}
