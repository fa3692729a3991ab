// =============================================================================
// rfmaker - Converter Module
// =============================================================================
//
// This module runs the conversion pipeline for a single resource file.
//
// CONVERSION PIPELINE:
//   1. Load the XML file and locate the <resource> root
//   2. Extract the <struct> elements into the in-memory model
//   3. Render the header text
//   4. Write <output>/<resource id>.hpp
//
// The folder driver (folder.go) runs this pipeline for every .xml file of the
// input directory, one file after the other.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/rfmaker/internal/config"
	"github.com/ginjaninja78/rfmaker/internal/extractor"
	"github.com/ginjaninja78/rfmaker/internal/hppwriter"
	"github.com/ginjaninja78/rfmaker/internal/logger"
	"github.com/ginjaninja78/rfmaker/internal/typemap"
	"github.com/ginjaninja78/rfmaker/internal/types"
	"github.com/ginjaninja78/rfmaker/internal/xmlloader"
	"github.com/ginjaninja78/rfmaker/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated header.
	// This is empty if processing failed.
	OutputFile string

	// ResourceName is the root id of the resource file.
	ResourceName string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// Structs is the number of structs written to the header.
	Structs int

	// Members is the number of members across all structs.
	Members int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single resource file.
type Converter struct {
	// xmlPath is the path to the input file.
	xmlPath string

	config *config.Config
	table  *typemap.Table
	files  *utils.FileManager
	logger logger.Logger
}

// New creates a new Converter for the file at xmlPath.
func New(xmlPath string, cfg *config.Config, table *typemap.Table, files *utils.FileManager, log logger.Logger) *Converter {
	if log == nil {
		log = logger.Nop()
	}
	return &Converter{
		xmlPath: xmlPath,
		config:  cfg,
		table:   table,
		files:   files,
		logger:  log,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.xmlPath,
	}

	c.logger.Debug("processing resource file", "file", c.xmlPath)

	// =========================================================================
	// STEP 1: LOAD XML
	// =========================================================================

	root, err := xmlloader.Load(c.files.Fs, c.xmlPath)
	if err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 2: EXTRACT STRUCTS
	// =========================================================================

	resource, err := extractor.Extract(root, c.config.ExtractOptions(c.xmlPath))
	if err != nil {
		result.Error = err
		return result
	}

	result.ResourceName = resource.Name
	result.Stats.Structs = len(resource.Structs)
	result.Stats.Members = resource.MemberCount()
	c.logger.Debug("extracted structs", "resource", resource.Name, "structs", result.Stats.Structs, "members", result.Stats.Members)

	// =========================================================================
	// STEP 3: GENERATE HEADER
	// =========================================================================

	header, err := hppwriter.GenerateWithOptions(resource.Name, resource.Structs, c.table, c.config.GenerateOptions(c.xmlPath))
	if err != nil {
		result.Error = fmt.Errorf("failed to generate header: %w", err)
		return result
	}

	// =========================================================================
	// STEP 4: WRITE OUTPUT FILE
	// =========================================================================

	outputPath, err := c.files.WriteOutput(OutputFileName(resource.Name), header)
	if err != nil {
		result.Error = err
		return result
	}

	result.OutputFile = outputPath
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	c.logger.Info(resource.Name+" successfully generated", "output", outputPath)

	return result
}

// OutputFileName returns the header file name for a resource id.
func OutputFileName(resourceName string) string {
	return resourceName + hppwriter.FileExtension
}

// ErrorType classifies err for logs and summaries.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, types.ErrMalformedInput):
		return "malformed input"
	case errors.Is(err, types.ErrOpenInput):
		return "input open failure"
	case errors.Is(err, types.ErrCreateOutput):
		return "output open failure"
	default:
		return "error"
	}
}
