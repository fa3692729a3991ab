// =============================================================================
// rfmaker - Folder Driver
// =============================================================================
//
// Folder runs the conversion pipeline over every entry of the input directory.
//
// PROCESSING PIPELINE:
//   1. List the input directory (non-recursive, sorted by name)
//   2. For each entry:
//      a. not a .xml file -> one diagnostic, nothing written
//      b. .xml file       -> Converter.Run
//   3. On failure:
//      - continue_on_error = false: stop and return the error
//      - continue_on_error = true:  record it and go on
//   4. Write the aggregate header, error log and summary as configured;
//      the summary is also written when the run aborts
//
// Files are processed sequentially; one file is read, converted and written
// before the next one is opened.
//
// =============================================================================

package converter

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/rfmaker/internal/config"
	"github.com/ginjaninja78/rfmaker/internal/hppwriter"
	"github.com/ginjaninja78/rfmaker/internal/logger"
	"github.com/ginjaninja78/rfmaker/internal/typemap"
	"github.com/ginjaninja78/rfmaker/pkg/utils"
)

// =============================================================================
// BATCH ERROR
// =============================================================================

// FileError pairs a failing input file with its error.
type FileError struct {
	File string
	Err  error
}

// BatchError is returned in continue-on-error mode when at least one file
// failed.
type BatchError struct {
	Failures []FileError
	Total    int
}

func (e *BatchError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.File
	}
	return fmt.Sprintf("%d of %d resource file(s) failed: %s", len(e.Failures), e.Total, strings.Join(names, ", "))
}

// Unwrap exposes every file error to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// =============================================================================
// FOLDER PROCESSING
// =============================================================================

// Folder converts every resource file of files.InputDir.
//
// RETURNS:
//   - The processing summary, also when an error is returned.
//   - The first error in abort mode, or a *BatchError in continue mode.
func Folder(cfg *config.Config, table *typemap.Table, files *utils.FileManager, log logger.Logger) (*utils.ProcessingSummary, error) {
	if log == nil {
		log = logger.Nop()
	}

	summary := &utils.ProcessingSummary{StartTime: time.Now()}

	entries, err := files.ListInput()
	if err != nil {
		return summary, err
	}
	summary.TotalEntries = len(entries)

	var (
		failures  []FileError
		errorLog  []utils.ErrorLogEntry
		generated []string
		producers = make(map[string]string)
		resources int
	)

	for _, entry := range entries {
		if !entry.IsResource() {
			summary.SkippedEntries++
			log.Info(entry.Name+" is not an xml file, ignoring", "path", entry.Path)
			continue
		}
		resources++

		result := New(entry.Path, cfg, table, files, log).Run()
		if !result.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    entry.Path,
				ErrorMessage: result.Error.Error(),
				ErrorType:    ErrorType(result.Error),
			})

			if !cfg.ContinueOnError {
				summary.EndTime = time.Now()
				writeSummary(cfg, files, summary, log)
				return summary, result.Error
			}

			log.Error("skipping resource file", "file", entry.Path, "err", result.Error)
			failures = append(failures, FileError{File: entry.Name, Err: result.Error})
			errorLog = append(errorLog, utils.ErrorLogEntry{
				Timestamp:    time.Now(),
				FileName:     entry.Path,
				ErrorType:    ErrorType(result.Error),
				ErrorMessage: result.Error.Error(),
			})
			continue
		}

		name := OutputFileName(result.ResourceName)
		if previous, ok := producers[name]; ok {
			log.Warn(name+" overwritten", "first", previous, "second", entry.Path)
		} else {
			generated = append(generated, name)
		}
		producers[name] = entry.Path

		summary.SuccessfulFiles++
		summary.TotalStructs += result.Stats.Structs
		summary.TotalMembers += result.Stats.Members
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   entry.Path,
			OutputFile:  result.OutputFile,
			Structs:     result.Stats.Structs,
			Members:     result.Stats.Members,
			ProcessTime: result.Stats.ProcessingTime,
		})
	}

	if cfg.AggregateHeader != "" {
		if len(failures) > 0 {
			log.Warn("aggregate header not written, some files failed", "header", cfg.AggregateHeader)
		} else if err := writeAggregate(cfg, files, generated, log); err != nil {
			summary.EndTime = time.Now()
			writeSummary(cfg, files, summary, log)
			return summary, err
		}
	}

	summary.EndTime = time.Now()
	writeSummary(cfg, files, summary, log)

	if len(failures) > 0 {
		path, err := files.WriteErrorLog(errorLog)
		if err != nil {
			log.Warn("failed to write error log", "err", err)
		} else {
			log.Info("errors have been logged", "path", path)
		}
		return summary, &BatchError{Failures: failures, Total: resources}
	}

	return summary, nil
}

// writeSummary writes the processing summary when cfg.SummaryLog is set.
// A failure is only logged; it never changes the outcome of the run.
func writeSummary(cfg *config.Config, files *utils.FileManager, summary *utils.ProcessingSummary, log logger.Logger) {
	if !cfg.SummaryLog {
		return
	}
	path, err := files.WriteSummaryLog(*summary)
	if err != nil {
		log.Warn("failed to write summary", "err", err)
		return
	}
	log.Debug("summary written", "path", path)
}

// writeAggregate writes the header that includes every generated header.
func writeAggregate(cfg *config.Config, files *utils.FileManager, generated []string, log logger.Logger) error {
	name := OutputFileName(cfg.AggregateHeader)
	for _, g := range generated {
		if g == name {
			return fmt.Errorf("aggregate header %s clashes with a generated header", name)
		}
	}

	options := cfg.GenerateOptions("")
	data, err := hppwriter.GenerateAggregate(cfg.AggregateHeader, generated, options)
	if err != nil {
		return fmt.Errorf("failed to generate aggregate header: %w", err)
	}

	path, err := files.WriteOutput(name, data)
	if err != nil {
		return err
	}

	log.Info(cfg.AggregateHeader+" successfully generated", "output", path, "headers", len(generated))
	return nil
}
