// =============================================================================
// rfmaker - File Manager Utility
// =============================================================================
//
// This module provides the file handling used by the folder driver:
//   - Input directory listing (non-recursive, sorted)
//   - Output file writing with classified errors
//   - Error log generation
//   - Processing summary generation
//
// Every operation goes through an afero.Fs so the driver can run against the
// real disk or an in-memory filesystem.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/ginjaninja78/rfmaker/internal/types"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ResourceExtension is the extension of input files. The match is
// case-sensitive.
const ResourceExtension = ".xml"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the generator.
type FileManager struct {
	// Fs is the filesystem every operation uses.
	Fs afero.Fs

	// InputDir is the directory holding resource files.
	InputDir string

	// OutputDir is the directory receiving generated files.
	OutputDir string

	// RunID identifies this run in log file names.
	RunID string
}

// NewFileManager creates a FileManager with a fresh run id.
func NewFileManager(fs afero.Fs, inputDir, outputDir string) *FileManager {
	return &FileManager{
		Fs:        fs,
		InputDir:  inputDir,
		OutputDir: outputDir,
		RunID:     uuid.New().String(),
	}
}

// =============================================================================
// INPUT DISCOVERY
// =============================================================================

// Entry is one item of the input directory.
type Entry struct {
	// Name is the base name.
	Name string

	// Path is InputDir joined with Name.
	Path string

	// IsDir is true for subdirectories.
	IsDir bool
}

// IsResource reports whether the entry is a resource file to process.
func (e Entry) IsResource() bool {
	return !e.IsDir && filepath.Ext(e.Name) == ResourceExtension
}

// ListInput returns every entry of the input directory, sorted by name.
// Subdirectories are listed but not descended into.
func (fm *FileManager) ListInput() ([]Entry, error) {
	infos, err := afero.ReadDir(fm.Fs, fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{
			Name:  info.Name(),
			Path:  filepath.Join(fm.InputDir, info.Name()),
			IsDir: info.IsDir(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// =============================================================================
// OUTPUT WRITING
// =============================================================================

// OutputPath returns the path of a file named name in the output directory.
func (fm *FileManager) OutputPath(name string) string {
	return filepath.Join(fm.OutputDir, name)
}

// WriteOutput writes data to the output file called name and returns its
// path. Creation failures wrap types.ErrCreateOutput.
func (fm *FileManager) WriteOutput(name string, data []byte) (string, error) {
	path := fm.OutputPath(name)

	file, err := fm.Fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", types.ErrCreateOutput, path, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	// Close reports write-back errors some filesystems defer until here.
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	return path, nil
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single error log entry.
type ErrorLogEntry struct {
	Timestamp    time.Time
	FileName     string
	ErrorType    string
	ErrorMessage string
}

// WriteErrorLog writes error entries to error_log_<run id>.txt in the output
// directory and returns its path. Nothing is written when entries is empty.
func (fm *FileManager) WriteErrorLog(entries []ErrorLogEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logPath := fm.OutputPath(fmt.Sprintf("error_log_%s.txt", fm.RunID))

	file, err := fm.Fs.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "rfmaker - Error Log\n"+
		"Run:          %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		fm.RunID,
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n"+
			"  Timestamp:  %s\n"+
			"  File:       %s\n"+
			"  Error Type: %s\n"+
			"  Message:    %s\n\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.FileName,
			entry.ErrorType,
			entry.ErrorMessage)
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalEntries    int
	SkippedEntries  int
	SuccessfulFiles int
	FailedFiles     int
	TotalStructs    int
	TotalMembers    int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully processed file.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFile  string
	Structs     int
	Members     int
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
	ErrorType    string
}

// WriteSummaryLog writes processing_summary_<run id>.txt to the output
// directory and returns its path.
func (fm *FileManager) WriteSummaryLog(summary ProcessingSummary) (string, error) {
	summaryPath := fm.OutputPath(fmt.Sprintf("processing_summary_%s.txt", fm.RunID))

	file, err := fm.Fs.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "rfmaker - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run:            %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Entries:        %d\n"+
		"  Skipped:        %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n"+
		"  Structs:        %d\n"+
		"  Members:        %d\n\n",
		fm.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalEntries,
		summary.SkippedEntries,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalStructs,
		summary.TotalMembers)

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(writer, "  Output:       %s\n", pf.OutputFile)
			fmt.Fprintf(writer, "  Structs:      %d\n", pf.Structs)
			fmt.Fprintf(writer, "  Members:      %d\n", pf.Members)
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			fmt.Fprintf(writer, "  Type:  %s\n", ff.ErrorType)
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}
