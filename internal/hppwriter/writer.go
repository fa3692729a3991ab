// =============================================================================
// rfmaker - Header Writer Module
// =============================================================================
//
// This module generates C++ header text from the extracted resource model.
//
// HEADER STRUCTURE:
//   For <resource id="Colors"> holding <struct id="Red"> with one string member:
//
//   #ifndef RESOURCE_FILE_COLORS_HPP                       <- guard
//   #define RESOURCE_FILE_COLORS_HPP
//
//   #include <string>                                      <- one line per member
//   static struct Red_s {                                  <- one block per struct
//   	static inline const std::string hex = "#FF0000";
//   } Red;
//
//   #endif /* !RESOURCE_FILE_COLORS_HPP */                 <- footer
//
// The include section follows the historical layout by default: one line per
// member across all structs, a blank line for members whose type needs no
// include, and no deduplication. GenerateOptions.DedupeIncludes switches to a
// sorted, deduplicated list.
//
// =============================================================================

package hppwriter

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ginjaninja78/rfmaker/internal/typemap"
	"github.com/ginjaninja78/rfmaker/internal/types"
)

// =============================================================================
// GENERATION OPTIONS
// =============================================================================

const (
	// DefaultGuardPrefix is prepended to the uppercased output name.
	DefaultGuardPrefix = "RESOURCE_FILE_"

	// DefaultGuardSuffix is appended to the uppercased output name.
	DefaultGuardSuffix = "_HPP"

	// FileExtension is the extension of generated headers.
	FileExtension = ".hpp"
)

// GenerateOptions contains options for header generation.
type GenerateOptions struct {
	// GuardPrefix and GuardSuffix surround the uppercased name in the
	// include guard macro.
	GuardPrefix string
	GuardSuffix string

	// DedupeIncludes writes each distinct include once, sorted, instead of
	// one line per member.
	DedupeIncludes bool

	// Signature adds a "generated by" comment naming Source after the guard.
	Signature bool

	// Source is the input file the header is generated from.
	Source string
}

// DefaultGenerateOptions returns the options that reproduce the historical
// output byte for byte.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		GuardPrefix: DefaultGuardPrefix,
		GuardSuffix: DefaultGuardSuffix,
	}
}

// =============================================================================
// GUARD
// =============================================================================

// GuardName returns the include guard macro for name.
// name itself is left untouched.
func GuardName(prefix, name, suffix string) string {
	return prefix + strings.ToUpper(name) + suffix
}

// =============================================================================
// GENERATION FUNCTIONS
// =============================================================================

// Generate renders the header for a resource named name.
func Generate(name string, structs []types.ResourceStruct, table *typemap.Table) ([]byte, error) {
	return GenerateWithOptions(name, structs, table, DefaultGenerateOptions())
}

// GenerateWithOptions renders the header with custom options.
func GenerateWithOptions(name string, structs []types.ResourceStruct, table *typemap.Table, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer
	if err := Write(&buffer, name, structs, table, options); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Write renders the header to w.
func Write(w io.Writer, name string, structs []types.ResourceStruct, table *typemap.Table, options GenerateOptions) error {
	if name == "" {
		return fmt.Errorf("header name is empty")
	}
	if table == nil {
		return fmt.Errorf("type table is nil")
	}

	guard := GuardName(options.GuardPrefix, name, options.GuardSuffix)

	var buffer bytes.Buffer
	writeHeader(&buffer, guard, options)
	writeIncludes(&buffer, structs, table, options)
	for i := range structs {
		writeStruct(&buffer, &structs[i], table)
	}
	writeFooter(&buffer, guard)

	if _, err := w.Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("failed to write header %s: %w", name, err)
	}
	return nil
}

// =============================================================================
// SECTION WRITERS
// =============================================================================

// writeHeader writes the opening guard and the optional signature.
func writeHeader(buffer *bytes.Buffer, guard string, options GenerateOptions) {
	fmt.Fprintf(buffer, "#ifndef %s\n", guard)
	fmt.Fprintf(buffer, "#define %s\n\n", guard)

	switch {
	case !options.Signature:
	case options.Source == "":
		buffer.WriteString("// Generated by rfmaker. DO NOT EDIT.\n\n")
	default:
		fmt.Fprintf(buffer, "// Generated by rfmaker from %s. DO NOT EDIT.\n\n", filepath.Base(options.Source))
	}
}

// writeIncludes writes the include section.
func writeIncludes(buffer *bytes.Buffer, structs []types.ResourceStruct, table *typemap.Table, options GenerateOptions) {
	if options.DedupeIncludes {
		seen := make(map[string]bool)
		var lines []string
		for _, s := range structs {
			for _, m := range s.Members {
				line := table.Lookup(m.Type).IncludeLine()
				if line != "" && !seen[line] {
					seen[line] = true
					lines = append(lines, line)
				}
			}
		}
		if len(lines) == 0 {
			return
		}
		sort.Strings(lines)
		for _, line := range lines {
			buffer.WriteString(line)
			buffer.WriteByte('\n')
		}
		buffer.WriteByte('\n')
		return
	}

	for _, s := range structs {
		for _, m := range s.Members {
			buffer.WriteString(table.Lookup(m.Type).IncludeLine())
			buffer.WriteByte('\n')
		}
	}
}

// writeStruct writes one static struct declaration.
func writeStruct(buffer *bytes.Buffer, s *types.ResourceStruct, table *typemap.Table) {
	fmt.Fprintf(buffer, "static struct %s_s {\n", s.Name)
	for _, m := range s.Members {
		buffer.WriteString(MemberLine(table.Lookup(m.Type), m))
		buffer.WriteByte('\n')
	}
	fmt.Fprintf(buffer, "} %s;\n\n", s.Name)
}

// MemberLine renders the declaration of a single member, without the
// trailing newline.
func MemberLine(rule typemap.Rule, m types.Member) string {
	return "\tstatic inline const " + rule.RenderType() + " " + m.ID + " = " + rule.RenderValue(m.Value) + ";"
}

// writeFooter writes the closing guard.
func writeFooter(buffer *bytes.Buffer, guard string) {
	fmt.Fprintf(buffer, "#endif /* !%s */\n", guard)
}

// =============================================================================
// AGGREGATE HEADER
// =============================================================================

// GenerateAggregate renders a header that includes every header in files.
// files are base names such as "Colors.hpp"; they are written sorted.
func GenerateAggregate(name string, files []string, options GenerateOptions) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("aggregate header name is empty")
	}

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	guard := GuardName(options.GuardPrefix, name, options.GuardSuffix)

	var buffer bytes.Buffer
	options.Source = ""
	writeHeader(&buffer, guard, options)
	for _, f := range sorted {
		fmt.Fprintf(&buffer, "#include \"%s\"\n", f)
	}
	if len(sorted) > 0 {
		buffer.WriteByte('\n')
	}
	writeFooter(&buffer, guard)

	return buffer.Bytes(), nil
}
