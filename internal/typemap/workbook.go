// =============================================================================
// rfmaker - Type Table Workbook
// =============================================================================
//
// Type rules can be maintained in an XLSX workbook instead of the YAML config.
// The first sheet is read; row 1 is a header row and is skipped.
//
//   | Column A | Column B      | Column C | Column D |
//   |----------|---------------|----------|----------|
//   | Tag      | Rendered Type | Include  | Quote    |
//   | string   | std::string   | <string> | escaped  |
//   | vec2     | glm::vec2     | <glm/vec2.hpp> |    |
//   | path     | std::string   | <string> | yes      |
//
// The Quote column accepts none/raw/escaped and the usual spreadsheet
// spellings of yes/no (see normalizeQuote).
//
// =============================================================================

package typemap

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// WorkbookColumns defines which columns of the workbook hold which field.
// Column indices are 0-based (A=0, B=1, ...).
type WorkbookColumns struct {
	TagColumn      int
	RenderedColumn int
	IncludeColumn  int
	QuoteColumn    int

	// DataStartRow is the first row holding a rule (0-based).
	DataStartRow int
}

// DefaultWorkbookColumns returns the layout shown in the file header.
func DefaultWorkbookColumns() WorkbookColumns {
	return WorkbookColumns{
		TagColumn:      0, // Column A
		RenderedColumn: 1, // Column B
		IncludeColumn:  2, // Column C
		QuoteColumn:    3, // Column D
		DataStartRow:   1, // Row 2
	}
}

// LoadWorkbook reads type rules from the XLSX workbook at path.
func LoadWorkbook(fs afero.Fs, path string) ([]Rule, error) {
	return LoadWorkbookWithColumns(fs, path, DefaultWorkbookColumns())
}

// LoadWorkbookWithColumns reads type rules using a custom column layout.
func LoadWorkbookWithColumns(fs afero.Fs, path string, columns WorkbookColumns) ([]Rule, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open types workbook: %w", err)
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read types workbook %s: %w", path, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("types workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", path, err)
	}

	var rules []Rule
	for i := columns.DataStartRow; i < len(rows); i++ {
		row := rows[i]
		if isRowEmpty(row) {
			continue
		}

		rule, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}

		// Rows without a tag are notes, not rules.
		if rule.Tag == "" {
			continue
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// parseRow extracts a Rule from a single row.
func parseRow(row []string, columns WorkbookColumns) (Rule, error) {
	getCell := func(index int) string {
		if index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	quote, err := normalizeQuote(getCell(columns.QuoteColumn))
	if err != nil {
		return Rule{}, err
	}

	return Rule{
		Tag:      getCell(columns.TagColumn),
		Rendered: getCell(columns.RenderedColumn),
		Include:  getCell(columns.IncludeColumn),
		Quote:    quote,
	}, nil
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeQuote maps spreadsheet spellings onto a QuoteRule.
func normalizeQuote(value string) (QuoteRule, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1", "quoted":
		return QuoteEscaped, nil
	case "no", "n", "false", "0", "-":
		return QuoteNone, nil
	case "legacy":
		return QuoteRaw, nil
	default:
		return ParseQuoteRule(value)
	}
}
