// =============================================================================
// rfmaker - Type Table
// =============================================================================
//
// The type table decides, for every member tag name, how the member is rendered
// in the generated header:
//
//   | Tag    | Include  | Rendered Type | Quote   |
//   |--------|----------|---------------|---------|
//   | string | <string> | std::string   | escaped |
//   | (any)  |          | <tag>         | none    |
//
// Tags that are not in the table fall back to the last row: the tag name is
// used verbatim as the C++ type and the value is emitted unquoted.
//
// Extra rules can come from the YAML configuration file or from an XLSX
// workbook (see workbook.go). Later rules replace earlier ones with the same
// tag.
//
// =============================================================================

package typemap

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// QUOTE RULES
// =============================================================================

// QuoteRule controls how a literal value is written.
type QuoteRule string

const (
	// QuoteNone writes the value verbatim.
	QuoteNone QuoteRule = "none"

	// QuoteRaw wraps the value in double quotes without escaping anything.
	// Values containing '"' produce an invalid header.
	QuoteRaw QuoteRule = "raw"

	// QuoteEscaped wraps the value in double quotes and escapes backslashes,
	// double quotes and control characters.
	QuoteEscaped QuoteRule = "escaped"
)

// ParseQuoteRule converts a configuration string to a QuoteRule.
// An empty string means QuoteNone.
func ParseQuoteRule(s string) (QuoteRule, error) {
	switch QuoteRule(strings.ToLower(strings.TrimSpace(s))) {
	case "", QuoteNone:
		return QuoteNone, nil
	case QuoteRaw:
		return QuoteRaw, nil
	case QuoteEscaped:
		return QuoteEscaped, nil
	default:
		return "", fmt.Errorf("unknown quote rule %q (want none, raw or escaped)", s)
	}
}

// =============================================================================
// RULE STRUCTURE
// =============================================================================

// Rule describes how one member tag is rendered.
type Rule struct {
	// Tag is the XML element name this rule applies to.
	Tag string `yaml:"tag"`

	// Include is the header to include, e.g. "<string>". Empty means none.
	Include string `yaml:"include,omitempty"`

	// Rendered is the C++ type name. Empty means the tag itself.
	Rendered string `yaml:"type,omitempty"`

	// Quote is the quoting rule for the literal value.
	Quote QuoteRule `yaml:"quote,omitempty"`
}

// IncludeLine returns the #include directive for the rule, or "" if the rule
// needs no include.
func (r Rule) IncludeLine() string {
	if r.Include == "" {
		return ""
	}
	return "#include " + r.Include
}

// RenderType returns the C++ type used in the member declaration.
func (r Rule) RenderType() string {
	if r.Rendered == "" {
		return r.Tag
	}
	return r.Rendered
}

// RenderValue returns the literal used on the right-hand side of the member
// declaration.
func (r Rule) RenderValue(value string) string {
	switch r.Quote {
	case QuoteRaw:
		return `"` + value + `"`
	case QuoteEscaped:
		return `"` + escape(value) + `"`
	default:
		return value
	}
}

// escape escapes value for use inside a C++ string literal.
func escape(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// =============================================================================
// TABLE
// =============================================================================

// Builtin returns the rules every table starts with.
func Builtin() []Rule {
	return []Rule{
		{Tag: "string", Include: "<string>", Rendered: "std::string", Quote: QuoteEscaped},
	}
}

// Table maps member tags to rules.
type Table struct {
	rules map[string]Rule
}

// New creates a table holding the builtin rules followed by extra.
func New(extra ...Rule) (*Table, error) {
	t := &Table{rules: make(map[string]Rule)}
	for _, r := range Builtin() {
		t.rules[r.Tag] = r
	}
	if err := t.Add(extra...); err != nil {
		return nil, err
	}
	return t, nil
}

// Add inserts rules, replacing existing rules with the same tag.
func (t *Table) Add(rules ...Rule) error {
	for i, r := range rules {
		r.Tag = strings.TrimSpace(r.Tag)
		if r.Tag == "" {
			return fmt.Errorf("type rule %d: tag is empty", i+1)
		}
		q, err := ParseQuoteRule(string(r.Quote))
		if err != nil {
			return fmt.Errorf("type rule %q: %w", r.Tag, err)
		}
		r.Quote = q
		t.rules[r.Tag] = r
	}
	return nil
}

// Lookup returns the rule for tag. Unknown tags get a rule that renders the
// tag verbatim with an unquoted value and no include.
func (t *Table) Lookup(tag string) Rule {
	if r, ok := t.rules[tag]; ok {
		return r
	}
	return Rule{Tag: tag, Quote: QuoteNone}
}

// Rules returns every explicit rule sorted by tag.
func (t *Table) Rules() []Rule {
	out := make([]Rule, 0, len(t.rules))
	for _, r := range t.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
