// =============================================================================
// rfmaker - Shared Types
// =============================================================================
//
// This package contains the in-memory model shared by the extractor, the
// emitter and the converter, plus the error types used to classify failures.
// Keeping them here avoids import cycles between those packages.
//
// MODEL:
//   Resource           <- one XML file (<resource id="...">)
//   └── ResourceStruct <- one <struct id="..."> element
//       └── Member     <- one child element: tag = type, id = name, text = value
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
)

// =============================================================================
// RESOURCE MODEL
// =============================================================================

// Resource is the parsed content of a single resource file.
type Resource struct {
	// Name is the root element's id attribute.
	// It is used as the output file base name and for the include guard.
	Name string

	// SourceFile is the path of the XML file this resource was read from.
	SourceFile string

	// Structs holds one entry per <struct> element, in document order.
	Structs []ResourceStruct
}

// MemberCount returns the number of members across all structs.
func (r *Resource) MemberCount() int {
	n := 0
	for i := range r.Structs {
		n += len(r.Structs[i].Members)
	}
	return n
}

// ResourceStruct represents one generated struct.
type ResourceStruct struct {
	// Name is the struct element's id attribute.
	Name string

	// Members are the struct fields in emission order.
	Members []Member

	// index maps a member id to its position in Members.
	index map[string]int
}

// Member is a single constant field of a struct.
type Member struct {
	// ID is the member name (the element's id attribute).
	ID string

	// Type is the element tag name, e.g. "string" or "int".
	Type string

	// Value is the element's text content, verbatim.
	Value string
}

// NewResourceStruct creates an empty struct with the given name.
func NewResourceStruct(name string) ResourceStruct {
	return ResourceStruct{Name: name, index: make(map[string]int)}
}

// Lookup returns the member with the given id.
func (s *ResourceStruct) Lookup(id string) (Member, bool) {
	i, ok := s.index[id]
	if !ok {
		return Member{}, false
	}
	return s.Members[i], true
}

// Add appends a member. It reports false, and leaves the struct untouched,
// if a member with the same id already exists.
func (s *ResourceStruct) Add(m Member) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, exists := s.index[m.ID]; exists {
		return false
	}
	s.index[m.ID] = len(s.Members)
	s.Members = append(s.Members, m)
	return true
}

// Set adds a member or overwrites the existing one with the same id.
// An overwritten member keeps the position of its first occurrence.
func (s *ResourceStruct) Set(m Member) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, exists := s.index[m.ID]; exists {
		s.Members[i] = m
		return
	}
	s.index[m.ID] = len(s.Members)
	s.Members = append(s.Members, m)
}

// Reindex rebuilds the id index after Members has been reordered.
func (s *ResourceStruct) Reindex() {
	s.index = make(map[string]int, len(s.Members))
	for i, m := range s.Members {
		s.index[m.ID] = i
	}
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrMalformedInput classifies every structural problem in a resource file.
	ErrMalformedInput = errors.New("malformed input")

	// ErrOpenInput is returned when an input file cannot be opened.
	ErrOpenInput = errors.New("error while opening file")

	// ErrCreateOutput is returned when an output file cannot be created.
	ErrCreateOutput = errors.New("cannot create file")
)

// MalformedInputError identifies the file and element of a structural problem.
type MalformedInputError struct {
	// File is the path of the offending XML file.
	File string

	// Element describes the element, e.g. "resource" or "struct[2]".
	Element string

	// Attribute is the missing or invalid attribute, if any.
	Attribute string

	// Reason describes the problem. With Attribute set it explains why the
	// value was rejected; an empty Reason then means the attribute is absent.
	Reason string
}

func (e *MalformedInputError) Error() string {
	switch {
	case e.Attribute != "" && e.Reason == "":
		return fmt.Sprintf("%s: %s: missing attribute %q on <%s>", ErrMalformedInput, e.File, e.Attribute, e.Element)
	case e.Attribute != "":
		return fmt.Sprintf("%s: %s: invalid attribute %q on <%s>: %s", ErrMalformedInput, e.File, e.Attribute, e.Element, e.Reason)
	default:
		return fmt.Sprintf("%s: %s: <%s>: %s", ErrMalformedInput, e.File, e.Element, e.Reason)
	}
}

// Is makes errors.Is(err, ErrMalformedInput) work for MalformedInputError.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// DuplicateMemberError reports a member id that appears twice in one struct.
type DuplicateMemberError struct {
	File   string
	Struct string
	Member string
}

func (e *DuplicateMemberError) Error() string {
	return fmt.Sprintf("%s: %s: duplicate member %q in struct %q", ErrMalformedInput, e.File, e.Member, e.Struct)
}

// Is makes errors.Is(err, ErrMalformedInput) work for DuplicateMemberError.
func (e *DuplicateMemberError) Is(target error) bool {
	return target == ErrMalformedInput
}
