// =============================================================================
// rfmaker - Struct Extractor
// =============================================================================
//
// This module walks the element tree of a resource file and builds the
// in-memory model consumed by the emitter.
//
// WALK:
//   <resource id="Colors">          <- Resource.Name
//     <note/>                       <- skipped: before the first <struct>
//     <struct id="Red">             <- ResourceStruct
//       <string id="hex">#F00</string>   <- Member{ID: hex, Type: string}
//     </struct>
//     <struct id="Green">...</struct>
//     <other/>                      <- walk stops here
//     <struct id="Blue">...</struct>    <- never visited
//   </resource>
//
// The walk starts at the first child named "struct" and stops at the first
// following sibling with any other name.
//
// =============================================================================

package extractor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ginjaninja78/rfmaker/internal/types"
	"github.com/ginjaninja78/rfmaker/internal/xmlloader"
)

const (
	// StructElement is the tag name of struct elements.
	StructElement = "struct"

	// IDAttribute names resources, structs and members.
	IDAttribute = "id"
)

// =============================================================================
// OPTIONS
// =============================================================================

// MemberOrder selects the order members are emitted in.
type MemberOrder string

const (
	// OrderDocument keeps members in document order.
	OrderDocument MemberOrder = "document"

	// OrderSorted sorts members lexicographically by id.
	OrderSorted MemberOrder = "sorted"
)

// Options controls extraction.
type Options struct {
	// File is used in error messages.
	File string

	// MemberOrder defaults to OrderDocument.
	MemberOrder MemberOrder

	// AllowDuplicateMembers makes a repeated member id overwrite the earlier
	// one instead of failing.
	AllowDuplicateMembers bool
}

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract builds a Resource from the root <resource> element.
func Extract(root *xmlloader.Node, opts Options) (*types.Resource, error) {
	name, err := root.RequireAttr(opts.File, xmlloader.RootElement, IDAttribute)
	if err != nil {
		return nil, err
	}
	if reason := checkResourceName(name); reason != "" {
		return nil, &types.MalformedInputError{
			File:      opts.File,
			Element:   xmlloader.RootElement,
			Attribute: IDAttribute,
			Reason:    reason,
		}
	}

	structs, err := ExtractStructs(root, opts)
	if err != nil {
		return nil, err
	}

	return &types.Resource{
		Name:       name,
		SourceFile: opts.File,
		Structs:    structs,
	}, nil
}

// checkResourceName returns why name cannot be used as the output base name,
// or "" if it can. The header is written as <output>/<name>.hpp, so the name
// must not leave the output directory.
func checkResourceName(name string) string {
	switch {
	case name == "":
		return "id is empty"
	case strings.ContainsAny(name, `/\`):
		return fmt.Sprintf("id %q contains a path separator", name)
	case strings.Contains(name, ".."):
		return fmt.Sprintf("id %q contains \"..\"", name)
	default:
		return ""
	}
}

// ExtractStructs returns one ResourceStruct per <struct> child of root.
func ExtractStructs(root *xmlloader.Node, opts Options) ([]types.ResourceStruct, error) {
	start := -1
	for i, child := range root.Children {
		if child.Name == StructElement {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, nil
	}

	var structs []types.ResourceStruct
	for i := start; i < len(root.Children) && root.Children[i].Name == StructElement; i++ {
		s, err := extractStruct(root.Children[i], len(structs)+1, opts)
		if err != nil {
			return nil, err
		}
		structs = append(structs, s)
	}

	return structs, nil
}

// extractStruct reads one <struct> element. position is 1-based and only used
// to identify the element in errors.
func extractStruct(node *xmlloader.Node, position int, opts Options) (types.ResourceStruct, error) {
	element := fmt.Sprintf("%s[%d]", StructElement, position)

	name, err := node.RequireAttr(opts.File, element, IDAttribute)
	if err != nil {
		return types.ResourceStruct{}, err
	}

	s := types.NewResourceStruct(name)
	for i, child := range node.Children {
		id, err := child.RequireAttr(opts.File, fmt.Sprintf("%s/%s[%d]", name, child.Name, i+1), IDAttribute)
		if err != nil {
			return types.ResourceStruct{}, err
		}

		member := types.Member{ID: id, Type: child.Name, Value: child.Text}
		if opts.AllowDuplicateMembers {
			s.Set(member)
			continue
		}
		if !s.Add(member) {
			return types.ResourceStruct{}, &types.DuplicateMemberError{
				File:   opts.File,
				Struct: name,
				Member: id,
			}
		}
	}

	if opts.MemberOrder == OrderSorted {
		sort.SliceStable(s.Members, func(i, j int) bool { return s.Members[i].ID < s.Members[j].ID })
		s.Reindex()
	}

	return s, nil
}

// ParseMemberOrder converts a configuration string to a MemberOrder.
func ParseMemberOrder(s string) (MemberOrder, error) {
	switch MemberOrder(s) {
	case "", OrderDocument:
		return OrderDocument, nil
	case OrderSorted:
		return OrderSorted, nil
	default:
		return "", fmt.Errorf("unknown member order %q (want document or sorted)", s)
	}
}
