// =============================================================================
// rfmaker - XML Loader
// =============================================================================
//
// This module opens a resource file, parses it into a lightweight element tree
// and returns the root <resource> element.
//
// PARSING PROCESS:
//   1. Open the file through the afero filesystem
//   2. Read the entire file into memory (no streaming)
//   3. Tokenize it with encoding/xml and build a Node tree
//   4. Check that the document root is a <resource> element
//
// Only elements, their attributes and their direct character data are kept.
// Comments, processing instructions and directives are dropped. Text is
// converted to UTF-8 from the encoding the XML declaration names.
//
// =============================================================================

package xmlloader

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/rfmaker/internal/types"
	"github.com/spf13/afero"
	"golang.org/x/net/html/charset"
)

// RootElement is the tag name every resource file must use for its root.
const RootElement = "resource"

// =============================================================================
// NODE STRUCTURE
// =============================================================================

// Node is a parsed XML element.
type Node struct {
	// Name is the local tag name. Namespace prefixes are dropped.
	Name string

	// Attrs holds the element attributes in document order.
	Attrs []xml.Attr

	// Text is the concatenation of the element's direct character data.
	// Text inside child elements is not included.
	Text string

	// Children are the child elements in document order.
	Children []*Node

	// Line is the 1-based line on which the start tag ends.
	Line int
}

// Attr returns the value of the named unprefixed attribute and whether it is
// present. Prefixed attributes such as xml:id never match.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// RequireAttr returns the named attribute or a MalformedInputError naming
// file and element when it is absent.
func (n *Node) RequireAttr(file, element, name string) (string, error) {
	v, ok := n.Attr(name)
	if !ok {
		return "", &types.MalformedInputError{
			File:      file,
			Element:   element,
			Attribute: name,
		}
	}
	return v, nil
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Load reads the resource file at path and returns its root element.
//
// RETURNS:
//   - The root <resource> node.
//   - An error wrapping types.ErrOpenInput if the file cannot be opened, or a
//     *types.MalformedInputError if the document cannot be parsed or its root
//     is not <resource>.
func Load(fs afero.Fs, path string) (*Node, error) {
	// Open the file.
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", types.ErrOpenInput, path, err)
	}
	defer file.Close()

	// Read everything up front, the parser works on an in-memory buffer.
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", types.ErrOpenInput, path, err)
	}

	return Parse(data, path)
}

// Parse builds the element tree from data and returns the root element.
// name is only used in error messages.
func Parse(data []byte, name string) (*Node, error) {
	root, err := buildTree(newDecoder(data))
	if err != nil {
		return nil, &types.MalformedInputError{
			File:    name,
			Element: RootElement,
			Reason:  err.Error(),
		}
	}

	if root == nil {
		return nil, &types.MalformedInputError{
			File:    name,
			Element: RootElement,
			Reason:  "document has no root element",
		}
	}

	if root.Name != RootElement {
		return nil, &types.MalformedInputError{
			File:    name,
			Element: RootElement,
			Reason:  fmt.Sprintf("root element is <%s>", root.Name),
		}
	}

	return root, nil
}

// newDecoder returns a decoder that accepts the encodings named in the XML
// declaration (ISO-8859-1, windows-1252, UTF-16, ...) and the HTML entities
// commonly typed into resource values, such as &nbsp;.
func newDecoder(data []byte) *xml.Decoder {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Entity = xml.HTMLEntity
	return decoder
}

// buildTree consumes every token from the decoder and returns the first
// top-level element.
func buildTree(decoder *xml.Decoder) (*Node, error) {
	var (
		root  *Node
		stack []*Node
		text  []*strings.Builder
	)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			line, _ := decoder.InputPos()
			node := &Node{
				Name:  t.Name.Local,
				Attrs: append([]xml.Attr(nil), t.Attr...),
				Line:  line,
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("line %d: more than one root element", line)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}

			stack = append(stack, node)
			text = append(text, &strings.Builder{})

		case xml.EndElement:
			// The decoder guarantees matching start/end tags.
			top := len(stack) - 1
			stack[top].Text = text[top].String()
			stack = stack[:top]
			text = text[:top]

		case xml.CharData:
			if len(stack) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("unexpected end of document inside <%s>", stack[len(stack)-1].Name)
	}

	return root, nil
}
