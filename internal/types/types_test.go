package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceStruct(t *testing.T) {
	t.Run("Should keep members in insertion order", func(t *testing.T) {
		s := NewResourceStruct("Window")
		require.True(t, s.Add(Member{ID: "width", Type: "int", Value: "800"}))
		require.True(t, s.Add(Member{ID: "height", Type: "int", Value: "600"}))

		require.Len(t, s.Members, 2)
		assert.Equal(t, "width", s.Members[0].ID)
		assert.Equal(t, "height", s.Members[1].ID)
	})

	t.Run("Should refuse a duplicate id on Add", func(t *testing.T) {
		s := NewResourceStruct("Window")
		require.True(t, s.Add(Member{ID: "width", Type: "int", Value: "800"}))
		assert.False(t, s.Add(Member{ID: "width", Type: "int", Value: "1024"}))

		m, ok := s.Lookup("width")
		require.True(t, ok)
		assert.Equal(t, "800", m.Value)
		assert.Len(t, s.Members, 1)
	})

	t.Run("Should overwrite in place on Set", func(t *testing.T) {
		s := NewResourceStruct("Window")
		s.Set(Member{ID: "width", Type: "int", Value: "800"})
		s.Set(Member{ID: "height", Type: "int", Value: "600"})
		s.Set(Member{ID: "width", Type: "long", Value: "1024"})

		require.Len(t, s.Members, 2)
		assert.Equal(t, Member{ID: "width", Type: "long", Value: "1024"}, s.Members[0])
	})

	t.Run("Should work on a zero value", func(t *testing.T) {
		var s ResourceStruct
		assert.True(t, s.Add(Member{ID: "a"}))
		s.Set(Member{ID: "b"})
		_, ok := s.Lookup("b")
		assert.True(t, ok)
	})

	t.Run("Should follow reordering after Reindex", func(t *testing.T) {
		s := NewResourceStruct("S")
		s.Add(Member{ID: "b", Value: "2"})
		s.Add(Member{ID: "a", Value: "1"})
		s.Members[0], s.Members[1] = s.Members[1], s.Members[0]
		s.Reindex()

		s.Set(Member{ID: "a", Value: "one"})
		assert.Equal(t, "one", s.Members[0].Value)
	})
}

func TestResourceMemberCount(t *testing.T) {
	a := NewResourceStruct("A")
	a.Add(Member{ID: "x"})
	a.Add(Member{ID: "y"})
	b := NewResourceStruct("B")
	b.Add(Member{ID: "z"})

	r := &Resource{Name: "R", Structs: []ResourceStruct{a, b, NewResourceStruct("C")}}
	assert.Equal(t, 3, r.MemberCount())
}

func TestErrors(t *testing.T) {
	t.Run("Should name the missing attribute and element", func(t *testing.T) {
		err := &MalformedInputError{File: "colors.xml", Element: "struct[2]", Attribute: "id"}
		assert.Equal(t, `malformed input: colors.xml: missing attribute "id" on <struct[2]>`, err.Error())
	})

	t.Run("Should use the reason when no attribute is involved", func(t *testing.T) {
		err := &MalformedInputError{File: "colors.xml", Element: "resource", Reason: "root element is <root>"}
		assert.Equal(t, "malformed input: colors.xml: <resource>: root element is <root>", err.Error())
	})

	t.Run("Should explain an invalid attribute value", func(t *testing.T) {
		err := &MalformedInputError{File: "a.xml", Element: "resource", Attribute: "id", Reason: "id is empty"}
		assert.Equal(t, `malformed input: a.xml: invalid attribute "id" on <resource>: id is empty`, err.Error())
	})

	t.Run("Should match ErrMalformedInput through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("load: %w", &DuplicateMemberError{File: "f.xml", Struct: "S", Member: "a"})
		assert.True(t, errors.Is(wrapped, ErrMalformedInput))
		assert.False(t, errors.Is(wrapped, ErrOpenInput))

		var dup *DuplicateMemberError
		require.True(t, errors.As(wrapped, &dup))
		assert.Equal(t, "a", dup.Member)
	})
}
