package xmlloader

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/rfmaker/internal/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const colorsXML = `<?xml version="1.0" encoding="UTF-8"?>
<!-- palette -->
<resource id="Colors">
	<struct id="Red">
		<string id="hex">#FF0000</string>
		<int id="index">1</int>
	</struct>
</resource>
`

func TestParse(t *testing.T) {
	t.Run("Should build the element tree", func(t *testing.T) {
		root, err := Parse([]byte(colorsXML), "colors.xml")
		require.NoError(t, err)

		assert.Equal(t, "resource", root.Name)
		id, ok := root.Attr("id")
		require.True(t, ok)
		assert.Equal(t, "Colors", id)

		require.Len(t, root.Children, 1)
		red := root.Children[0]
		assert.Equal(t, "struct", red.Name)
		assert.Equal(t, 4, red.Line)

		require.Len(t, red.Children, 2)
		assert.Equal(t, "string", red.Children[0].Name)
		assert.Equal(t, "#FF0000", red.Children[0].Text)
		assert.Equal(t, "int", red.Children[1].Name)
		assert.Equal(t, "1", red.Children[1].Text)
	})

	t.Run("Should keep only direct character data", func(t *testing.T) {
		root, err := Parse([]byte(`<resource id="R">a<x>b</x>c</resource>`), "r.xml")
		require.NoError(t, err)
		assert.Equal(t, "ac", root.Text)
		assert.Equal(t, "b", root.Children[0].Text)
	})

	t.Run("Should decode entities and CDATA", func(t *testing.T) {
		root, err := Parse([]byte(`<resource id="R"><string id="s">a &amp; <![CDATA[<b>]]></string></resource>`), "r.xml")
		require.NoError(t, err)
		assert.Equal(t, "a & <b>", root.Children[0].Text)
	})

	t.Run("Should convert a declared Latin-1 encoding to UTF-8", func(t *testing.T) {
		doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
			"<resource id=\"Menu\"><struct id=\"S\"><string id=\"s\">caf\xe9</string></struct></resource>"

		root, err := Parse([]byte(doc), "menu.xml")
		require.NoError(t, err)
		assert.Equal(t, "café", root.Children[0].Children[0].Text)
	})

	t.Run("Should decode HTML entities", func(t *testing.T) {
		root, err := Parse([]byte(`<resource id="R"><string id="s">a&nbsp;b &copy;</string></resource>`), "r.xml")
		require.NoError(t, err)
		assert.Equal(t, "a\u00a0b \u00a9", root.Children[0].Text)
	})

	t.Run("Should reject a document whose root is not resource", func(t *testing.T) {
		_, err := Parse([]byte(`<resources id="R"/>`), "r.xml")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrMalformedInput)
		assert.Contains(t, err.Error(), "root element is <resources>")
	})

	t.Run("Should reject an empty document", func(t *testing.T) {
		_, err := Parse([]byte(`<?xml version="1.0"?>`), "r.xml")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrMalformedInput)
		assert.Contains(t, err.Error(), "no root element")
	})

	t.Run("Should reject malformed XML", func(t *testing.T) {
		_, err := Parse([]byte(`<resource id="R"><struct id="S"></resource>`), "r.xml")
		require.Error(t, err)

		var malformed *types.MalformedInputError
		require.True(t, errors.As(err, &malformed))
		assert.Equal(t, "r.xml", malformed.File)
	})

	t.Run("Should reject a second root element", func(t *testing.T) {
		_, err := Parse([]byte(`<resource id="A"/><resource id="B"/>`), "r.xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "more than one root element")
	})
}

func TestRequireAttr(t *testing.T) {
	root, err := Parse([]byte(`<resource/>`), "r.xml")
	require.NoError(t, err)

	_, err = root.RequireAttr("r.xml", "resource", "id")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMalformedInput)
	assert.Equal(t, `malformed input: r.xml: missing attribute "id" on <resource>`, err.Error())
}

func TestAttr(t *testing.T) {
	t.Run("Should ignore prefixed attributes", func(t *testing.T) {
		root, err := Parse([]byte(`<resource xml:id="A" foo:id="B"/>`), "r.xml")
		require.NoError(t, err)

		_, ok := root.Attr("id")
		assert.False(t, ok)
	})

	t.Run("Should find the unprefixed attribute next to prefixed ones", func(t *testing.T) {
		root, err := Parse([]byte(`<resource xml:id="A" id="Plain"/>`), "r.xml")
		require.NoError(t, err)

		id, ok := root.Attr("id")
		require.True(t, ok)
		assert.Equal(t, "Plain", id)
	})
}

func TestLoad(t *testing.T) {
	t.Run("Should read the file through the filesystem", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "in/colors.xml", []byte(colorsXML), 0o644))

		root, err := Load(fs, "in/colors.xml")
		require.NoError(t, err)
		assert.Len(t, root.Children, 1)
	})

	t.Run("Should load a Latin-1 file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		doc := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<resource id=\"R\"><string id=\"s\">\xc0 bient\xf4t</string></resource>\n")
		require.NoError(t, afero.WriteFile(fs, "in/latin1.xml", doc, 0o644))

		root, err := Load(fs, "in/latin1.xml")
		require.NoError(t, err)
		assert.Equal(t, "À bientôt", root.Children[0].Text)
	})

	t.Run("Should classify a missing file as an open failure", func(t *testing.T) {
		_, err := Load(afero.NewMemMapFs(), "in/missing.xml")
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrOpenInput)
		assert.Contains(t, err.Error(), "error while opening file in/missing.xml")
	})
}
