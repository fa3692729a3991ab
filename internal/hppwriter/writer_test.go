package hppwriter_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/ginjaninja78/rfmaker/internal/extractor"
	"github.com/ginjaninja78/rfmaker/internal/hppwriter"
	"github.com/ginjaninja78/rfmaker/internal/typemap"
	"github.com/ginjaninja78/rfmaker/internal/types"
	"github.com/ginjaninja78/rfmaker/internal/xmlloader"
)

var writeGolden = flag.Bool("write-golden", false, "If true, rewrites the .hpp files of the txtar archives")

// goldenCase groups the files of one case inside an archive.
type goldenCase struct {
	xml    []byte
	golden []byte
	err    []byte
}

func TestGoldenHeaders(t *testing.T) {
	archives, err := filepath.Glob("testdata/*.txtar")
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	for _, path := range archives {
		t.Run(filepath.Base(path), func(t *testing.T) {
			runGoldenArchive(t, path)
		})
	}
}

func runGoldenArchive(t *testing.T, path string) {
	archive, err := txtar.ParseFile(path)
	require.NoError(t, err)

	comment := string(archive.Comment)
	extractOpts := extractor.Options{}
	genOpts := hppwriter.DefaultGenerateOptions()
	if strings.Contains(comment, "sorted-members") {
		extractOpts.MemberOrder = extractor.OrderSorted
	}
	if strings.Contains(comment, "dedupe-includes") {
		genOpts.DedupeIncludes = true
	}
	if strings.Contains(comment, "signature") {
		genOpts.Signature = true
	}

	cases := make(map[string]*goldenCase)
	var order []string
	get := func(name string) *goldenCase {
		if c, ok := cases[name]; ok {
			return c
		}
		c := &goldenCase{}
		cases[name] = c
		order = append(order, name)
		return c
	}
	for _, f := range archive.Files {
		ext := filepath.Ext(f.Name)
		c := get(strings.TrimSuffix(f.Name, ext))
		switch ext {
		case ".xml":
			c.xml = f.Data
		case ".hpp":
			c.golden = f.Data
		case ".err":
			c.err = f.Data
		}
	}

	table, err := typemap.New()
	require.NoError(t, err)

	updated := false
	for _, name := range order {
		tc := cases[name]
		t.Run(name, func(t *testing.T) {
			require.NotEmpty(t, tc.xml, "no XML input")

			file := name + ".xml"
			header, err := generate(tc.xml, file, table, extractOpts, genOpts)

			if len(tc.err) > 0 {
				require.Error(t, err)
				assert.ErrorIs(t, err, types.ErrMalformedInput)
				assert.Contains(t, err.Error(), strings.TrimSpace(string(tc.err)))
				return
			}
			require.NoError(t, err)

			if *writeGolden {
				for i := range archive.Files {
					if archive.Files[i].Name == name+".hpp" {
						archive.Files[i].Data = header
						updated = true
					}
				}
				return
			}

			if diff := cmp.Diff(string(tc.golden), string(header)); diff != "" {
				t.Errorf("header mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if updated {
		require.NoError(t, os.WriteFile(path, txtar.Format(archive), 0o644))
	}
}

func generate(data []byte, file string, table *typemap.Table, extractOpts extractor.Options, genOpts hppwriter.GenerateOptions) ([]byte, error) {
	root, err := xmlloader.Parse(data, file)
	if err != nil {
		return nil, err
	}
	extractOpts.File = file
	resource, err := extractor.Extract(root, extractOpts)
	if err != nil {
		return nil, err
	}
	genOpts.Source = file
	return hppwriter.GenerateWithOptions(resource.Name, resource.Structs, table, genOpts)
}

func TestGuardName(t *testing.T) {
	t.Run("Should uppercase the name between prefix and suffix", func(t *testing.T) {
		assert.Equal(t, "RESOURCE_FILE_COLORS_HPP", hppwriter.GuardName("RESOURCE_FILE_", "Colors", "_HPP"))
	})

	t.Run("Should leave the name untouched", func(t *testing.T) {
		name := "mixedCase"
		_ = hppwriter.GuardName(hppwriter.DefaultGuardPrefix, name, hppwriter.DefaultGuardSuffix)
		assert.Equal(t, "mixedCase", name)
	})
}

func TestGenerate(t *testing.T) {
	table, err := typemap.New()
	require.NoError(t, err)

	red := types.NewResourceStruct("Red")
	red.Add(types.Member{ID: "hex", Type: "string", Value: "#FF0000"})
	green := types.NewResourceStruct("Green")
	green.Add(types.Member{ID: "hex", Type: "string", Value: "#00FF00"})
	green.Add(types.Member{ID: "index", Type: "int", Value: "2"})
	structs := []types.ResourceStruct{red, green}

	t.Run("Should emit one declaration per struct", func(t *testing.T) {
		out, err := hppwriter.Generate("Colors", structs, table)
		require.NoError(t, err)

		text := string(out)
		assert.Equal(t, 2, strings.Count(text, "static struct "))
		assert.Contains(t, text, "static struct Red_s {\n")
		assert.Contains(t, text, "} Red;\n")
		assert.Contains(t, text, "static struct Green_s {\n")
		assert.Contains(t, text, "} Green;\n")
	})

	t.Run("Should use the same guard for opening and closing", func(t *testing.T) {
		out, err := hppwriter.Generate("Colors", structs, table)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
		assert.Equal(t, "#ifndef RESOURCE_FILE_COLORS_HPP", lines[0])
		assert.Equal(t, "#define RESOURCE_FILE_COLORS_HPP", lines[1])
		assert.Equal(t, "#endif /* !RESOURCE_FILE_COLORS_HPP */", lines[len(lines)-1])
	})

	t.Run("Should repeat include lines per member by default", func(t *testing.T) {
		out, err := hppwriter.Generate("Colors", structs, table)
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(string(out), "#include <string>\n"))
	})

	t.Run("Should write each include once when deduplicating", func(t *testing.T) {
		opts := hppwriter.DefaultGenerateOptions()
		opts.DedupeIncludes = true
		out, err := hppwriter.GenerateWithOptions("Colors", structs, table, opts)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(out), "#include <string>\n"))
	})

	t.Run("Should honor custom guard affixes", func(t *testing.T) {
		opts := hppwriter.DefaultGenerateOptions()
		opts.GuardPrefix = "GEN_"
		opts.GuardSuffix = "_H"
		out, err := hppwriter.GenerateWithOptions("colors", structs, table, opts)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(out), "#ifndef GEN_COLORS_H\n#define GEN_COLORS_H\n"))
		assert.True(t, strings.HasSuffix(string(out), "#endif /* !GEN_COLORS_H */\n"))
	})

	t.Run("Should be deterministic", func(t *testing.T) {
		first, err := hppwriter.Generate("Colors", structs, table)
		require.NoError(t, err)
		second, err := hppwriter.Generate("Colors", structs, table)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Should reject an empty name", func(t *testing.T) {
		_, err := hppwriter.Generate("", structs, table)
		assert.Error(t, err)
	})
}

func TestMemberLine(t *testing.T) {
	table, err := typemap.New()
	require.NoError(t, err)

	t.Run("Should quote string values exactly once", func(t *testing.T) {
		m := types.Member{ID: "hex", Type: "string", Value: "#FF0000"}
		assert.Equal(t, "\tstatic inline const std::string hex = \"#FF0000\";", hppwriter.MemberLine(table.Lookup(m.Type), m))
	})

	t.Run("Should emit other types verbatim and unquoted", func(t *testing.T) {
		m := types.Member{ID: "ratio", Type: "double", Value: "1.5"}
		assert.Equal(t, "\tstatic inline const double ratio = 1.5;", hppwriter.MemberLine(table.Lookup(m.Type), m))
	})
}

func TestGenerateAggregate(t *testing.T) {
	t.Run("Should include every header sorted", func(t *testing.T) {
		out, err := hppwriter.GenerateAggregate("resources", []string{"Strings.hpp", "Colors.hpp"}, hppwriter.DefaultGenerateOptions())
		require.NoError(t, err)

		want := "#ifndef RESOURCE_FILE_RESOURCES_HPP\n" +
			"#define RESOURCE_FILE_RESOURCES_HPP\n\n" +
			"#include \"Colors.hpp\"\n" +
			"#include \"Strings.hpp\"\n\n" +
			"#endif /* !RESOURCE_FILE_RESOURCES_HPP */\n"
		if diff := cmp.Diff(want, string(out)); diff != "" {
			t.Errorf("aggregate mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Should reject an empty name", func(t *testing.T) {
		_, err := hppwriter.GenerateAggregate("", nil, hppwriter.DefaultGenerateOptions())
		assert.Error(t, err)
	})
}
