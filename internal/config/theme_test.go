package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/derailed/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTheme_EmptyPath(t *testing.T) {
	theme, err := LoadTheme("")
	require.NoError(t, err)
	assert.Equal(t, DefaultColors(), theme)
}

func TestLoadTheme_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "light.yaml")
	data := []byte(`mailassist:
  body:
    fgColor: "#000000"
    bgColor: "#ffffff"
  text:
    unreadColor: blue
`)
	require.NoError(t, os.WriteFile(path, data, 0600))

	theme, err := LoadTheme(path)
	require.NoError(t, err)

	assert.Equal(t, Color("#000000"), theme.Body.FgColor)
	assert.Equal(t, Color("blue"), theme.Text.UnreadColor)
	assert.Equal(t, DefaultColors().Text.ErrorColor, theme.Text.ErrorColor)
	assert.Equal(t, DefaultColors().Form, theme.Form)
}

func TestLoadTheme_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0600))
		return p
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml"), "failed to read theme file"},
		{"bad yaml", write("bad.yaml", "mailassist: [unclosed"), "failed to parse theme file"},
		{"no section", write("other.yaml", "gmailTUI:\n  body: {}\n"), "missing mailassist section"},
		{"unknown color", write("weird.yaml", "mailassist:\n  text:\n    errorColor: notacolor\n"), "invalid color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTheme(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveTheme_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "themes", "saved.yaml")
	theme := DefaultColors()
	theme.Text.UnreadColor = "#123456"

	require.NoError(t, SaveTheme(theme, path))

	loaded, err := LoadTheme(path)
	require.NoError(t, err)
	assert.Equal(t, theme, loaded)
}

func TestColor(t *testing.T) {
	assert.Equal(t, tcell.ColorDefault, DefaultColor.Color())
	assert.Equal(t, tcell.ColorDefault, TransparentColor.Color())
	assert.Equal(t, "-", DefaultColor.String())
	assert.Equal(t, "#ff5555", NewColor("#ff5555").String())
	assert.Equal(t, int32(0xff5555), NewColor("#ff5555").Color().Hex())
}
