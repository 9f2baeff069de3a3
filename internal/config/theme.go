package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// themeFile is the on-disk layout of a theme: every color sits under a
// top-level "mailassist" key.
type themeFile struct {
	MailAssist *ColorsConfig `yaml:"mailassist"`
}

// LoadTheme reads a YAML theme. An empty path returns the built-in colors.
// Colors missing from the file keep their default value.
func LoadTheme(path string) (*ColorsConfig, error) {
	if path == "" {
		return DefaultColors(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var theme themeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("failed to parse theme file: %w", err)
	}
	if theme.MailAssist == nil {
		return nil, fmt.Errorf("invalid theme file: missing mailassist section")
	}

	theme.MailAssist.Merge(DefaultColors())
	if err := ValidateTheme(theme.MailAssist); err != nil {
		return nil, err
	}
	return theme.MailAssist, nil
}

// SaveTheme writes a theme in the layout LoadTheme reads.
func SaveTheme(theme *ColorsConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create themes directory: %w", err)
	}

	data, err := yaml.Marshal(themeFile{MailAssist: theme})
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write theme file: %w", err)
	}
	return nil
}

// ValidateTheme rejects colors tcell cannot resolve
func ValidateTheme(theme *ColorsConfig) error {
	if theme == nil {
		return fmt.Errorf("theme is nil")
	}

	colors := []struct {
		name  string
		color Color
	}{
		{"body.fgColor", theme.Body.FgColor},
		{"body.bgColor", theme.Body.BgColor},
		{"text.unreadColor", theme.Text.UnreadColor},
		{"text.readColor", theme.Text.ReadColor},
		{"text.errorColor", theme.Text.ErrorColor},
	}

	for _, c := range colors {
		if c.color == "" {
			return fmt.Errorf("missing required color: %s", c.name)
		}
		if c.color != DefaultColor && c.color != TransparentColor && c.color.Color().Hex() < 0 {
			return fmt.Errorf("invalid color %q for %s", c.color, c.name)
		}
	}

	return nil
}
