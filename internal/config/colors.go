package config

import (
	"fmt"

	"github.com/derailed/tcell/v2"
)

// Color represents a color in the application
type Color string

const (
	// DefaultColor represents a default color
	DefaultColor Color = "default"

	// TransparentColor represents the terminal bg color
	TransparentColor Color = "-"
)

// NewColor returns a new color
func NewColor(c string) Color {
	return Color(c)
}

// String returns color as string
func (c Color) String() string {
	if c.isHex() {
		return string(c)
	}
	if c == DefaultColor || c == TransparentColor || c == "" {
		return "-"
	}
	col := c.Color().TrueColor().Hex()
	if col < 0 {
		return "-"
	}
	return fmt.Sprintf("#%06x", col)
}

func (c Color) isHex() bool {
	return len(c) == 7 && c[0] == '#'
}

// Color returns a view color
func (c Color) Color() tcell.Color {
	if c == DefaultColor || c == TransparentColor || c == "" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(string(c)).TrueColor()
}

// BodyColors defines the base colors of every region
type BodyColors struct {
	FgColor Color `yaml:"fgColor"`
	BgColor Color `yaml:"bgColor"`
}

// FrameColors defines colors for region borders and titles
type FrameColors struct {
	BorderColor Color `yaml:"borderColor"`
	FocusColor  Color `yaml:"focusColor"`
	TitleColor  Color `yaml:"titleColor"`
}

// TextColors defines the semantic text classes used by the views
type TextColors struct {
	MutedColor   Color `yaml:"mutedColor"`
	HeadingColor Color `yaml:"headingColor"`
	UnreadColor  Color `yaml:"unreadColor"`
	ReadColor    Color `yaml:"readColor"`
	ActiveColor  Color `yaml:"activeColor"`
	ErrorColor   Color `yaml:"errorColor"`
	SuccessColor Color `yaml:"successColor"`
	InfoColor    Color `yaml:"infoColor"`
}

// FormColors defines colors for inputs and buttons
type FormColors struct {
	FieldBgColor    Color `yaml:"fieldBgColor"`
	FieldFgColor    Color `yaml:"fieldFgColor"`
	ButtonBgColor   Color `yaml:"buttonBgColor"`
	ButtonFgColor   Color `yaml:"buttonFgColor"`
	DisabledFgColor Color `yaml:"disabledFgColor"`
	DisabledBgColor Color `yaml:"disabledBgColor"`
}

// ColorsConfig defines the complete color configuration
type ColorsConfig struct {
	Body  BodyColors  `yaml:"body"`
	Frame FrameColors `yaml:"frame"`
	Text  TextColors  `yaml:"text"`
	Form  FormColors  `yaml:"form"`
}

// DefaultColors returns the default color configuration
func DefaultColors() *ColorsConfig {
	return &ColorsConfig{
		Body: BodyColors{
			FgColor: NewColor("#f8f8f2"),
			BgColor: NewColor("#282a36"),
		},
		Frame: FrameColors{
			BorderColor: NewColor("#44475a"),
			FocusColor:  NewColor("#6272a4"),
			TitleColor:  NewColor("#f8f8f2"),
		},
		Text: TextColors{
			MutedColor:   NewColor("#6272a4"),
			HeadingColor: NewColor("#bd93f9"),
			UnreadColor:  NewColor("#ffb86c"),
			ReadColor:    NewColor("#f8f8f2"),
			ActiveColor:  NewColor("#f1fa8c"),
			ErrorColor:   NewColor("#ff5555"),
			SuccessColor: NewColor("#50fa7b"),
			InfoColor:    NewColor("#8be9fd"),
		},
		Form: FormColors{
			FieldBgColor:    NewColor("#44475a"),
			FieldFgColor:    NewColor("#f8f8f2"),
			ButtonBgColor:   NewColor("#6272a4"),
			ButtonFgColor:   NewColor("#f8f8f2"),
			DisabledFgColor: NewColor("#6272a4"),
			DisabledBgColor: NewColor("#343746"),
		},
	}
}

// Merge fills every empty color of c from base.
func (c *ColorsConfig) Merge(base *ColorsConfig) {
	fill := func(dst *Color, src Color) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.Body.FgColor, base.Body.FgColor)
	fill(&c.Body.BgColor, base.Body.BgColor)
	fill(&c.Frame.BorderColor, base.Frame.BorderColor)
	fill(&c.Frame.FocusColor, base.Frame.FocusColor)
	fill(&c.Frame.TitleColor, base.Frame.TitleColor)
	fill(&c.Text.MutedColor, base.Text.MutedColor)
	fill(&c.Text.HeadingColor, base.Text.HeadingColor)
	fill(&c.Text.UnreadColor, base.Text.UnreadColor)
	fill(&c.Text.ReadColor, base.Text.ReadColor)
	fill(&c.Text.ActiveColor, base.Text.ActiveColor)
	fill(&c.Text.ErrorColor, base.Text.ErrorColor)
	fill(&c.Text.SuccessColor, base.Text.SuccessColor)
	fill(&c.Text.InfoColor, base.Text.InfoColor)
	fill(&c.Form.FieldBgColor, base.Form.FieldBgColor)
	fill(&c.Form.FieldFgColor, base.Form.FieldFgColor)
	fill(&c.Form.ButtonBgColor, base.Form.ButtonBgColor)
	fill(&c.Form.ButtonFgColor, base.Form.ButtonFgColor)
	fill(&c.Form.DisabledFgColor, base.Form.DisabledFgColor)
	fill(&c.Form.DisabledBgColor, base.Form.DisabledBgColor)
}
