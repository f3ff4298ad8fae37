package render

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Style is the path style of one drawn region. JSON names follow the path
// options of common web map widgets.
type Style struct {
	FillColor   string  `json:"fillColor" yaml:"fill_color"`
	Color       string  `json:"color" yaml:"color"`
	Weight      float64 `json:"weight" yaml:"weight"`
	Opacity     float64 `json:"opacity" yaml:"opacity"`
	FillOpacity float64 `json:"fillOpacity" yaml:"fill_opacity"`
}

// Theme holds the four style variants of a region.
type Theme struct {
	Base          Style `yaml:"base"`
	Selected      Style `yaml:"selected"`
	Hover         Style `yaml:"hover"`
	HoverSelected Style `yaml:"hover_selected"`
}

// DefaultTheme is the blue palette: light fill for regions, dark fill for the
// selected one.
func DefaultTheme() Theme {
	return Theme{
		Base:          Style{FillColor: "#dbeafe", Color: "#3b82f6", Weight: 1.5, Opacity: 1, FillOpacity: 0.7},
		Selected:      Style{FillColor: "#1e40af", Color: "#1e3a8a", Weight: 1.5, Opacity: 1, FillOpacity: 0.9},
		Hover:         Style{FillColor: "#60a5fa", Color: "#2563eb", Weight: 2.5, Opacity: 1, FillOpacity: 1},
		HoverSelected: Style{FillColor: "#1e3a8a", Color: "#1e3a8a", Weight: 2.5, Opacity: 1, FillOpacity: 1},
	}
}

// LoadTheme reads a YAML theme file. Fields left out keep their default.
//
//	render:
//	  selected:
//	    fill_color: "#7c2d12"
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()

	data, err := os.ReadFile(path)
	if err != nil {
		return theme, eris.Wrapf(err, "render: read theme %s", path)
	}

	var wrapper struct {
		Render map[string]Style `yaml:"render"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return theme, eris.Wrap(err, "render: parse theme")
	}

	for name, s := range wrapper.Render {
		var dst *Style
		switch name {
		case "base":
			dst = &theme.Base
		case "selected":
			dst = &theme.Selected
		case "hover":
			dst = &theme.Hover
		case "hover_selected":
			dst = &theme.HoverSelected
		default:
			return theme, eris.Errorf("render: unknown theme style %q", name)
		}
		*dst = merge(*dst, s)
	}

	return theme, nil
}

func merge(base, override Style) Style {
	if override.FillColor != "" {
		base.FillColor = override.FillColor
	}
	if override.Color != "" {
		base.Color = override.Color
	}
	if override.Weight != 0 {
		base.Weight = override.Weight
	}
	if override.Opacity != 0 {
		base.Opacity = override.Opacity
	}
	if override.FillOpacity != 0 {
		base.FillOpacity = override.FillOpacity
	}
	return base
}
