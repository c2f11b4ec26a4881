package style

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config controls how a repository snapshot is rendered.
type Config struct {
	Icon          string `yaml:"icon"`
	ConflictText  string `yaml:"conflict"`
	DivergentText string `yaml:"divergent"`
	HiddenText    string `yaml:"hidden"`
	ImmutableText string `yaml:"immutable"`
	EmptyText     string `yaml:"empty_text"`
	NoDescText    string `yaml:"no_description_text"`

	// ChangeIDLen is the number of change-id characters to display.
	ChangeIDLen int `yaml:"change_id_len"`

	// DescLen is the maximum description length in grapheme clusters.
	// 0 disables truncation.
	DescLen int `yaml:"desc_len"`

	Colors ColorConfig `yaml:"colors"`
}

// ColorConfig holds one style token per colorable prompt element.
type ColorConfig struct {
	Icon         string `yaml:"icon"`
	ChangeID     string `yaml:"change_id"`
	ChangeIDRest string `yaml:"change_id_rest"`
	Bookmark     string `yaml:"bookmark"`
	Status       string `yaml:"status"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		Icon:          "@",
		ConflictText:  "✗",
		DivergentText: "◇",
		HiddenText:    "⊘",
		ImmutableText: "◆",
		EmptyText:     "(empty)",
		NoDescText:    "(no description set)",
		ChangeIDLen:   8,
		DescLen:       29,
		Colors: ColorConfig{
			Icon:         "magenta",
			ChangeID:     "bold_magenta",
			ChangeIDRest: "bright_black",
			Bookmark:     "magenta",
			Status:       "yellow",
		},
	}
}

// Load reads the config at path, or the default location when path is
// empty. A missing or unreadable file yields the defaults; a prompt must
// render even when its configuration is broken.
func Load(path string) Config {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Default()
		}
		path = filepath.Join(dir, "jj-prompt", configFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	return cfg
}

// Styles is the resolved set of lipgloss styles for a Config.
type Styles struct {
	Icon         lipgloss.Style
	ChangeID     lipgloss.Style
	ChangeIDRest lipgloss.Style
	Bookmark     lipgloss.Style
	Status       lipgloss.Style
}

// Styles resolves the configured color tokens against a renderer. A token
// that fails to parse falls back to the default token for that element,
// so one bad color never costs the whole prompt.
func (c Config) Styles(r *lipgloss.Renderer) Styles {
	defaults := Default().Colors
	return Styles{
		Icon:         resolve(r, c.Colors.Icon, defaults.Icon),
		ChangeID:     resolve(r, c.Colors.ChangeID, defaults.ChangeID),
		ChangeIDRest: resolve(r, c.Colors.ChangeIDRest, defaults.ChangeIDRest),
		Bookmark:     resolve(r, c.Colors.Bookmark, defaults.Bookmark),
		Status:       resolve(r, c.Colors.Status, defaults.Status),
	}
}

func resolve(r *lipgloss.Renderer, token, fallback string) lipgloss.Style {
	spec, err := ParseColorSpec(token)
	if err != nil {
		spec, err = ParseColorSpec(fallback)
		if err != nil {
			return r.NewStyle()
		}
	}
	return spec.Style(r)
}
