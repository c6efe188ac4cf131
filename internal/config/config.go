// Package config loads, normalizes, defaults and validates the docwright
// configuration file. Values in the file may reference environment variables
// with ${VAR} syntax; a .env file next to the working directory is honored.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/docwright/docwright/internal/logfields"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "docwright.yaml"

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content before decoding.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Normalization pass (case-fold enumerations, canonical lists), then
	// defaults so canonical values drive them, then validation.
	res := NormalizeConfig(&cfg)
	for _, w := range res.Warnings {
		slog.Warn("Config normalization", slog.String("detail", w))
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// loadEnvFiles loads the first .env-style file found. Existing process
// environment variables always win.
func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if err := godotenv.Load(name); err == nil {
			slog.Debug("Loaded environment variables", logfields.Path(name))
			return
		}
	}
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	switchable := true
	clean := true
	example := Config{
		Site: SiteConfig{
			Title:   "My Documentation",
			Tagline: "Everything the team needs to know",
			BaseURL: "https://docs.example.com",
			Locales: []string{"en"},
			ColorMode: ColorModeConfig{
				Default:       "system",
				Switchable:    &switchable,
				RespectSystem: true,
			},
			Palette: map[string]string{
				"primary":   "#2e8555",
				"secondary": "#4a4a4a",
			},
			Navbar: []NavbarItem{
				{Label: "Docs", To: "/docs", Position: "left"},
				{Label: "GitHub", Href: "https://github.com/example/docs", Position: "right"},
			},
			Footer: FooterConfig{
				Style: "dark",
				Links: []FooterGroup{
					{
						Title: "Learn",
						Items: []FooterItem{
							{Label: "Getting Started", To: "/docs/getting-started"},
						},
					},
				},
				Copyright: "Copyright © Example Corp",
			},
			HighlightLanguages: []string{"bash", "go", "java", "yaml"},
		},
		Content: ContentConfig{
			Dir:         "docs",
			RouteBase:   "docs",
			GitMetadata: true,
		},
		Navigation: NavigationConfig{
			File:             "sidebars.yaml",
			BrokenReferences: PolicyWarn,
			BrokenLinks:      PolicyWarn,
		},
		Output: OutputConfig{
			Directory: "./site",
			Clean:     &clean,
		},
		Serve: ServeConfig{
			Addr: ":3000",
		},
		Daemon: DaemonConfig{
			Watch:      true,
			DebounceMS: 400,
			Schedule:   "0 */4 * * *",
			HTTPAddr:   ":8090",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "docwright.db",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
