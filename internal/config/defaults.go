package config

import "fmt"

// ConfigDefaultApplier applies defaults for a specific configuration domain.
type ConfigDefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []ConfigDefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []ConfigDefaultApplier{
			&SiteDefaultApplier{},
			&ContentDefaultApplier{},
			&NavigationDefaultApplier{},
			&OutputDefaultApplier{},
			&ServeDefaultApplier{},
			&DaemonDefaultApplier{},
			&HistoryDefaultApplier{},
			&NotifyDefaultApplier{},
			&MetricsDefaultApplier{},
			&LoggingDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

func applyDefaults(cfg *Config) error {
	return NewDefaultApplier().ApplyDefaults(cfg)
}

// SiteDefaultApplier handles site configuration defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Documentation"
	}
	if len(cfg.Site.Locales) == 0 {
		cfg.Site.Locales = []string{"en"}
	}
	if cfg.Site.ColorMode.Default == "" {
		cfg.Site.ColorMode.Default = "system"
	}
	if cfg.Site.ColorMode.Switchable == nil {
		switchable := true
		cfg.Site.ColorMode.Switchable = &switchable
	}
	return nil
}

// ContentDefaultApplier handles content configuration defaults.
type ContentDefaultApplier struct{}

func (c *ContentDefaultApplier) Domain() string { return "content" }

func (c *ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Content.Dir == "" {
		cfg.Content.Dir = "docs"
	}
	if cfg.Content.RouteBase == "" {
		cfg.Content.RouteBase = "docs"
	}
	return nil
}

// NavigationDefaultApplier handles navigation configuration defaults.
type NavigationDefaultApplier struct{}

func (n *NavigationDefaultApplier) Domain() string { return "navigation" }

func (n *NavigationDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Navigation.File == "" {
		cfg.Navigation.File = "sidebars.yaml"
	}
	if cfg.Navigation.BrokenReferences == "" {
		cfg.Navigation.BrokenReferences = PolicyWarn
	}
	if cfg.Navigation.BrokenLinks == "" {
		cfg.Navigation.BrokenLinks = PolicyWarn
	}
	if cfg.Navigation.BrokenAnchors == "" {
		cfg.Navigation.BrokenAnchors = PolicyWarn
	}
	return nil
}

// OutputDefaultApplier handles output configuration defaults.
type OutputDefaultApplier struct{}

func (o *OutputDefaultApplier) Domain() string { return "output" }

func (o *OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./site"
	}
	return nil
}

// ServeDefaultApplier handles preview server defaults.
type ServeDefaultApplier struct{}

func (s *ServeDefaultApplier) Domain() string { return "serve" }

func (s *ServeDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":3000"
	}
	if cfg.Serve.LiveReload == nil {
		live := true
		cfg.Serve.LiveReload = &live
	}
	return nil
}

// DaemonDefaultApplier handles daemon configuration defaults.
type DaemonDefaultApplier struct{}

func (d *DaemonDefaultApplier) Domain() string { return "daemon" }

func (d *DaemonDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Daemon.DebounceMS <= 0 {
		cfg.Daemon.DebounceMS = 400
	}
	if cfg.Daemon.HTTPAddr == "" {
		cfg.Daemon.HTTPAddr = ":8090"
	}
	if cfg.Daemon.RetryBackoff == "" {
		cfg.Daemon.RetryBackoff = "linear"
	}
	if cfg.Daemon.RetryInitialMS <= 0 {
		cfg.Daemon.RetryInitialMS = 1000
	}
	if cfg.Daemon.RetryMaxMS <= 0 {
		cfg.Daemon.RetryMaxMS = 30000
	}
	if cfg.Daemon.MaxRetries < 0 {
		cfg.Daemon.MaxRetries = 0
	} else if cfg.Daemon.MaxRetries == 0 {
		cfg.Daemon.MaxRetries = 2
	}
	return nil
}

// HistoryDefaultApplier handles build history defaults.
type HistoryDefaultApplier struct{}

func (h *HistoryDefaultApplier) Domain() string { return "history" }

func (h *HistoryDefaultApplier) ApplyDefaults(cfg *Config) error {
	if !cfg.History.Enabled {
		return nil
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "docwright.db"
	}
	if cfg.History.MaxBuilds <= 0 {
		cfg.History.MaxBuilds = 100
	}
	return nil
}

// NotifyDefaultApplier handles notification defaults.
type NotifyDefaultApplier struct{}

func (n *NotifyDefaultApplier) Domain() string { return "notify" }

func (n *NotifyDefaultApplier) ApplyDefaults(cfg *Config) error {
	if !cfg.Notify.Enabled {
		return nil
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "docwright.diagnostics"
	}
	return nil
}

// MetricsDefaultApplier handles metrics defaults.
type MetricsDefaultApplier struct{}

func (m *MetricsDefaultApplier) Domain() string { return "metrics" }

func (m *MetricsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	return nil
}

// LoggingDefaultApplier handles logging defaults.
type LoggingDefaultApplier struct{}

func (l *LoggingDefaultApplier) Domain() string { return "logging" }

func (l *LoggingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	return nil
}
