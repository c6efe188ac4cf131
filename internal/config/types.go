package config

// Config is the root of the site configuration file (docwright.yaml).
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Content    ContentConfig    `yaml:"content"`
	Navigation NavigationConfig `yaml:"navigation"`
	Output     OutputConfig     `yaml:"output"`
	Serve      ServeConfig      `yaml:"serve,omitempty"`
	Daemon     DaemonConfig     `yaml:"daemon,omitempty"`
	History    HistoryConfig    `yaml:"history,omitempty"`
	Notify     NotifyConfig     `yaml:"notify,omitempty"`
	Metrics    MetricsConfig    `yaml:"metrics,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// SiteConfig carries the site-wide presentation surface. Everything here is
// passed through to the emitted site model; nothing in it changes how
// documents resolve.
type SiteConfig struct {
	Title              string            `yaml:"title"`
	Tagline            string            `yaml:"tagline,omitempty"`
	BaseURL            string            `yaml:"base_url,omitempty"`
	Locales            []string          `yaml:"locales,omitempty"` // first entry is the default locale
	ColorMode          ColorModeConfig   `yaml:"color_mode,omitempty"`
	Palette            map[string]string `yaml:"palette,omitempty"`
	Navbar             []NavbarItem      `yaml:"navbar,omitempty"`
	Footer             FooterConfig      `yaml:"footer,omitempty"`
	HighlightLanguages []string          `yaml:"highlight_languages,omitempty"`
}

// ColorModeConfig mirrors the hosting renderer's theme toggle options.
type ColorModeConfig struct {
	Default       string `yaml:"default,omitempty"` // light|dark|system
	Switchable    *bool  `yaml:"switchable,omitempty"`
	RespectSystem bool   `yaml:"respect_system,omitempty"`
}

// NavbarItem is one top-bar entry. To targets an internal route, Href an
// external URL; exactly one should be set.
type NavbarItem struct {
	Label    string `yaml:"label"`
	To       string `yaml:"to,omitempty"`
	Href     string `yaml:"href,omitempty"`
	Position string `yaml:"position,omitempty"` // left|right
}

// FooterConfig describes grouped footer links.
type FooterConfig struct {
	Style     string        `yaml:"style,omitempty"` // light|dark
	Links     []FooterGroup `yaml:"links,omitempty"`
	Copyright string        `yaml:"copyright,omitempty"`
}

// FooterGroup is one titled column of footer links.
type FooterGroup struct {
	Title string       `yaml:"title"`
	Items []FooterItem `yaml:"items,omitempty"`
}

// FooterItem is a single footer link.
type FooterItem struct {
	Label string `yaml:"label"`
	To    string `yaml:"to,omitempty"`
	Href  string `yaml:"href,omitempty"`
}

// ContentConfig locates and scopes the document tree.
type ContentConfig struct {
	Dir           string `yaml:"dir"`
	RouteBase     string `yaml:"route_base,omitempty"`
	IncludeDrafts bool   `yaml:"include_drafts,omitempty"`
	GitMetadata   bool   `yaml:"git_metadata,omitempty"` // enrich documents with last-update info from git

	// Include and Exclude are glob patterns matched against content-relative
	// paths. An empty include list admits everything not excluded.
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// NavigationConfig locates the sidebar file and sets reference policies.
type NavigationConfig struct {
	File             string    `yaml:"file,omitempty"`
	BrokenReferences RefPolicy `yaml:"broken_references,omitempty"`
	BrokenLinks      RefPolicy `yaml:"broken_links,omitempty"`
	BrokenAnchors    RefPolicy `yaml:"broken_anchors,omitempty"`

	// WarnOrphans reports documents no sidebar references.
	WarnOrphans bool `yaml:"warn_orphans,omitempty"`
}

// OutputConfig controls where the site model bundle is written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     *bool  `yaml:"clean,omitempty"`
}

// CleanEnabled reports whether the output directory is wiped before a build.
func (o OutputConfig) CleanEnabled() bool {
	return o.Clean == nil || *o.Clean
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr       string `yaml:"addr,omitempty"`
	LiveReload *bool  `yaml:"live_reload,omitempty"`
}

// DaemonConfig configures continuous rebuild mode.
type DaemonConfig struct {
	Watch      bool   `yaml:"watch"`
	DebounceMS int    `yaml:"debounce_ms,omitempty"`
	Schedule   string `yaml:"schedule,omitempty"` // cron expression for periodic revalidation
	HTTPAddr   string `yaml:"http_addr,omitempty"`

	// Retry settings for builds that failed on a transient condition.
	// MaxRetries 0 means the default (2); -1 disables retries.
	RetryBackoff   string `yaml:"retry_backoff,omitempty"` // fixed|linear|exponential
	RetryInitialMS int    `yaml:"retry_initial_ms,omitempty"`
	RetryMaxMS     int    `yaml:"retry_max_ms,omitempty"`
	MaxRetries     int    `yaml:"max_retries,omitempty"`
}

// HistoryConfig configures the build history store.
type HistoryConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path,omitempty"`
	MaxBuilds int    `yaml:"max_builds,omitempty"`
}

// NotifyConfig configures diagnostic event publishing.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// LoggingConfig controls process logging.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}
