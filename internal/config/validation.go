package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateContent(); err != nil {
		return err
	}
	if err := cv.validateNavigation(); err != nil {
		return err
	}
	if err := cv.validateOutput(); err != nil {
		return err
	}
	if err := cv.validateDaemon(); err != nil {
		return err
	}
	if err := cv.validateNotify(); err != nil {
		return err
	}
	return nil
}

func (cv *configurationValidator) validateSite() error {
	site := cv.config.Site

	if site.Title == "" {
		return errors.New("site title cannot be empty")
	}

	if site.BaseURL != "" {
		u, err := url.Parse(site.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid site base_url %q: %w", site.BaseURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("site base_url must use http or https, got %q", site.BaseURL)
		}
	}

	for i, item := range site.Navbar {
		if item.Label == "" {
			return fmt.Errorf("navbar item %d has no label", i)
		}
		if item.To != "" && item.Href != "" {
			return fmt.Errorf("navbar item %q sets both to and href", item.Label)
		}
		if item.Position != "" && item.Position != "left" && item.Position != "right" {
			return fmt.Errorf("navbar item %q has invalid position %q (left or right)", item.Label, item.Position)
		}
	}

	for _, group := range site.Footer.Links {
		if group.Title == "" {
			return errors.New("footer link group has no title")
		}
		for _, item := range group.Items {
			if item.Label == "" {
				return fmt.Errorf("footer group %q has an item with no label", group.Title)
			}
			if item.To != "" && item.Href != "" {
				return fmt.Errorf("footer item %q sets both to and href", item.Label)
			}
		}
	}

	if site.Footer.Style != "" && site.Footer.Style != "light" && site.Footer.Style != "dark" {
		return fmt.Errorf("footer style must be light or dark, got %q", site.Footer.Style)
	}

	return nil
}

func (cv *configurationValidator) validateContent() error {
	if cv.config.Content.Dir == "" {
		return errors.New("content dir cannot be empty")
	}
	if strings.HasPrefix(cv.config.Content.RouteBase, "/") {
		return fmt.Errorf("content route_base must be relative, got %q", cv.config.Content.RouteBase)
	}
	return nil
}

func (cv *configurationValidator) validateNavigation() error {
	nav := cv.config.Navigation
	if nav.File == "" {
		return errors.New("navigation file cannot be empty")
	}
	for field, p := range map[string]RefPolicy{
		"broken_references": nav.BrokenReferences,
		"broken_links":      nav.BrokenLinks,
		"broken_anchors":    nav.BrokenAnchors,
	} {
		switch p {
		case PolicyWarn, PolicyFail, PolicyIgnore:
		default:
			return fmt.Errorf("navigation %s has invalid policy %q", field, p)
		}
	}
	return nil
}

func (cv *configurationValidator) validateOutput() error {
	if cv.config.Output.Directory == "" {
		return errors.New("output directory cannot be empty")
	}
	return nil
}

func (cv *configurationValidator) validateDaemon() error {
	d := cv.config.Daemon
	switch d.RetryBackoff {
	case "", "fixed", "linear", "exponential":
	default:
		return fmt.Errorf("daemon retry_backoff must be fixed, linear or exponential, got %q", d.RetryBackoff)
	}
	if d.Schedule == "" {
		return nil
	}
	// gocron validates the full cron grammar at registration; catch the
	// obvious field-count mistake early so config errors surface at load.
	fields := strings.Fields(d.Schedule)
	if len(fields) != 5 && len(fields) != 6 {
		return fmt.Errorf("daemon schedule %q is not a cron expression", d.Schedule)
	}
	return nil
}

func (cv *configurationValidator) validateNotify() error {
	n := cv.config.Notify
	if !n.Enabled {
		return nil
	}
	if n.URL == "" {
		return errors.New("notify is enabled but no url is configured")
	}
	return nil
}
