package daemon

import (
	"context"

	"github.com/docwright/docwright/internal/site"
)

// captureSink tees recorded builds: the diagnostics stay in hand for
// publishing after the build while the wrapped sink persists them. A fresh
// sink is created per build and only touched from the build goroutine, so no
// locking is needed.
type captureSink struct {
	next        site.HistorySink
	diagnostics []site.Diagnostic
}

func (c *captureSink) RecordBuild(ctx context.Context, report *site.BuildReport, diagnostics []site.Diagnostic) error {
	c.diagnostics = diagnostics
	if c.next == nil {
		return nil
	}
	return c.next.RecordBuild(ctx, report, diagnostics)
}
