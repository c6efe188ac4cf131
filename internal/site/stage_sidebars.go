package site

import (
	"context"
	"fmt"

	"github.com/docwright/docwright/internal/sidebar"
)

// stageLoadSidebars parses the declared navigation. A missing or unparsable
// sidebar file is fatal: without a declaration there is no navigation model
// to emit. An empty file is legal and declares no sidebars.
func stageLoadSidebars(_ context.Context, bs *BuildState) error {
	file, err := sidebar.Load(bs.Generator.cfg.Navigation.File)
	if err != nil {
		return NewFatalStageError(StageLoadSidebars, fmt.Errorf("%w: %w", ErrSidebars, err))
	}
	bs.Sidebars = file
	return nil
}
