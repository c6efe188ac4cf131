package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// stagePrepareOutput lays down the model bundle skeleton inside the build
// root. The JSON files land at the root; document sources and assets are
// copied under content/ so relative links keep working for preview.
func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	dirs := []string{"content"}
	root := bs.root()
	for _, dir := range dirs {
		p := filepath.Join(root, dir)
		if err := os.MkdirAll(p, 0o750); err != nil {
			return NewFatalStageError(StagePrepareOutput, fmt.Errorf("%w: create %s: %w", ErrEmit, p, err))
		}
	}
	return nil
}
