package checkers

import (
	"context"
	"fmt"
	"os"
)

// ScratchChecker verifies the scratch directory accepts new files.
type ScratchChecker struct {
	root string
}

func NewScratchChecker(root string) *ScratchChecker {
	return &ScratchChecker{root: root}
}

func (c *ScratchChecker) Name() string { return "scratch" }

func (c *ScratchChecker) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.CreateTemp(c.root, "probe-*")
	if err != nil {
		return fmt.Errorf("scratch dir not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
