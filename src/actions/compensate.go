package actions

import (
	"context"
	"log"
)

// compensator records the reverse operation for each completed step of a
// multi-call flow. When a later step fails, run unwinds the completed steps
// newest-first and reports the ones whose reversal also failed.
type compensator struct {
	steps []compStep
}

type compStep struct {
	name string
	undo func(context.Context) error
}

func (c *compensator) add(name string, undo func(context.Context) error) {
	c.steps = append(c.steps, compStep{name: name, undo: undo})
}

func (c *compensator) run(ctx context.Context) []string {
	var failed []string
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.undo(ctx); err != nil {
			log.Printf("ERROR: compensation %q failed: %v", step.name, err)
			failed = append(failed, step.name)
			continue
		}
		log.Printf("INFO: compensated step %q", step.name)
	}
	return failed
}
