package security

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Step is one best-effort cleanup action.
type Step struct {
	Name string
	Run  func() error
}

// RunSteps runs every step in order. A failing or panicking step is logged and
// the remaining steps still run. It returns the number of failed steps.
func RunSteps(scope string, steps ...Step) int {
	failed := 0

	for _, s := range steps {
		if err := runStep(s); err != nil {
			failed++

			log.Warn().Err(err).Str("scope", scope).Str("step", s.Name).Msg("cleanup step failed")
		}
	}

	return failed
}

func runStep(s Step) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if s.Run == nil {
		return nil
	}

	return s.Run()
}
