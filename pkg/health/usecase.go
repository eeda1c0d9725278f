package health

import (
	"context"
	"errors"
	"fmt"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Report holds the outcome of every checker, keyed by checker name.
// A nil error means the dependency is usable.
type Report map[string]error

// Err joins the failed checks, nil when all passed.
func (r Report) Err() error {
	var errs []error
	for name, err := range r {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Status renders the report for probes: "ok" or the failure text per checker.
func (r Report) Status() map[string]string {
	out := make(map[string]string, len(r))
	for name, err := range r {
		if err != nil {
			out[name] = err.Error()
		} else {
			out[name] = "ok"
		}
	}
	return out
}

// ReadinessUseCase runs every checker; one failure does not hide the others.
type ReadinessUseCase interface {
	Ready(ctx context.Context) Report
}

type service struct {
	checkers []Checker
}

func NewService(checkers ...Checker) ReadinessUseCase {
	return &service{checkers: checkers}
}

func (s *service) Ready(ctx context.Context) Report {
	r := make(Report, len(s.checkers))
	for _, ch := range s.checkers {
		r[ch.Name()] = ch.Check(ctx)
	}
	return r
}
