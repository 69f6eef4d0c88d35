package session

import (
	"fmt"

	"github.com/festy23/trip_publisher/internal/wizard/aggregate"
	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/steps"
)

// checkStep validates only the fields gated by step n. Caller holds mu.
func (s *Session) checkStep(n int) []model.ValidationError {
	d := s.draft()
	return aggregate.Check(s.deps.Registry, &d, aggregate.StepScope(n))
}

// dropStepErrors removes errors routed to step n. Caller holds mu.
func (s *Session) dropStepErrors(n int) {
	kept := make([]model.ValidationError, 0, len(s.errs))
	for _, e := range s.errs {
		if steps.StepForField(e.FieldID) != n {
			kept = append(kept, e)
		}
	}
	s.setErrors(kept)
}

// blocked records step errors and returns the notice shown to the user. Caller holds mu.
func (s *Session) blocked(errs []model.ValidationError) []model.Notice {
	s.dropStepErrors(s.step)
	merged := aggregate.Aggregate(nil, append(errs, s.errs...))
	s.setErrors(merged)
	return []model.Notice{{
		Level:   model.NoticeError,
		Message: fmt.Sprintf("Please fix %d error(s) before continuing", len(errs)),
	}}
}

// Next validates the current step and advances when it is clean.
func (s *Session) Next() ([]model.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return nil, err
	}

	if errs := s.checkStep(s.step); len(errs) > 0 {
		return s.blocked(errs), nil
	}
	s.dropStepErrors(s.step)
	s.step = steps.Clamp(s.step + 1)
	return nil, nil
}

// Back moves one step back without validation.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return err
	}
	s.step = steps.Clamp(s.step - 1)
	return nil
}

// GoTo jumps to step n. Moving backwards is free; moving forwards validates every
// step passed over and stops at the first one with errors.
func (s *Session) GoTo(n int) ([]model.Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editable(); err != nil {
		return nil, err
	}

	target := steps.Clamp(n)
	for s.step < target {
		if errs := s.checkStep(s.step); len(errs) > 0 {
			return s.blocked(errs), nil
		}
		s.dropStepErrors(s.step)
		s.step++
	}
	s.step = target
	return nil, nil
}
