package provision

import "time"

// Actor identifies who performed an action in the system.
type Actor struct {
	// Hostname is the machine name where the action was performed.
	Hostname string `json:"hostname"`
	// Username is the system user who triggered the action.
	Username string `json:"username"`
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// StepResult records the outcome of a single provisioning step.
type StepResult struct {
	// Name is the step identifier (e.g. "refresh-index").
	Name string `json:"name"`
	// Completed reports whether the step finished without error.
	Completed bool `json:"completed"`
	// Error holds the failure text when Completed is false.
	Error string `json:"error,omitempty"`
	// FinishedAt is when the step finished, successfully or not.
	FinishedAt time.Time `json:"finished_at"`
}

// State represents the provisioning status of a machine at a point in time.
type State struct {
	// Timestamp is when the provisioning run started.
	Timestamp time.Time `json:"timestamp"`
	// LastActor is the user who last ran the provisioner.
	LastActor *Actor `json:"last_actor,omitempty"`
	// EngineVersion is the OCR engine version detected by the verify step.
	EngineVersion string `json:"engine_version,omitempty"`
	// Steps holds per-step outcomes in execution order.
	Steps []StepResult `json:"steps"`
}

// Clone returns a copy of the state to avoid leaking internal references.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	cloned := &State{
		Timestamp:     s.Timestamp,
		LastActor:     s.LastActor.Clone(),
		EngineVersion: s.EngineVersion,
	}

	if s.Steps != nil {
		cloned.Steps = append([]StepResult(nil), s.Steps...)
	}

	return cloned
}

// RecordStep appends or replaces the result for the named step.
// Reruns of a single step overwrite the previous outcome in place so the
// state file keeps one entry per step.
func (s *State) RecordStep(result StepResult) {
	for i := range s.Steps {
		if s.Steps[i].Name == result.Name {
			s.Steps[i] = result
			return
		}
	}

	s.Steps = append(s.Steps, result)
}

// StepByName returns the recorded result for the named step, if any.
func (s *State) StepByName(name string) (StepResult, bool) {
	for _, step := range s.Steps {
		if step.Name == name {
			return step, true
		}
	}

	return StepResult{}, false
}
