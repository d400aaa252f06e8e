package model

// Status is the result of dispatching a theme to one requested target.
type Status string

const (
	StatusApplied       Status = "applied"
	StatusUnknownTarget Status = "unknown-target"
	StatusApplyFailed   Status = "apply-failed"
)

// Outcome records what happened to one requested target name.
type Outcome struct {
	Target  string // name as requested by the user
	Backend string // backend display name, empty for unknown targets
	Status  Status
	Err     error
}

func (o Outcome) Failed() bool {
	return o.Status != StatusApplied
}

// Report holds one outcome per requested target, in request order.
type Report struct {
	Outcomes []Outcome
}

// Failed reports whether any target was unknown or failed to apply.
func (r Report) Failed() bool {
	for _, o := range r.Outcomes {
		if o.Failed() {
			return true
		}
	}
	return false
}

// Failures returns the outcomes that did not succeed.
func (r Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}

// Counts tallies outcomes by status.
func (r Report) Counts() map[Status]int {
	counts := make(map[Status]int, 3)
	for _, o := range r.Outcomes {
		counts[o.Status]++
	}
	return counts
}
