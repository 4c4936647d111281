package failurekit

import (
	"fmt"

	"go.llib.dev/frameless/pkg/errorkit"

	"go.llib.dev/txchain/port/txres"
)

const (
	ErrResolutionNotPermitted errorkit.Error = "failure resolution is not permitted"
	ErrNotResolvable          errorkit.Error = "failure has no resolution"
	ErrUnknownFailure         errorkit.Error = "failure is not part of the current failure set"
)

// NewAccessor creates the FailuresAccessor of a failure-processing phase.
// Failures without an ID get one assigned based on their position.
func NewAccessor(r txres.Resource, transactionName string, committing bool, failures []txres.Failure) *Accessor {
	fs := make([]txres.Failure, 0, len(failures))
	for i, f := range failures {
		if f.ID == "" {
			f.ID = fmt.Sprintf("%s#%d", transactionName, i)
		}
		fs = append(fs, f)
	}
	return &Accessor{
		resource:   r,
		name:       transactionName,
		committing: committing,
		permitted:  committing,
		failures:   fs,
		attempted:  make(map[string]struct{}),
	}
}

var _ txres.FailuresAccessor = (*Accessor)(nil)

// Accessor is the txres.FailuresAccessor used by the adapters of this module.
// It is not safe for concurrent use, it lives only during one failure-processing phase.
type Accessor struct {
	resource   txres.Resource
	name       string
	committing bool
	permitted  bool
	failures   []txres.Failure
	attempted  map[string]struct{}
}

func (a *Accessor) Resource() txres.Resource           { return a.resource }
func (a *Accessor) TransactionName() string            { return a.name }
func (a *Accessor) IsTransactionBeingCommitted() bool  { return a.committing }
func (a *Accessor) IsFailureResolutionPermitted() bool { return a.permitted }

func (a *Accessor) Severity() txres.Severity {
	var sev = txres.None
	for _, f := range a.failures {
		if sev < f.Severity {
			sev = f.Severity
		}
	}
	return sev
}

func (a *Accessor) Failures(sev txres.Severity) []txres.Failure {
	var out []txres.Failure
	for _, f := range a.failures {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

func (a *Accessor) DeleteAllWarnings() {
	a.filter(func(f txres.Failure) bool { return f.Severity != txres.Warning })
}

func (a *Accessor) DeleteWarning(w txres.Failure) {
	if w.Severity != txres.Warning {
		return
	}
	a.filter(func(f txres.Failure) bool { return f.ID != w.ID })
}

func (a *Accessor) ResolveFailure(f txres.Failure) error {
	if !a.permitted {
		return ErrResolutionNotPermitted
	}
	if !a.contains(f.ID) {
		return ErrUnknownFailure.F("%s", f.ID)
	}
	if !f.Resolvable() {
		return ErrNotResolvable.F("%s: %s", f.ID, f.Description)
	}
	a.attempted[f.ID] = struct{}{}
	if err := f.Resolution(); err != nil {
		return err
	}
	a.filter(func(o txres.Failure) bool { return o.ID != f.ID })
	return nil
}

func (a *Accessor) HasAttemptedResolution(f txres.Failure) bool {
	_, ok := a.attempted[f.ID]
	return ok
}

// Blocking returns the remaining failures which prevent a commit.
func (a *Accessor) Blocking() []txres.Failure {
	var out []txres.Failure
	for _, f := range a.failures {
		if txres.SeverityError <= f.Severity {
			out = append(out, f)
		}
	}
	return out
}

// Remaining returns every failure that was neither deleted nor resolved.
func (a *Accessor) Remaining() []txres.Failure {
	return append([]txres.Failure(nil), a.failures...)
}

// Expire closes the accessor, after this no more resolution is permitted.
func (a *Accessor) Expire() {
	a.permitted = false
}

func (a *Accessor) contains(id string) bool {
	for _, f := range a.failures {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (a *Accessor) filter(keep func(txres.Failure) bool) {
	var out []txres.Failure
	for _, f := range a.failures {
		if keep(f) {
			out = append(out, f)
		}
	}
	a.failures = out
}
