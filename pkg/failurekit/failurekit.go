// Package failurekit holds the failure-processing building blocks shared by the resource adapters,
// and the common FailureHandler presets.
package failurekit

import (
	"go.llib.dev/txchain/port/txres"
)

var (
	// NoWarnings deletes every warning and lets the transaction continue.
	NoWarnings txres.FailureHandler = txres.FailureHandlerFunc(noWarnings)
	// NoErrors deletes warnings, and tries the default resolution on every error once.
	// When nothing could be fixed, the transaction is rolled back.
	NoErrors txres.FailureHandler = txres.FailureHandlerFunc(noErrors)
	// Rollback always rolls the transaction back.
	Rollback txres.FailureHandler = txres.FailureHandlerFunc(rollback)
)

func noWarnings(fa txres.FailuresAccessor) txres.Decision {
	fa.DeleteAllWarnings()
	return txres.Continue
}

func noErrors(fa txres.FailuresAccessor) txres.Decision {
	if fa.Severity() < txres.SeverityError {
		fa.DeleteAllWarnings()
		return txres.Continue
	}
	if fa.IsFailureResolutionPermitted() {
		var fixCount int
		for _, f := range fa.Failures(txres.SeverityError) {
			if !f.Resolvable() || fa.HasAttemptedResolution(f) {
				continue
			}
			if err := fa.ResolveFailure(f); err != nil {
				continue
			}
			fixCount++
		}
		if 0 < fixCount {
			return txres.ProceedWithCommit
		}
	}
	return txres.ProceedWithRollBack
}

func rollback(txres.FailuresAccessor) txres.Decision {
	return txres.ProceedWithRollBack
}

// Outcome is what a transaction should do at the end of its failure-processing phase.
type Outcome int

const (
	Commit Outcome = iota
	RollBack
	Wait
)

func (o Outcome) String() string {
	switch o {
	case Commit:
		return "commit"
	case RollBack:
		return "rollback"
	case Wait:
		return "wait"
	default:
		return "unknown"
	}
}

// Process runs the failure handler of the options against the accessor and decides the outcome.
//
// canWait tells whether the caller is able to resolve the transaction out-of-band.
// A Wait outcome is only possible when modeless handling is allowed as well.
func Process(fa *Accessor, opts txres.FailureHandlingOptions, canWait bool) (Outcome, txres.Decision) {
	var decision = txres.Continue
	if opts.FailureHandler != nil {
		decision = opts.FailureHandler.PreprocessFailures(fa)
	}
	switch decision {
	case txres.ProceedWithRollBack:
		return RollBack, decision
	case txres.WaitForUserInput:
		if canWait && !opts.ForcedModalHandling {
			return Wait, decision
		}
	}
	return Verdict(fa), decision
}

// Verdict tells whether the remaining failures allow a commit.
func Verdict(fa *Accessor) Outcome {
	if !fa.IsTransactionBeingCommitted() || 0 < len(fa.Blocking()) {
		return RollBack
	}
	return Commit
}
