// Package txkit holds transaction helpers that work with any txres.Resource.
package txkit

import "go.llib.dev/frameless/pkg/errorkit"

const (
	// ErrPrecondition is returned when an operation is called in a state where it is not allowed.
	ErrPrecondition errorkit.Error = "transaction precondition failed"
	// ErrCommitScopeRolledBack is returned when a commit scope could not commit its transaction.
	ErrCommitScopeRolledBack errorkit.Error = "commit scope rolled back"
)
