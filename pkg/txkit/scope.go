package txkit

import (
	"io"

	"go.llib.dev/txchain/pkg/failurekit"
	"go.llib.dev/txchain/port/txres"
)

const (
	commitScopeName   = "Commit Scope"
	rollBackScopeName = "RollBack Scope"
)

// CommitScope opens a transaction on the resource, unless one is already in progress there.
// In the latter case the scope is a no-op and the ambient transaction is left alone.
//
// The scope never commits on its own, the caller must call Commit explicitly.
// Close discards whatever was not committed.
//
//	scope, err := txkit.CommitScope(doc)
//	if err != nil {
//		return err
//	}
//	defer scope.Close()
//	// modify doc
//	return scope.Commit()
func CommitScope(r txres.Resource) (*CommittableScope, error) {
	if !r.IsValid() {
		return nil, txres.ErrInvalidResource.F("%s", r.Name())
	}
	if r.HasAmbientTransaction() {
		return &CommittableScope{}, nil
	}
	tx := r.NewTransaction(commitScopeName)
	tx.SetFailureHandlingOptions(txres.FailureHandlingOptions{
		ClearAfterRollback:  true,
		ForcedModalHandling: true,
		FailureHandler:      failurekit.NoErrors,
	})
	status, err := tx.Start()
	if err != nil {
		return nil, err
	}
	if status != txres.Started {
		return nil, ErrPrecondition.F("%s on %s is %s", commitScopeName, r.Name(), status)
	}
	return &CommittableScope{tx: tx}, nil
}

type CommittableScope struct {
	tx txres.Transaction
}

// IsNoOp reports whether the scope joined an ambient transaction instead of opening its own.
func (s *CommittableScope) IsNoOp() bool { return s.tx == nil }

// Commit commits the scope's transaction.
// If the failure processing rolls the transaction back, ErrCommitScopeRolledBack is returned.
func (s *CommittableScope) Commit() error {
	if s.tx == nil {
		return nil
	}
	status, err := s.tx.Commit()
	if err != nil {
		return err
	}
	if status != txres.Committed {
		return ErrCommitScopeRolledBack.F("%s", status)
	}
	return nil
}

func (s *CommittableScope) Close() error {
	if s.tx == nil || s.tx.Status() != txres.Started {
		return nil
	}
	_, err := s.tx.RollBack()
	return err
}

// RollBackScope opens a transaction on the resource that is always rolled back on Close.
// When a transaction is already in progress, a sub-transaction is used,
// so only the changes made within the scope are discarded.
func RollBackScope(r txres.Resource) (io.Closer, error) {
	if !r.IsValid() {
		return nil, txres.ErrInvalidResource.F("%s", r.Name())
	}
	at := NewAdaptiveTransaction(r, rollBackScopeName)
	at.SetFailureHandlingOptions(txres.FailureHandlingOptions{
		ClearAfterRollback:  true,
		ForcedModalHandling: true,
		FailureHandler:      failurekit.Rollback,
	})
	status, err := at.Start()
	if err != nil {
		return nil, err
	}
	if status != txres.Started {
		return nil, ErrPrecondition.F("%s on %s is %s", rollBackScopeName, r.Name(), status)
	}
	return rollBackScope{at: at}, nil
}

type rollBackScope struct{ at *AdaptiveTransaction }

func (s rollBackScope) Close() error {
	if s.at.Status() != txres.Started {
		return nil
	}
	_, err := s.at.RollBack()
	return err
}
