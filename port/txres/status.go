package txres

// Status is the state of a transaction.
type Status int

const (
	Uninitialized Status = iota
	Started
	RolledBack
	Committed
	// Pending means the commit is waiting for an out-of-band resolution,
	// and the Finalizer will report its outcome later.
	Pending
	Error
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Started:
		return "started"
	case RolledBack:
		return "rolled-back"
	case Committed:
		return "committed"
	case Pending:
		return "pending"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the transaction is resolved for good.
func (s Status) IsTerminal() bool {
	return s == RolledBack || s == Committed || s == Error
}

// Decision is the result of a failure-processing phase.
// The values are ordered, a bigger value is a more drastic decision.
type Decision int

const (
	// Continue lets the transaction proceed with its own failure rules.
	Continue Decision = iota
	// ProceedWithCommit asks the transaction to commit, as failures were resolved.
	ProceedWithCommit
	// WaitForUserInput asks for an out-of-band resolution.
	WaitForUserInput
	// ProceedWithRollBack aborts the transaction.
	ProceedWithRollBack
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case ProceedWithCommit:
		return "proceed-with-commit"
	case WaitForUserInput:
		return "wait-for-user-input"
	case ProceedWithRollBack:
		return "proceed-with-rollback"
	default:
		return "unknown"
	}
}
