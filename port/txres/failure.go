package txres

// Severity of a posted failure.
type Severity int

const (
	None Severity = iota
	Warning
	SeverityError
	DocumentCorruption
)

func (s Severity) String() string {
	switch s {
	case None:
		return "none"
	case Warning:
		return "warning"
	case SeverityError:
		return "error"
	case DocumentCorruption:
		return "document-corruption"
	default:
		return "unknown"
	}
}

// Failure is a problem detected by a resource during the failure-processing phase of a commit.
type Failure struct {
	ID          string
	Severity    Severity
	Description string
	// Resolution is the default resolution of the failure.
	// A nil Resolution means the failure can't be resolved automatically.
	Resolution func() error
}

func (f Failure) Resolvable() bool { return f.Resolution != nil }

// FailuresAccessor exposes the failures of a commit to a FailureHandler.
type FailuresAccessor interface {
	Resource() Resource
	TransactionName() string
	// IsTransactionBeingCommitted is false when failure processing happens outside a commit,
	// and in that case nothing should be committed as a reaction to it.
	IsTransactionBeingCommitted() bool
	IsFailureResolutionPermitted() bool
	// Severity is the highest severity among the current failures, or None.
	Severity() Severity
	// Failures returns the failures with exactly the given severity.
	Failures(Severity) []Failure
	DeleteAllWarnings()
	DeleteWarning(Failure)
	ResolveFailure(Failure) error
	HasAttemptedResolution(Failure) bool
}

// FailureHandler is called from within Transaction.Commit, before anything is persisted.
type FailureHandler interface {
	PreprocessFailures(FailuresAccessor) Decision
}

type FailureHandlerFunc func(FailuresAccessor) Decision

func (fn FailureHandlerFunc) PreprocessFailures(fa FailuresAccessor) Decision { return fn(fa) }

// Finalizer is notified once the commit path of a transaction is resolved.
type Finalizer interface {
	OnCommitted(r Resource, name string) error
	OnRolledBack(r Resource, name string) error
}

// FinalizerFuncs implements Finalizer, nil fields are no-ops.
type FinalizerFuncs struct {
	Committed  func(r Resource, name string) error
	RolledBack func(r Resource, name string) error
}

func (fns FinalizerFuncs) OnCommitted(r Resource, name string) error {
	if fns.Committed == nil {
		return nil
	}
	return fns.Committed(r, name)
}

func (fns FinalizerFuncs) OnRolledBack(r Resource, name string) error {
	if fns.RolledBack == nil {
		return nil
	}
	return fns.RolledBack(r, name)
}
