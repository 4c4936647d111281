package txres

// FailureHandlingOptions configure the failure-processing phase of a single transaction.
type FailureHandlingOptions struct {
	// ClearAfterRollback drops the posted failures once the transaction is rolled back.
	ClearAfterRollback bool
	// DelayedMiniWarnings keeps warnings around for a later, non-delayed commit
	// instead of reporting them with this one.
	// Adapters without a place to keep them report them right away.
	DelayedMiniWarnings bool
	// ForcedModalHandling forbids the transaction from going Pending.
	ForcedModalHandling bool
	FailureHandler      FailureHandler
	Finalizer           Finalizer
}

// Notification receives the lifecycle events of a multi-resource transaction.
type Notification interface {
	// OnStart is called before a transaction is started on a resource.
	// Returning false prevents the start.
	OnStart(r Resource) bool
	OnStarted(r Resource)
	// OnPrepare is called before the commit of the transactions begins.
	OnPrepare(rs []Resource)
	// OnDone is called with the status of the whole round,
	// unless the round is Pending or nothing was started.
	OnDone(status Status)
}

// NotificationFuncs implements Notification, nil fields are no-ops.
type NotificationFuncs struct {
	Start   func(r Resource) bool
	Started func(r Resource)
	Prepare func(rs []Resource)
	Done    func(status Status)
}

func (fns NotificationFuncs) OnStart(r Resource) bool {
	if fns.Start == nil {
		return true
	}
	return fns.Start(r)
}

func (fns NotificationFuncs) OnStarted(r Resource) {
	if fns.Started != nil {
		fns.Started(r)
	}
}

func (fns NotificationFuncs) OnPrepare(rs []Resource) {
	if fns.Prepare != nil {
		fns.Prepare(rs)
	}
}

func (fns NotificationFuncs) OnDone(status Status) {
	if fns.Done != nil {
		fns.Done(status)
	}
}

// HandlingOptions are applied identically to every transaction a coordinator starts.
type HandlingOptions struct {
	KeepFailuresAfterRollback bool
	DelayedMiniWarnings       bool
	AllowModelessHandling     bool
	// FailuresPreprocessor gives the baseline decision for every failure-processing phase.
	FailuresPreprocessor FailureHandler
	// Finalizer receives the finalizer notifications of every transaction.
	Finalizer    Finalizer
	Notification Notification
}

// FailureHandlingOptions maps the options onto a single transaction.
// The handler and finalizer are left for the caller to set.
func (o HandlingOptions) FailureHandlingOptions(base FailureHandlingOptions) FailureHandlingOptions {
	base.ClearAfterRollback = !o.KeepFailuresAfterRollback
	base.DelayedMiniWarnings = o.DelayedMiniWarnings
	base.ForcedModalHandling = !o.AllowModelessHandling
	return base
}
