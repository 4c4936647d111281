package txres

import "go.llib.dev/frameless/pkg/errorkit"

const (
	ErrNotStarted           errorkit.Error = "transaction is not started"
	ErrAlreadyStarted       errorkit.Error = "transaction is already started"
	ErrAmbientTransaction   errorkit.Error = "a transaction is already in progress on the resource"
	ErrNoAmbientTransaction errorkit.Error = "no transaction is in progress on the resource"
	ErrNotModifiable        errorkit.Error = "resource is not modifiable outside of a transaction"
	ErrInvalidResource      errorkit.Error = "resource is no longer valid"
	ErrOpenSubTransaction   errorkit.Error = "transaction has an open sub-transaction"
)
