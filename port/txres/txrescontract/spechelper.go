package txrescontract

import (
	"testing"

	"go.llib.dev/frameless/pkg/zerokit"
	"go.llib.dev/frameless/port/option"

	"go.llib.dev/txchain/port/txres"
)

type Option interface {
	option.Option[Config]
}

type Config struct {
	// Mutate changes the state of the resource within the transaction in progress.
	// The returned probe reports whether the change is visible,
	// through the transaction in progress if there is one, or in the persisted state otherwise.
	//
	// When Mutate is not supplied, the data related cases are skipped.
	Mutate func(tb testing.TB, r txres.Resource) (probe func() bool)
}

func (c *Config) Init() {}

func (c Config) Configure(oth *Config) {
	oth.Mutate = zerokit.Coalesce(oth.Mutate, c.Mutate)
}

func (c Config) mutate(t testing.TB, r txres.Resource) func() bool {
	t.Helper()
	if c.Mutate == nil {
		t.Skip("Config.Mutate is not supplied")
	}
	return c.Mutate(t, r)
}
