package memory_test

import (
	"context"
	"testing"

	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/txchain/adapter/memory"
	"go.llib.dev/txchain/pkg/eventloop"
	"go.llib.dev/txchain/pkg/failurekit"
	"go.llib.dev/txchain/port/txres"
	"go.llib.dev/txchain/port/txres/txrescontract"
)

func TestDocument(t *testing.T) {
	testcase.RunSuite(t, txrescontract.Resource(func(tb testing.TB) txres.Resource {
		return memory.NewDocument(tb.Name())
	}, txrescontract.Config{
		Mutate: func(tb testing.TB, r txres.Resource) func() bool {
			t := tb.(*testcase.T)
			doc := r.(*memory.Document)
			key, value := t.Random.String(), t.Random.Int()
			assert.NoError(t, doc.Set(key, value))
			return func() bool {
				v, ok := doc.Get(key)
				return ok && v == value
			}
		},
	}))
}

func TestDocument_dataAccess(t *testing.T) {
	s := testcase.NewSpec(t)

	doc := testcase.Let(s, func(t *testcase.T) *memory.Document {
		return memory.NewDocument(t.Random.String())
	})
	begin := func(t *testcase.T) txres.Transaction {
		tx := doc.Get(t).NewTransaction("tx")
		_, err := tx.Start()
		assert.NoError(t, err)
		return tx
	}

	s.Test("values can't be modified outside of a transaction", func(t *testcase.T) {
		assert.ErrorIs(t, txres.ErrNotModifiable, doc.Get(t).Set("k", 1))
		assert.ErrorIs(t, txres.ErrNotModifiable, doc.Get(t).Delete("k"))
	})

	s.Test("a deleted value is gone after the commit", func(t *testcase.T) {
		tx := begin(t)
		assert.NoError(t, doc.Get(t).Set("k", 1))
		_, err := tx.Commit()
		assert.NoError(t, err)

		tx = begin(t)
		assert.NoError(t, doc.Get(t).Delete("k"))
		_, ok := doc.Get(t).Get("k")
		assert.False(t, ok)
		_, err = tx.Commit()
		assert.NoError(t, err)
		_, ok = doc.Get(t).Get("k")
		assert.False(t, ok)
	})

	s.Test("keys are listed in order, including uncommitted ones", func(t *testcase.T) {
		begin(t)
		assert.NoError(t, doc.Get(t).Set("b", 2))
		assert.NoError(t, doc.Get(t).Set("a", 1))
		assert.Equal(t, []string{"a", "b"}, doc.Get(t).Keys())
	})

	s.Test("a top-level transaction can't commit while a sub-transaction is open", func(t *testcase.T) {
		tx := begin(t)
		sub := doc.Get(t).NewSubTransaction()
		_, err := sub.Start()
		assert.NoError(t, err)
		_, err = tx.Commit()
		assert.ErrorIs(t, txres.ErrOpenSubTransaction, err)
		assert.Equal(t, txres.Started, tx.Status())
	})

	s.Test("rolling back the top-level transaction discards the open sub-transactions", func(t *testcase.T) {
		tx := begin(t)
		sub := doc.Get(t).NewSubTransaction()
		_, err := sub.Start()
		assert.NoError(t, err)
		assert.NoError(t, doc.Get(t).Set("k", 1))

		_, err = tx.RollBack()
		assert.NoError(t, err)
		_, err = sub.Commit()
		assert.ErrorIs(t, txres.ErrNoAmbientTransaction, err)
		_, ok := doc.Get(t).Get("k")
		assert.False(t, ok)
	})

	s.When("the document is closed", func(s *testcase.Spec) {
		tx := testcase.Let(s, func(t *testcase.T) txres.Transaction {
			return begin(t)
		}).EagerLoading(s)
		s.Before(func(t *testcase.T) {
			assert.NoError(t, doc.Get(t).Close())
		})

		s.Then("it is no longer valid", func(t *testcase.T) {
			assert.False(t, doc.Get(t).IsValid())
			assert.False(t, tx.Get(t).IsValid())
			assert.False(t, doc.Get(t).HasAmbientTransaction())
		})

		s.Then("the open transaction can't be committed", func(t *testcase.T) {
			_, err := tx.Get(t).Commit()
			assert.ErrorIs(t, txres.ErrInvalidResource, err)
		})

		s.Then("new transactions can't start", func(t *testcase.T) {
			_, err := doc.Get(t).NewTransaction("other").Start()
			assert.ErrorIs(t, txres.ErrInvalidResource, err)
		})
	})
}

func TestDocument_Checks(t *testing.T) {
	s := testcase.NewSpec(t)

	severity := testcase.LetValue(s, txres.SeverityError)
	resolvable := testcase.LetValue(s, false)
	keepFailures := testcase.LetValue(s, false)
	doc := testcase.Let(s, func(t *testcase.T) *memory.Document {
		doc := memory.NewDocument(t.Random.String())
		doc.Checks = []memory.Check{func(v memory.View) []txres.Failure {
			if _, ok := v.Get("invalid"); !ok {
				return nil
			}
			f := txres.Failure{Severity: severity.Get(t), Description: "invalid value"}
			if resolvable.Get(t) {
				f.Resolution = func() error { return doc.Delete("invalid") }
			}
			return []txres.Failure{f}
		}}
		return doc
	})
	handler := testcase.LetValue[txres.FailureHandler](s, nil)
	act := func(t *testcase.T) (txres.Status, error) {
		tx := doc.Get(t).NewTransaction("tx")
		tx.SetFailureHandlingOptions(txres.FailureHandlingOptions{
			FailureHandler:     handler.Get(t),
			ClearAfterRollback: !keepFailures.Get(t),
		})
		_, err := tx.Start()
		assert.NoError(t, err)
		assert.NoError(t, doc.Get(t).Set("invalid", true))
		return tx.Commit()
	}

	s.Test("an error failure rolls the transaction back", func(t *testcase.T) {
		status, err := act(t)
		assert.NoError(t, err)
		assert.Equal(t, txres.RolledBack, status)
		_, ok := doc.Get(t).Get("invalid")
		assert.False(t, ok)
		assert.Empty(t, doc.Get(t).Failures())
	})

	s.Test("when failures are kept after rollback, they remain accessible", func(t *testcase.T) {
		keepFailures.Set(t, true)
		_, err := act(t)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(doc.Get(t).Failures()))
	})

	s.Test("a warning doesn't block the commit", func(t *testcase.T) {
		severity.Set(t, txres.Warning)
		status, err := act(t)
		assert.NoError(t, err)
		assert.Equal(t, txres.Committed, status)
	})

	s.Test("a resolved error lets the transaction commit with the resolution applied", func(t *testcase.T) {
		resolvable.Set(t, true)
		handler.Set(t, failurekit.NoErrors)
		status, err := act(t)
		assert.NoError(t, err)
		assert.Equal(t, txres.Committed, status)
		_, ok := doc.Get(t).Get("invalid")
		assert.False(t, ok)
	})
}

func TestDocument_delayedWarnings(t *testing.T) {
	s := testcase.NewSpec(t)

	doc := testcase.Let(s, func(t *testcase.T) *memory.Document {
		var warned bool
		doc := memory.NewDocument(t.Random.String())
		doc.Checks = []memory.Check{func(memory.View) []txres.Failure {
			if warned {
				return nil
			}
			warned = true
			return []txres.Failure{{Severity: txres.Warning, Description: "minor issue"}}
		}}
		return doc
	})
	commit := func(t *testcase.T, delayed bool) []txres.Failure {
		var warnings []txres.Failure
		tx := doc.Get(t).NewTransaction("tx")
		tx.SetFailureHandlingOptions(txres.FailureHandlingOptions{
			DelayedMiniWarnings: delayed,
			FailureHandler: txres.FailureHandlerFunc(func(fa txres.FailuresAccessor) txres.Decision {
				warnings = fa.Failures(txres.Warning)
				return txres.Continue
			}),
		})
		_, err := tx.Start()
		assert.NoError(t, err)
		assert.NoError(t, doc.Get(t).Set(t.Random.String(), 1))
		status, err := tx.Commit()
		assert.NoError(t, err)
		assert.Equal(t, txres.Committed, status)
		return warnings
	}

	s.Test("warnings are reported with the commit by default", func(t *testcase.T) {
		assert.Equal(t, 1, len(commit(t, false)))
		assert.Empty(t, commit(t, false))
	})

	s.Test("delayed warnings are reported with the next commit that doesn't delay them", func(t *testcase.T) {
		assert.Empty(t, commit(t, true))
		assert.Empty(t, commit(t, true))
		warnings := commit(t, false)
		assert.Equal(t, 1, len(warnings))
		assert.Equal(t, "minor issue", warnings[0].Description)
		assert.Empty(t, commit(t, false))
	})
}

func TestDocument_pending(t *testing.T) {
	s := testcase.NewSpec(t)
	s.Before(func(t *testcase.T) { logger.Testing(t) })

	queue := testcase.Let(s, func(t *testcase.T) *eventloop.Queue {
		return &eventloop.Queue{}
	})
	severity := testcase.LetValue(s, txres.Warning)
	doc := testcase.Let(s, func(t *testcase.T) *memory.Document {
		doc := memory.NewDocument(t.Random.String())
		doc.Dispatcher = queue.Get(t)
		doc.Checks = []memory.Check{func(v memory.View) []txres.Failure {
			return []txres.Failure{{Severity: severity.Get(t), Description: "needs attention"}}
		}}
		return doc
	})
	forcedModal := testcase.LetValue(s, false)
	finalized := testcase.LetValue[txres.Status](s, txres.Uninitialized)
	tx := testcase.Let(s, func(t *testcase.T) txres.Transaction {
		tx := doc.Get(t).NewTransaction("tx")
		tx.SetFailureHandlingOptions(txres.FailureHandlingOptions{
			ForcedModalHandling: forcedModal.Get(t),
			FailureHandler: txres.FailureHandlerFunc(func(txres.FailuresAccessor) txres.Decision {
				return txres.WaitForUserInput
			}),
			Finalizer: txres.FinalizerFuncs{
				Committed:  func(txres.Resource, string) error { finalized.Set(t, txres.Committed); return nil },
				RolledBack: func(txres.Resource, string) error { finalized.Set(t, txres.RolledBack); return nil },
			},
		})
		_, err := tx.Start()
		assert.NoError(t, err)
		assert.NoError(t, doc.Get(t).Set("k", "v"))
		return tx
	})

	s.Test("the commit goes pending and resolves when the dispatcher runs", func(t *testcase.T) {
		status, err := tx.Get(t).Commit()
		assert.NoError(t, err)
		assert.Equal(t, txres.Pending, status)
		assert.Equal(t, txres.Uninitialized, finalized.Get(t))
		assert.True(t, doc.Get(t).HasAmbientTransaction())

		assert.Equal(t, 1, queue.Get(t).Drain(context.Background()))
		assert.Equal(t, txres.Committed, finalized.Get(t))
		assert.Equal(t, txres.Committed, tx.Get(t).Status())
		v, _ := doc.Get(t).Get("k")
		assert.Equal(t, any("v"), v)
	})

	s.Test("a pending commit with remaining errors rolls back when resolved", func(t *testcase.T) {
		severity.Set(t, txres.SeverityError)
		status, err := tx.Get(t).Commit()
		assert.NoError(t, err)
		assert.Equal(t, txres.Pending, status)
		queue.Get(t).Drain(context.Background())
		assert.Equal(t, txres.RolledBack, finalized.Get(t))
	})

	s.Test("a pending transaction can't be rolled back explicitly", func(t *testcase.T) {
		_, err := tx.Get(t).Commit()
		assert.NoError(t, err)
		_, err = tx.Get(t).RollBack()
		assert.ErrorIs(t, txres.ErrNotStarted, err)
	})

	s.When("modal handling is forced", func(s *testcase.Spec) {
		forcedModal.LetValue(s, true)

		s.Then("the failures are handled in place", func(t *testcase.T) {
			status, err := tx.Get(t).Commit()
			assert.NoError(t, err)
			assert.Equal(t, txres.Committed, status)
			assert.Equal(t, 0, queue.Get(t).Len())
		})
	})

	s.When("the dispatcher doesn't accept work", func(s *testcase.Spec) {
		s.Before(func(t *testcase.T) {
			assert.NoError(t, queue.Get(t).Close())
		})

		s.Then("the failures are handled in place", func(t *testcase.T) {
			status, err := tx.Get(t).Commit()
			assert.NoError(t, err)
			assert.Equal(t, txres.Committed, status)
			assert.Equal(t, txres.Committed, finalized.Get(t))
		})
	})
}
