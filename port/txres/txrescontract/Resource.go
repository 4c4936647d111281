// Package txrescontract holds the behaviour every txres.Resource implementation must supply.
package txrescontract

import (
	"go.llib.dev/frameless/port/contract"
	"go.llib.dev/frameless/port/option"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/txchain/port/txres"
)

func Resource(mk contract.Make[txres.Resource], opts ...Option) contract.Contract {
	c := option.ToConfig[Config](opts)
	s := testcase.NewSpec(nil)

	resource := testcase.Let(s, func(t *testcase.T) txres.Resource {
		return mk(t)
	})
	transaction := testcase.Let(s, func(t *testcase.T) txres.Transaction {
		return resource.Get(t).NewTransaction(t.Random.StringNWithCharset(8, "abcdefghijklmnopqrstuvwxyz"))
	})
	start := func(t *testcase.T) {
		status, err := transaction.Get(t).Start()
		assert.NoError(t, err)
		assert.Equal(t, txres.Started, status)
	}

	s.Test("a new transaction is Uninitialized and the resource has no ambient transaction", func(t *testcase.T) {
		assert.True(t, resource.Get(t).IsValid())
		assert.False(t, resource.Get(t).HasAmbientTransaction())
		assert.Equal(t, txres.Uninitialized, transaction.Get(t).Status())
		assert.False(t, transaction.Get(t).HasStarted())
		assert.Equal(t, resource.Get(t), transaction.Get(t).Resource())
	})

	s.Test("Start makes the transaction ambient on the resource", func(t *testcase.T) {
		start(t)
		assert.True(t, transaction.Get(t).HasStarted())
		assert.False(t, transaction.Get(t).HasEnded())
		assert.True(t, resource.Get(t).HasAmbientTransaction())
	})

	s.Test("a second top-level transaction can't start while one is in progress", func(t *testcase.T) {
		start(t)
		_, err := resource.Get(t).NewTransaction("other").Start()
		assert.Error(t, err)
	})

	s.Test("Commit and RollBack of a not started transaction yield ErrNotStarted", func(t *testcase.T) {
		_, err := transaction.Get(t).Commit()
		assert.ErrorIs(t, txres.ErrNotStarted, err)
		_, err = transaction.Get(t).RollBack()
		assert.ErrorIs(t, txres.ErrNotStarted, err)
	})

	s.Describe("Commit", func(s *testcase.Spec) {
		var (
			handlerCalls   = testcase.LetValue[int](s, 0)
			committing     = testcase.LetValue[bool](s, false)
			decision       = testcase.LetValue[txres.Decision](s, txres.Continue)
			committedCalls = testcase.LetValue[int](s, 0)
			rolledBackCall = testcase.LetValue[int](s, 0)
		)
		s.Before(func(t *testcase.T) {
			tx := transaction.Get(t)
			opts := tx.FailureHandlingOptions()
			opts.FailureHandler = txres.FailureHandlerFunc(func(fa txres.FailuresAccessor) txres.Decision {
				handlerCalls.Set(t, handlerCalls.Get(t)+1)
				committing.Set(t, fa.IsTransactionBeingCommitted())
				assert.Equal(t, resource.Get(t), fa.Resource())
				assert.Equal(t, tx.Name(), fa.TransactionName())
				return decision.Get(t)
			})
			opts.Finalizer = txres.FinalizerFuncs{
				Committed: func(r txres.Resource, name string) error {
					committedCalls.Set(t, committedCalls.Get(t)+1)
					return nil
				},
				RolledBack: func(r txres.Resource, name string) error {
					rolledBackCall.Set(t, rolledBackCall.Get(t)+1)
					return nil
				},
			}
			tx.SetFailureHandlingOptions(opts)
			start(t)
		})

		s.Test("the failure handler is invoked even when there are no failures", func(t *testcase.T) {
			status, err := transaction.Get(t).Commit()
			assert.NoError(t, err)
			assert.Equal(t, txres.Committed, status)
			assert.Equal(t, 1, handlerCalls.Get(t))
			assert.True(t, committing.Get(t))
		})

		s.Test("the finalizer is notified about the commit", func(t *testcase.T) {
			_, err := transaction.Get(t).Commit()
			assert.NoError(t, err)
			assert.Equal(t, 1, committedCalls.Get(t))
			assert.Equal(t, 0, rolledBackCall.Get(t))
			assert.True(t, transaction.Get(t).HasEnded())
			assert.False(t, resource.Get(t).HasAmbientTransaction())
		})

		s.Test("the changes are persisted", func(t *testcase.T) {
			probe := c.mutate(t, resource.Get(t))
			assert.True(t, probe())
			_, err := transaction.Get(t).Commit()
			assert.NoError(t, err)
			assert.True(t, probe())
		})

		s.Test("a second Commit yields ErrNotStarted", func(t *testcase.T) {
			_, err := transaction.Get(t).Commit()
			assert.NoError(t, err)
			_, err = transaction.Get(t).Commit()
			assert.ErrorIs(t, txres.ErrNotStarted, err)
		})

		s.When("the failure handler decides to roll back", func(s *testcase.Spec) {
			decision.LetValue(s, txres.ProceedWithRollBack)

			s.Then("the transaction is rolled back and the finalizer is notified", func(t *testcase.T) {
				status, err := transaction.Get(t).Commit()
				assert.NoError(t, err)
				assert.Equal(t, txres.RolledBack, status)
				assert.Equal(t, 0, committedCalls.Get(t))
				assert.Equal(t, 1, rolledBackCall.Get(t))
				assert.False(t, resource.Get(t).HasAmbientTransaction())
			})

			s.Then("the changes are discarded", func(t *testcase.T) {
				probe := c.mutate(t, resource.Get(t))
				_, err := transaction.Get(t).Commit()
				assert.NoError(t, err)
				assert.False(t, probe())
			})
		})

		s.Test("the failure handler may commit a transaction of another resource", func(t *testcase.T) {
			other := mk(t)
			decision.Set(t, txres.Continue)
			tx := transaction.Get(t)
			opts := tx.FailureHandlingOptions()
			var otherStatus txres.Status
			opts.FailureHandler = txres.FailureHandlerFunc(func(fa txres.FailuresAccessor) txres.Decision {
				otx := other.NewTransaction("other")
				_, err := otx.Start()
				assert.NoError(t, err)
				otherStatus, err = otx.Commit()
				assert.NoError(t, err)
				return txres.Continue
			})
			tx.SetFailureHandlingOptions(opts)

			status, err := tx.Commit()
			assert.NoError(t, err)
			assert.Equal(t, txres.Committed, status)
			assert.Equal(t, txres.Committed, otherStatus)
		})
	})

	s.Describe("RollBack", func(s *testcase.Spec) {
		finalized := testcase.LetValue[bool](s, false)
		s.Before(func(t *testcase.T) {
			txres.SetFinalizer(transaction.Get(t), txres.FinalizerFuncs{
				Committed:  func(txres.Resource, string) error { finalized.Set(t, true); return nil },
				RolledBack: func(txres.Resource, string) error { finalized.Set(t, true); return nil },
			})
			start(t)
		})

		s.Test("the transaction ends without notifying the finalizer", func(t *testcase.T) {
			status, err := transaction.Get(t).RollBack()
			assert.NoError(t, err)
			assert.Equal(t, txres.RolledBack, status)
			assert.True(t, transaction.Get(t).HasEnded())
			assert.False(t, finalized.Get(t))
			assert.False(t, resource.Get(t).HasAmbientTransaction())
		})

		s.Test("the changes are discarded", func(t *testcase.T) {
			probe := c.mutate(t, resource.Get(t))
			_, err := transaction.Get(t).RollBack()
			assert.NoError(t, err)
			assert.False(t, probe())
		})
	})

	s.Describe("SubTransaction", func(s *testcase.Spec) {
		sub := testcase.Let(s, func(t *testcase.T) txres.SubTransaction {
			return resource.Get(t).NewSubTransaction()
		})

		s.Test("it can't start without an ambient transaction", func(t *testcase.T) {
			_, err := sub.Get(t).Start()
			assert.ErrorIs(t, txres.ErrNoAmbientTransaction, err)
			assert.Equal(t, txres.Uninitialized, sub.Get(t).Status())
		})

		s.When("a transaction is in progress", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				start(t)
				status, err := sub.Get(t).Start()
				assert.NoError(t, err)
				assert.Equal(t, txres.Started, status)
			})

			s.Then("commit folds the changes into the enclosing transaction", func(t *testcase.T) {
				probe := c.mutate(t, resource.Get(t))
				status, err := sub.Get(t).Commit()
				assert.NoError(t, err)
				assert.Equal(t, txres.Committed, status)
				assert.True(t, probe())
				assert.True(t, resource.Get(t).HasAmbientTransaction())

				_, err = transaction.Get(t).Commit()
				assert.NoError(t, err)
				assert.True(t, probe())
			})

			s.Then("rollback discards only the changes made within it", func(t *testcase.T) {
				probe := c.mutate(t, resource.Get(t))
				status, err := sub.Get(t).RollBack()
				assert.NoError(t, err)
				assert.Equal(t, txres.RolledBack, status)
				assert.False(t, probe())
				assert.True(t, resource.Get(t).HasAmbientTransaction())
				assert.Equal(t, txres.Started, transaction.Get(t).Status())
			})
		})
	})

	return s.AsSuite("Resource")
}
