package txchain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Pallinder/go-randomdata"
	"go.llib.dev/frameless/pkg/logger"
	"go.llib.dev/testcase"
	"go.llib.dev/testcase/assert"

	"go.llib.dev/txchain/adapter/memory"
	"go.llib.dev/txchain/internal/doubles"
	"go.llib.dev/txchain/pkg/txchain"
	"go.llib.dev/txchain/pkg/txkit"
	"go.llib.dev/txchain/port/txres"
)

// failing makes every commit of the document report an unresolvable error.
func failing(doc *memory.Document) {
	doc.Checks = append(doc.Checks, func(memory.View) []txres.Failure {
		return []txres.Failure{{Severity: txres.SeverityError, Description: "the document is broken"}}
	})
}

func TestChain(t *testing.T) {
	s := testcase.NewSpec(t)
	s.Before(func(t *testcase.T) { logger.Testing(t) })

	journal := testcase.Let(s, func(t *testcase.T) *doubles.Journal {
		return &doubles.Journal{}
	})
	newResource := func(t *testcase.T, name string) *doubles.SpyResource {
		return &doubles.SpyResource{Resource: memory.NewDocument(name), Journal: journal.Get(t)}
	}
	a := testcase.Let(s, func(t *testcase.T) *doubles.SpyResource { return newResource(t, "A") })
	b := testcase.Let(s, func(t *testcase.T) *doubles.SpyResource { return newResource(t, "B") })
	c := testcase.Let(s, func(t *testcase.T) *doubles.SpyResource { return newResource(t, "C") })
	docOf := func(r *doubles.SpyResource) *memory.Document {
		return r.Resource.(*memory.Document)
	}

	var (
		starting = testcase.LetValue[[]string](s, nil)
		started  = testcase.LetValue[[]string](s, nil)
		prepared = testcase.LetValue[[]string](s, nil)
		done     = testcase.LetValue[[]txres.Status](s, nil)
		vetoed   = testcase.LetValue(s, "")
	)
	opts := testcase.Let(s, func(t *testcase.T) txres.HandlingOptions {
		return txres.HandlingOptions{
			Notification: txres.NotificationFuncs{
				Start: func(r txres.Resource) bool {
					starting.Set(t, append(starting.Get(t), r.Name()))
					return r.Name() != vetoed.Get(t)
				},
				Started: func(r txres.Resource) {
					started.Set(t, append(started.Get(t), r.Name()))
				},
				Prepare: func(rs []txres.Resource) {
					for _, r := range rs {
						prepared.Set(t, append(prepared.Get(t), r.Name()))
					}
				},
				Done: func(status txres.Status) {
					done.Set(t, append(done.Get(t), status))
				},
			},
		}
	})
	chain := testcase.Let(s, func(t *testcase.T) *txchain.Chain {
		return txchain.New("chain", opts.Get(t))
	})
	startAll := func(t *testcase.T) {
		assert.NoError(t, chain.Get(t).StartAll(context.Background(), a.Get(t), b.Get(t), c.Get(t)))
		for _, r := range []*doubles.SpyResource{a.Get(t), b.Get(t), c.Get(t)} {
			assert.NoError(t, docOf(r).Set("key", r.Name()))
		}
	}
	persisted := func(t *testcase.T) []string {
		var names []string
		for _, r := range []*doubles.SpyResource{a.Get(t), b.Get(t), c.Get(t)} {
			if _, ok := docOf(r).Get("key"); ok {
				names = append(names, r.Name())
			}
		}
		return names
	}

	s.Test("a new chain is empty", func(t *testcase.T) {
		assert.Equal(t, "chain", chain.Get(t).Name())
		assert.Empty(t, chain.Get(t).Resources())
		assert.False(t, chain.Get(t).HasStarted())
		assert.True(t, chain.Get(t).HasEnded())
		assert.True(t, chain.Get(t).IsValid())
	})

	s.Describe("Start", func(s *testcase.Spec) {
		act := func(t *testcase.T) (txres.Status, error) {
			return chain.Get(t).Start(context.Background(), a.Get(t))
		}

		s.Then("a transaction named after the chain is started on the resource", func(t *testcase.T) {
			status, err := act(t)
			assert.NoError(t, err)
			assert.Equal(t, txres.Started, status)
			assert.True(t, a.Get(t).HasAmbientTransaction())
			assert.True(t, chain.Get(t).HasStartedOn(a.Get(t)))
			assert.False(t, chain.Get(t).HasEndedOn(a.Get(t)))
			assert.False(t, chain.Get(t).HasStartedOn(b.Get(t)))
			assert.Equal(t, []string{"A"}, starting.Get(t))
			assert.Equal(t, []string{"A"}, started.Get(t))
		})

		s.Then("starting the same resource again only yields the status", func(t *testcase.T) {
			_, err := act(t)
			assert.NoError(t, err)
			status, err := act(t)
			assert.NoError(t, err)
			assert.Equal(t, txres.Started, status)
			assert.Equal(t, 1, len(chain.Get(t).Resources()))
			assert.Equal(t, []string{"A"}, journal.Get(t).Resources(doubles.StartEvent))
		})

		s.When("the notification vetoes the start", func(s *testcase.Spec) {
			vetoed.LetValue(s, "A")

			s.Then("the resource is left alone", func(t *testcase.T) {
				_, err := act(t)
				assert.ErrorIs(t, txchain.ErrResourceStartFailed, err)
				assert.False(t, a.Get(t).HasAmbientTransaction())
				assert.Empty(t, chain.Get(t).Resources())
				assert.Empty(t, started.Get(t))
			})
		})

		s.When("the native start fails", func(s *testcase.Spec) {
			cause := errors.New("boom")
			s.Before(func(t *testcase.T) {
				a.Get(t).StartFunc = func(txres.Transaction) (txres.Status, error) {
					return txres.Uninitialized, cause
				}
			})

			s.Then("the start failure is reported and the resource is not part of the chain", func(t *testcase.T) {
				_, err := act(t)
				assert.ErrorIs(t, txchain.ErrResourceStartFailed, err)
				assert.ErrorIs(t, cause, err)
				assert.Empty(t, chain.Get(t).Resources())
			})
		})

		s.When("the native start doesn't yield Started", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				a.Get(t).StartFunc = func(txres.Transaction) (txres.Status, error) {
					return txres.Error, nil
				}
			})

			s.Then("it counts as a start failure", func(t *testcase.T) {
				_, err := act(t)
				assert.ErrorIs(t, txchain.ErrResourceStartFailed, err)
			})
		})

		s.When("the resource is invalid", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				assert.NoError(t, docOf(a.Get(t)).Close())
			})

			s.Then("it can't be started", func(t *testcase.T) {
				_, err := act(t)
				assert.ErrorIs(t, txchain.ErrResourceStartFailed, err)
				assert.ErrorIs(t, txres.ErrInvalidResource, err)
				assert.Empty(t, starting.Get(t))
			})
		})
	})

	s.Describe("Commit", func(s *testcase.Spec) {
		act := func(t *testcase.T) (txres.Status, error) {
			return chain.Get(t).Commit(context.Background())
		}

		s.Test("an empty chain is Uninitialized and notifies nobody", func(t *testcase.T) {
			status, err := act(t)
			assert.NoError(t, err)
			assert.Equal(t, txres.Uninitialized, status)
			assert.Empty(t, prepared.Get(t))
			assert.Empty(t, done.Get(t))
		})

		s.When("every resource is fine", func(s *testcase.Spec) {
			s.Before(startAll)

			s.Then("every resource is committed", func(t *testcase.T) {
				status, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, txres.Committed, status)
				assert.Equal(t, []string{"A", "B", "C"}, persisted(t))
			})

			s.Then("the commits are entered in insertion order and resolve from the innermost", func(t *testcase.T) {
				_, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, []string{"A", "B", "C"}, journal.Get(t).Resources(doubles.CommitEvent))
				assert.Equal(t, []string{"C", "B", "A"}, journal.Get(t).Resources(doubles.CommittedEvent))
			})

			s.Then("the notifications frame the round", func(t *testcase.T) {
				_, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, []string{"A", "B", "C"}, prepared.Get(t))
				assert.Equal(t, []txres.Status{txres.Committed}, done.Get(t))
			})

			s.Then("the chain is empty again after the round", func(t *testcase.T) {
				_, err := act(t)
				assert.NoError(t, err)
				assert.Empty(t, chain.Get(t).Resources())
				assert.True(t, chain.Get(t).HasEnded())
				status, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, txres.Uninitialized, status)
				assert.Equal(t, 1, len(done.Get(t)))
			})

			s.Then("the chain can be reused for a new round", func(t *testcase.T) {
				_, err := act(t)
				assert.NoError(t, err)

				status, err := chain.Get(t).Start(context.Background(), a.Get(t))
				assert.NoError(t, err)
				assert.Equal(t, txres.Started, status)
				assert.Equal(t, 1, len(chain.Get(t).Resources()))
				assert.NoError(t, docOf(a.Get(t)).Set("next", "round"))

				status, err = act(t)
				assert.NoError(t, err)
				assert.Equal(t, txres.Committed, status)
				v, ok := docOf(a.Get(t)).Get("next")
				assert.True(t, ok)
				assert.Equal(t, any("round"), v)
				assert.Equal(t, []txres.Status{txres.Committed, txres.Committed}, done.Get(t))
			})
		})

		s.When("the first resource commits without processing its failures", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				startAll(t)
				a.Get(t).CommitFunc = func(tx txres.Transaction) (txres.Status, error) {
					opts := tx.FailureHandlingOptions()
					opts.FailureHandler = nil
					tx.SetFailureHandlingOptions(opts)
					return tx.Commit()
				}
			})

			s.Then("the rest of the chain is committed after it", func(t *testcase.T) {
				status, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, txres.Committed, status)
				assert.Equal(t, []string{"A", "B", "C"}, persisted(t))
				assert.Equal(t, []txres.Status{txres.Committed}, done.Get(t))
				assert.Empty(t, chain.Get(t).Resources())
			})

			s.And("a later resource fails", func(s *testcase.Spec) {
				s.Before(func(t *testcase.T) { failing(docOf(c.Get(t))) })

				s.Then("the partial commit is reported as an error", func(t *testcase.T) {
					status, err := act(t)
					assert.ErrorIs(t, txchain.ErrPartialCommit, err)
					assert.Equal(t, txres.Error, status)
					assert.Equal(t, []string{"A"}, persisted(t))
					assert.Equal(t, []txres.Status{txres.Error}, done.Get(t))
					for _, r := range []*doubles.SpyResource{a.Get(t), b.Get(t), c.Get(t)} {
						assert.False(t, r.HasAmbientTransaction())
					}
				})
			})
		})

		s.When("the last resource fails", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				failing(docOf(c.Get(t)))
				startAll(t)
			})

			s.Then("nothing is persisted", func(t *testcase.T) {
				status, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, txres.RolledBack, status)
				assert.Empty(t, persisted(t))
				assert.Equal(t, []txres.Status{txres.RolledBack}, done.Get(t))
			})

			s.Then("the rollback unwinds in reverse order", func(t *testcase.T) {
				_, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, []string{"C", "B", "A"}, journal.Get(t).Resources(doubles.RolledBackEvent))
				assert.Empty(t, journal.Get(t).Resources(doubles.CommittedEvent))
			})
		})

		s.When("the first resource fails", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				failing(docOf(a.Get(t)))
				startAll(t)
			})

			s.Then("the rest of the chain is never committed", func(t *testcase.T) {
				status, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, txres.RolledBack, status)
				assert.Empty(t, persisted(t))
				assert.Equal(t, []string{"A"}, journal.Get(t).Resources(doubles.CommitEvent))
				assert.Equal(t, []string{"C", "B"}, journal.Get(t).Resources(doubles.RollBackEvent))
				for _, r := range []*doubles.SpyResource{a.Get(t), b.Get(t), c.Get(t)} {
					assert.False(t, r.HasAmbientTransaction())
				}
			})
		})

		s.When("the failures preprocessor rolls back", func(s *testcase.Spec) {
			opts.Let(s, func(t *testcase.T) txres.HandlingOptions {
				o := opts.Super(t)
				o.FailuresPreprocessor = txres.FailureHandlerFunc(func(fa txres.FailuresAccessor) txres.Decision {
					if fa.Resource().Name() == "B" {
						return txres.ProceedWithRollBack
					}
					return txres.Continue
				})
				return o
			})
			s.Before(startAll)

			s.Then("nothing is persisted", func(t *testcase.T) {
				status, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, txres.RolledBack, status)
				assert.Empty(t, persisted(t))
			})
		})

		s.When("a finalizer of the caller fails", func(s *testcase.Spec) {
			cause := errors.New("finalizer failed")
			opts.Let(s, func(t *testcase.T) txres.HandlingOptions {
				o := opts.Super(t)
				o.Finalizer = txres.FinalizerFuncs{Committed: func(r txres.Resource, _ string) error {
					if r.Name() == "B" {
						return cause
					}
					return nil
				}}
				return o
			})
			s.Before(startAll)

			s.Then("the chain still commits atomically and reports the error", func(t *testcase.T) {
				status, err := act(t)
				assert.ErrorIs(t, cause, err)
				assert.Equal(t, txres.Committed, status)
				assert.Equal(t, []string{"A", "B", "C"}, persisted(t))
			})
		})

		s.When("a resource panics during its commit", func(s *testcase.Spec) {
			s.Before(func(t *testcase.T) {
				startAll(t)
				b.Get(t).CommitFunc = func(txres.Transaction) (txres.Status, error) {
					panic("boom")
				}
			})

			s.Then("every transaction is still cleaned up", func(t *testcase.T) {
				assert.Panic(t, func() { _, _ = act(t) })
				assert.Empty(t, persisted(t))
				assert.Empty(t, chain.Get(t).Resources())
				for _, r := range []*doubles.SpyResource{a.Get(t), b.Get(t), c.Get(t)} {
					assert.False(t, r.HasAmbientTransaction())
				}
			})
		})

		s.When("the context is already cancelled", func(s *testcase.Spec) {
			s.Before(startAll)

			s.Then("the chain is rolled back", func(t *testcase.T) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				status, err := chain.Get(t).Commit(ctx)
				assert.ErrorIs(t, context.Canceled, err)
				assert.Equal(t, txres.RolledBack, status)
				assert.Empty(t, persisted(t))
				assert.Empty(t, journal.Get(t).Resources(doubles.CommitEvent))
			})
		})

		s.When("the chain is modified during the commit", func(s *testcase.Spec) {
			var (
				startErr    = testcase.LetValue[error](s, nil)
				rollBackErr = testcase.LetValue[error](s, nil)
			)
			opts.Let(s, func(t *testcase.T) txres.HandlingOptions {
				o := opts.Super(t)
				o.FailuresPreprocessor = txres.FailureHandlerFunc(func(fa txres.FailuresAccessor) txres.Decision {
					if fa.Resource().Name() == "A" {
						_, err := chain.Get(t).Start(context.Background(), memory.NewDocument("D"))
						startErr.Set(t, err)
						_, err = chain.Get(t).RollBack(context.Background())
						rollBackErr.Set(t, err)
					}
					return txres.Continue
				})
				return o
			})
			s.Before(startAll)

			s.Then("the modifications are refused and the round carries on", func(t *testcase.T) {
				status, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, txres.Committed, status)
				assert.ErrorIs(t, txkit.ErrPrecondition, startErr.Get(t))
				assert.ErrorIs(t, txkit.ErrPrecondition, rollBackErr.Get(t))
			})
		})
	})

	s.Describe("RollBack", func(s *testcase.Spec) {
		act := func(t *testcase.T) (txres.Status, error) {
			return chain.Get(t).RollBack(context.Background())
		}

		s.Test("an empty chain is Uninitialized", func(t *testcase.T) {
			status, err := act(t)
			assert.NoError(t, err)
			assert.Equal(t, txres.Uninitialized, status)
			assert.Empty(t, done.Get(t))
		})

		s.When("transactions are started", func(s *testcase.Spec) {
			s.Before(startAll)

			s.Then("they are rolled back in reverse order", func(t *testcase.T) {
				status, err := act(t)
				assert.NoError(t, err)
				assert.Equal(t, txres.RolledBack, status)
				assert.Equal(t, []string{"C", "B", "A"}, journal.Get(t).Resources(doubles.RollBackEvent))
				assert.Empty(t, persisted(t))
				assert.Empty(t, chain.Get(t).Resources())
				assert.Equal(t, []txres.Status{txres.RolledBack}, done.Get(t))
			})

			s.Then("the finalizer is not notified", func(t *testcase.T) {
				_, err := act(t)
				assert.NoError(t, err)
				assert.Empty(t, journal.Get(t).Resources(doubles.RolledBackEvent))
			})
		})
	})
}

func TestChain_atomicity(t *testing.T) {
	for n := 2; n <= 5; n++ {
		for k := 0; k < n; k++ {
			n, k := n, k
			t.Run(fmt.Sprintf("%d resources, #%d fails", n, k+1), func(t *testing.T) {
				tc := testcase.NewT(t)
				docs := make([]*memory.Document, n)
				chain := txchain.New(randomdata.SillyName(), txres.HandlingOptions{})
				for i := range docs {
					docs[i] = memory.NewDocument(fmt.Sprintf("%s-%d", randomdata.Noun(), i))
					if i == k {
						failing(docs[i])
					}
					_, err := chain.Start(context.Background(), docs[i])
					assert.NoError(tc, err)
					assert.NoError(tc, docs[i].Set("key", i))
				}

				status, err := chain.Commit(context.Background())
				assert.NoError(tc, err)
				assert.Equal(tc, txres.RolledBack, status)
				for _, doc := range docs {
					_, ok := doc.Get("key")
					assert.False(tc, ok)
					assert.False(tc, doc.HasAmbientTransaction())
				}
			})
		}
	}
}

func TestChain_deep(t *testing.T) {
	s := testcase.NewSpec(t)

	s.Test("a long chain commits all or nothing", func(t *testcase.T) {
		var (
			n       = t.Random.IntBetween(8, 32)
			broken  = t.Random.Bool()
			journal = &doubles.Journal{}
			chain   = txchain.New(randomdata.SillyName(), txres.HandlingOptions{})
			docs    []*memory.Document
		)
		for i := 0; i < n; i++ {
			doc := memory.NewDocument(fmt.Sprintf("doc-%d", i))
			docs = append(docs, doc)
			r := &doubles.SpyResource{Resource: doc, Journal: journal}
			_, err := chain.Start(context.Background(), r)
			assert.NoError(t, err)
			assert.NoError(t, doc.Set("key", i))
			// sub-transactions within the chain's transactions fold into them
			sub := doc.NewSubTransaction()
			_, err = sub.Start()
			assert.NoError(t, err)
			assert.NoError(t, doc.Set("sub", i))
			_, err = sub.Commit()
			assert.NoError(t, err)
		}
		if broken {
			failing(docs[t.Random.IntN(n)])
		}

		status, err := chain.Commit(context.Background())
		assert.NoError(t, err)
		if broken {
			assert.Equal(t, txres.RolledBack, status)
			assert.Empty(t, journal.Resources(doubles.CommittedEvent))
		} else {
			assert.Equal(t, txres.Committed, status)
			assert.Equal(t, n, len(journal.Resources(doubles.CommittedEvent)))
		}
		for _, doc := range docs {
			_, ok := doc.Get("sub")
			assert.Equal(t, !broken, ok)
		}
	})
}
