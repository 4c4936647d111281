// Package boltdb implements a transactional resource on top of a bolt database.
//
// The top-level transaction of a Store is a writable bolt transaction.
// Bolt has no nested transactions, so sub-transactions keep an undo log instead,
// and a rollback replays it backwards.
package boltdb

import (
	"sync"

	"github.com/boltdb/bolt"

	"go.llib.dev/txchain/port/txres"
)

const DefaultBucket = "txchain"

// Open opens the bolt database at path, and makes a Store out of it.
func Open(path string, title string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db, Title: title}, nil
}

// Store is a bolt based implementation of txres.Resource.
// Its values live in a single bucket.
type Store struct {
	DB    *bolt.DB
	Title string
	// Bucket [optional] is the name of the bucket that holds the values.
	//
	// default: DefaultBucket
	Bucket string
	// Checks [optional] are evaluated during the failure-processing phase of every commit.
	Checks []Check

	mutex    sync.Mutex
	closed   bool
	current  *Transaction
	subs     []*SubTransaction
	failures []txres.Failure
}

// Check inspects the bucket of a transaction that is being committed.
type Check func(b *bolt.Bucket) []txres.Failure

var _ txres.Resource = (*Store)(nil)

func (s *Store) Name() string { return s.Title }

func (s *Store) IsValid() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return !s.closed
}

func (s *Store) HasAmbientTransaction() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.current != nil
}

func (s *Store) NewTransaction(name string) txres.Transaction {
	return &Transaction{store: s, name: name}
}

func (s *Store) NewSubTransaction() txres.SubTransaction {
	return &SubTransaction{store: s}
}

// Close rolls back the transaction in progress, and releases the database file lock.
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.current != nil {
		_ = s.current.btx.Rollback()
		s.current.status = txres.RolledBack
		s.current = nil
		s.subs = nil
	}
	return s.DB.Close()
}

// Put sets a value within the transaction in progress.
func (s *Store) Put(key, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	b, err := s.bucket()
	if err != nil {
		return err
	}
	s.remember(b, key)
	return b.Put(key, value)
}

func (s *Store) Delete(key []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	b, err := s.bucket()
	if err != nil {
		return err
	}
	s.remember(b, key)
	return b.Delete(key)
}

// Get reads a value.
// When a transaction is in progress, its uncommitted changes are visible.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil, false, txres.ErrInvalidResource.F("%s", s.Title)
	}
	if s.current != nil {
		v, ok := get(s.current.btx.Bucket(s.bucketName()), key)
		return v, ok, nil
	}
	var (
		value []byte
		found bool
	)
	err := s.DB.View(func(btx *bolt.Tx) error {
		value, found = get(btx.Bucket(s.bucketName()), key)
		return nil
	})
	return value, found, err
}

func get(b *bolt.Bucket, key []byte) ([]byte, bool) {
	if b == nil {
		return nil, false
	}
	v := b.Get(key)
	if v == nil {
		return nil, false
	}
	// the value is only valid during the bolt transaction
	return append([]byte(nil), v...), true
}

// Failures returns the failures kept from the last rolled back commit.
func (s *Store) Failures() []txres.Failure {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]txres.Failure(nil), s.failures...)
}

func (s *Store) bucketName() []byte {
	if s.Bucket == "" {
		return []byte(DefaultBucket)
	}
	return []byte(s.Bucket)
}

func (s *Store) bucket() (*bolt.Bucket, error) {
	if s.closed {
		return nil, txres.ErrInvalidResource.F("%s", s.Title)
	}
	if s.current == nil {
		return nil, txres.ErrNotModifiable.F("%s", s.Title)
	}
	return s.current.btx.Bucket(s.bucketName()), nil
}

// remember records the current value of the key in the undo log of the innermost sub-transaction.
func (s *Store) remember(b *bolt.Bucket, key []byte) {
	n := len(s.subs)
	if n == 0 {
		return
	}
	prev, existed := get(b, key)
	sub := s.subs[n-1]
	sub.undo = append(sub.undo, undo{key: append([]byte(nil), key...), value: prev, existed: existed})
}

func (s *Store) check(b *bolt.Bucket) []txres.Failure {
	var failures []txres.Failure
	for _, c := range s.Checks {
		failures = append(failures, c(b)...)
	}
	return failures
}
