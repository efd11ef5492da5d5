// Package statements persists named, pre-built Cypher statements.
//
// A Store maps statement names to the query text and parameter table a
// build produced, so callers can generate once and reuse the result across
// processes. Records are stored in BadgerDB and encoded with MessagePack;
// each record carries a content hash of its query text for cheap
// change detection.
package statements

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/xxh3"

	"github.com/orneryd/cypherbuild/pkg/cypher"
)

// Storage errors.
var (
	// ErrNotFound is returned when a named statement does not exist.
	ErrNotFound = errors.New("statement not found")
)

// Key layout: a single-byte prefix keeps statement records separate from
// any future record kinds sharing the database.
const prefixStatement = byte(0x01)

// Record is one saved statement.
type Record struct {
	// Name is the lookup key, unique within a store.
	Name string `msgpack:"name"`
	// Query is the rendered statement text.
	Query string `msgpack:"query"`
	// Params is the parameter table bound during the build.
	Params map[string]any `msgpack:"params"`
	// Hash is the xxh3 digest of Query, for change detection.
	Hash uint64 `msgpack:"hash"`
	// SavedAt is when the record was last written, unix nanoseconds.
	SavedAt int64 `msgpack:"savedAt"`
}

// Store is a persistent collection of named statements.
//
// Example:
//
//	store, err := statements.Open("./data/statements")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	result, _ := cypher.Build(root, "")
//	store.Save("movies-by-actor", result)
//
// Thread Safety:
//
//	Safe for concurrent use from multiple goroutines.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a statement store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil).
		WithMemTableSize(8 << 20).
		WithValueLogFileSize(32 << 20).
		WithNumMemtables(2)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement store: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a store that is not persisted. Useful for tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database. The store is unusable afterwards.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes a build result under name, overwriting any existing record.
func (s *Store) Save(name string, result *cypher.Result) error {
	return s.Put(&Record{
		Name:   name,
		Query:  result.Query,
		Params: result.Params,
	})
}

// Put writes a record, overwriting any existing record with the same name.
// Hash and SavedAt are set by the store.
func (s *Store) Put(rec *Record) error {
	if rec.Name == "" {
		return fmt.Errorf("statement name is empty")
	}
	rec.Hash = Hash(rec.Query)
	rec.SavedAt = time.Now().UnixNano()

	data, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode statement %q: %w", rec.Name, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(statementKey(rec.Name), data)
	})
}

// Get returns the record saved under name, or ErrNotFound.
func (s *Store) Get(name string) (*Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(statementKey(name))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns the names of all saved statements in key order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte{prefixStatement}
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, string(it.Item().Key()[1:]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Delete removes the record saved under name, or returns ErrNotFound.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := statementKey(name)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// Hash returns the content digest used for change detection.
func Hash(query string) uint64 {
	return xxh3.HashString(query)
}

func statementKey(name string) []byte {
	return append([]byte{prefixStatement}, []byte(name)...)
}
