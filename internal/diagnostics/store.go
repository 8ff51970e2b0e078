package diagnostics

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/corvid-chess/nnuecore/nnue/accum"
)

// HeaderRecord is the validated metadata a network file's header carried,
// cached so a repeat load of the same (by hash) file can skip re-reading
// and re-validating the header block.
type HeaderRecord struct {
	Hash        uint32    `json:"hash"`
	Description string    `json:"description"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// CounterRecord is an Updater's accumulated Counters (shared across both
// perspectives it drives), persisted across process restarts.
type CounterRecord struct {
	ScratchRecomputes  uint64 `json:"scratch_recomputes"`
	IncrementalUpdates uint64 `json:"incremental_updates"`
	RefreshBarriers    uint64 `json:"refresh_barriers"`
	BrokenChainLinks   uint64 `json:"broken_chain_links"`
}

// Store wraps BadgerDB for diagnostics persistence, keyed by network
// file hash so counters from different networks never mix.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) the diagnostics database in the
// platform's standard data directory.
func Open() (*Store, error) {
	dir, err := DatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database, flushing any pending writes.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func headerKey(hash uint32) []byte {
	return []byte(fmt.Sprintf("header:%08x", hash))
}

func counterKey(hash uint32) []byte {
	return []byte(fmt.Sprintf("counters:%08x", hash))
}

// SaveHeader records that a network with this hash was loaded and
// validated successfully.
func (s *Store) SaveHeader(hash uint32, description string) error {
	rec := HeaderRecord{Hash: hash, Description: description, LoadedAt: time.Now()}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(headerKey(hash), data)
	})
}

// LoadHeader returns the cached header record for hash, and whether one
// was found.
func (s *Store) LoadHeader(hash uint32) (HeaderRecord, bool, error) {
	var rec HeaderRecord
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(headerKey(hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, found, err
}

// SaveCounters persists an Updater's counters for one network hash,
// overwriting whatever was recorded there before.
func (s *Store) SaveCounters(hash uint32, stats accum.Counters) error {
	rec := CounterRecord{
		ScratchRecomputes:  stats.ScratchRecomputes,
		IncrementalUpdates: stats.IncrementalUpdates,
		RefreshBarriers:    stats.RefreshBarriers,
		BrokenChainLinks:   stats.BrokenChainLinks,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(counterKey(hash), data)
	})
}

// LoadCounters returns the persisted counters for one network hash,
// zero-valued if none were ever saved.
func (s *Store) LoadCounters(hash uint32) (CounterRecord, error) {
	var rec CounterRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(counterKey(hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, err
}
