package store

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"github.com/iov-one/ledger/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// commitInfoKey holds the last committed version and hash. It is outside of
// the key space used by any extension.
var commitInfoKey = []byte("_meta:commit")

// LevelDBStore is a persistent CommitKVStore backed by goleveldb.
//
// Every block is processed in a cache wrap. Writing the cache wrap applies
// all operations in a single leveldb batch. Commit bumps the version and
// chains a hash of all operations written since the previous commit, which
// is used as the application hash.
type LevelDBStore struct {
	db      *leveldb.DB
	last    CommitID
	changes hash.Hash
}

var (
	_ CommitKVStore = (*LevelDBStore)(nil)
	_ KVStore       = (*LevelDBStore)(nil)
)

// NewLevelDBStore opens (or creates) a database in given directory and loads
// the latest committed version.
func NewLevelDBStore(dir string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", dir, err)
	}
	s := &LevelDBStore{
		db:      db,
		changes: sha256.New(),
	}
	if err := s.LoadLatestVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}

// Get returns nil iff key doesn't exist.
func (s *LevelDBStore) Get(key []byte) ([]byte, error) {
	val, err := s.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return val, nil
}

// Has checks if a key exists.
func (s *LevelDBStore) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Set writes directly to the database. Handlers always go through a cache
// wrap instead.
func (s *LevelDBStore) Set(key, value []byte) error {
	b := s.NewBatch()
	if err := b.Set(key, value); err != nil {
		return err
	}
	return b.Write()
}

// Delete removes directly from the database.
func (s *LevelDBStore) Delete(key []byte) error {
	b := s.NewBatch()
	if err := b.Delete(key); err != nil {
		return err
	}
	return b.Write()
}

// Iterator returns all values within [start, end) in ascending order.
func (s *LevelDBStore) Iterator(start, end []byte) (Iterator, error) {
	models, err := s.collect(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(models), nil
}

// ReverseIterator returns all values within [start, end) in descending order.
func (s *LevelDBStore) ReverseIterator(start, end []byte) (Iterator, error) {
	models, err := s.collect(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return NewSliceIterator(models), nil
}

func (s *LevelDBStore) collect(start, end []byte) ([]Model, error) {
	it := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	defer it.Release()

	var models []Model
	for it.Next() {
		// leveldb reuses the buffers between iterations.
		key := append([]byte(nil), it.Key()...)
		if string(key) == string(commitInfoKey) {
			continue
		}
		models = append(models, Pair(key, append([]byte(nil), it.Value()...)))
	}
	if err := it.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return models, nil
}

// NewBatch returns an atomic batch.
func (s *LevelDBStore) NewBatch() Batch {
	return &levelBatch{
		store: s,
		batch: new(leveldb.Batch),
	}
}

// CacheWrap returns a cache that writes to the database in a single atomic
// batch.
func (s *LevelDBStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Commit persists the next version.
func (s *LevelDBStore) Commit() (CommitID, error) {
	h := sha256.New()
	h.Write(s.last.Hash)
	h.Write(s.changes.Sum(nil))

	next := CommitID{
		Version: s.last.Version + 1,
		Hash:    h.Sum(nil),
	}
	raw := make([]byte, 8, 8+len(next.Hash))
	binary.BigEndian.PutUint64(raw, uint64(next.Version))
	raw = append(raw, next.Hash...)
	if err := s.db.Put(commitInfoKey, raw, nil); err != nil {
		return CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	s.last = next
	s.changes.Reset()
	return next, nil
}

// LoadLatestVersion reads the last commit information.
func (s *LevelDBStore) LoadLatestVersion() error {
	raw, err := s.Get(commitInfoKey)
	if err != nil {
		return err
	}
	if raw == nil {
		s.last = CommitID{}
		return nil
	}
	if len(raw) < 8 {
		return errors.Wrap(errors.ErrDatabase, "corrupted commit information")
	}
	s.last = CommitID{
		Version: int64(binary.BigEndian.Uint64(raw[:8])),
		Hash:    append([]byte(nil), raw[8:]...),
	}
	return nil
}

// LatestVersion returns the last commit information.
func (s *LevelDBStore) LatestVersion() (CommitID, error) {
	return s.last, nil
}

type levelBatch struct {
	store *LevelDBStore
	batch *leveldb.Batch
	ops   []Op
}

func (b *levelBatch) Set(key, value []byte) error {
	b.batch.Put(key, value)
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	b.ops = append(b.ops, DelOp(key))
	return nil
}

func (b *levelBatch) Write() error {
	if err := b.store.db.Write(b.batch, nil); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	for _, op := range b.ops {
		b.store.changes.Write([]byte(op.String()))
	}
	b.batch.Reset()
	b.ops = nil
	return nil
}
