package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/store"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) ledger.CommitKVStore {
	t.Helper()

	dbpath, err := ioutil.TempDir("", "weavetest")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	db, err := store.NewLevelDBStore(dbpath)
	if err != nil {
		t.Fatalf("cannot open database: %s", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(dbpath)
	})
	return db
}
