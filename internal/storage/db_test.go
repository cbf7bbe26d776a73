package storage

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// testDB runs the shared test suite against a DB implementation.
func testDB(t *testing.T, db DB) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		if err := db.Put([]byte("key1"), []byte("value1")); err != nil {
			t.Fatalf("Put() error: %v", err)
		}
		val, err := db.Get([]byte("key1"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("value1")) {
			t.Errorf("Get() = %q, want %q", val, "value1")
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		if _, err := db.Get([]byte("nonexistent")); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() missing key err = %v, want ErrNotFound", err)
		}
		ok, err := db.Has([]byte("nonexistent"))
		if err != nil || ok {
			t.Errorf("Has() missing key = %v, %v", ok, err)
		}
	})

	t.Run("ValueIsCopied", func(t *testing.T) {
		v := []byte("original")
		db.Put([]byte("copy"), v)
		v[0] = 'X'
		got, _ := db.Get([]byte("copy"))
		if string(got) != "original" {
			t.Errorf("stored value changed with caller's slice: %q", got)
		}
	})

	t.Run("OverwriteAndDelete", func(t *testing.T) {
		db.Put([]byte("ow"), []byte("first"))
		db.Put([]byte("ow"), []byte("second"))
		val, _ := db.Get([]byte("ow"))
		if string(val) != "second" {
			t.Errorf("Get() after overwrite = %q", val)
		}

		if err := db.Delete([]byte("ow")); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if ok, _ := db.Has([]byte("ow")); ok {
			t.Error("key should be gone after Delete()")
		}
		if err := db.Delete([]byte("never-existed")); err != nil {
			t.Errorf("Delete() nonexistent key error: %v", err)
		}
	})

	t.Run("EmptyValue", func(t *testing.T) {
		if err := db.Put([]byte("empty"), []byte{}); err != nil {
			t.Fatalf("Put() empty value error: %v", err)
		}
		val, err := db.Get([]byte("empty"))
		if err != nil {
			t.Fatalf("Get() empty value error: %v", err)
		}
		if len(val) != 0 {
			t.Errorf("expected empty value, got %d bytes", len(val))
		}
	})

	t.Run("ForEachOrdered", func(t *testing.T) {
		for _, k := range []string{"run/c", "run/a", "run/b", "other/x"} {
			db.Put([]byte(k), []byte(k))
		}
		var keys []string
		err := db.ForEach([]byte("run/"), func(key, value []byte) error {
			if !bytes.Equal(key, value) {
				t.Errorf("value for %q = %q", key, value)
			}
			keys = append(keys, string(key))
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error: %v", err)
		}
		if fmt.Sprint(keys) != "[run/a run/b run/c]" {
			t.Errorf("ForEach keys = %v", keys)
		}

		count := 0
		db.ForEach([]byte("nothing/"), func(key, value []byte) error {
			count++
			return nil
		})
		if count != 0 {
			t.Errorf("ForEach(nothing/) count = %d, want 0", count)
		}
	})

	t.Run("ForEachStopsOnError", func(t *testing.T) {
		stop := errors.New("stop")
		count := 0
		err := db.ForEach([]byte("run/"), func(key, value []byte) error {
			count++
			return stop
		})
		if !errors.Is(err, stop) || count != 1 {
			t.Errorf("ForEach err = %v after %d calls", err, count)
		}
	})

	t.Run("Batch", func(t *testing.T) {
		db.Put([]byte("batch/old"), []byte("x"))

		b := NewBatch(db)
		b.Put([]byte("batch/1"), []byte("one"))
		b.Put([]byte("batch/2"), []byte("two"))
		b.Delete([]byte("batch/old"))
		if ok, _ := db.Has([]byte("batch/1")); ok {
			t.Fatal("batch writes visible before Commit()")
		}
		if err := b.Commit(); err != nil {
			t.Fatalf("Commit() error: %v", err)
		}

		if v, _ := db.Get([]byte("batch/2")); string(v) != "two" {
			t.Errorf("batch/2 = %q", v)
		}
		if ok, _ := db.Has([]byte("batch/old")); ok {
			t.Error("batch delete not applied")
		}
	})
}

func TestMemoryDB(t *testing.T) {
	db := NewMemory()
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB_Persistence(t *testing.T) {
	dir := t.TempDir()

	db1, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	db1.Put([]byte("persist"), []byte("data"))
	db1.Close()

	db2, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() reopen error: %v", err)
	}
	defer db2.Close()

	val, err := db2.Get([]byte("persist"))
	if err != nil {
		t.Fatalf("Get() after reopen error: %v", err)
	}
	if string(val) != "data" {
		t.Errorf("persisted value = %q, want %q", val, "data")
	}
}

func TestBadgerDB_Locked(t *testing.T) {
	dir := t.TempDir()
	db, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer db.Close()

	if _, err := NewBadger(dir); err == nil {
		t.Error("second open of the same directory should fail")
	}
}
