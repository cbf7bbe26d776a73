package storage

import (
	"errors"
	"fmt"
	"testing"
)

func TestPrefixDB_Isolation(t *testing.T) {
	inner := NewMemory()
	runs := NewPrefixDB(inner, []byte("r/"))
	transfers := NewPrefixDB(inner, []byte("t/"))

	runs.Put([]byte("key"), []byte("run"))
	transfers.Put([]byte("key"), []byte("transfer"))

	if got, _ := runs.Get([]byte("key")); string(got) != "run" {
		t.Errorf("runs.Get = %q", got)
	}
	if got, _ := transfers.Get([]byte("key")); string(got) != "transfer" {
		t.Errorf("transfers.Get = %q", got)
	}
	if got, _ := inner.Get([]byte("r/key")); string(got) != "run" {
		t.Errorf("inner r/key = %q", got)
	}
	if ok, _ := runs.Has([]byte("t/key")); ok {
		t.Error("namespace should not see sibling keys")
	}

	if err := runs.Delete([]byte("key")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := runs.Get([]byte("key")); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
	if ok, _ := transfers.Has([]byte("key")); !ok {
		t.Error("delete leaked into sibling namespace")
	}
}

func TestPrefixDB_ForEachStripsPrefix(t *testing.T) {
	db := NewPrefixDB(NewMemory(), []byte("j/"))
	for i := 0; i < 5; i++ {
		db.Put([]byte(fmt.Sprintf("run/%d", i)), []byte("v"))
	}
	db.Put([]byte("meta"), []byte("v"))

	var keys []string
	err := db.ForEach([]byte("run/"), func(key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if fmt.Sprint(keys) != "[run/0 run/1 run/2 run/3 run/4]" {
		t.Errorf("keys = %v", keys)
	}
}

func TestPrefixDB_Batch(t *testing.T) {
	inner := NewMemory()
	db := NewPrefixDB(inner, []byte("ns/"))

	b := db.NewBatch()
	b.Put([]byte("a"), []byte("1"))
	b.Put([]byte("b"), []byte("2"))
	if err := b.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got, _ := inner.Get([]byte("ns/b")); string(got) != "2" {
		t.Errorf("inner ns/b = %q", got)
	}
}

func TestPrefixDB_DeleteAll(t *testing.T) {
	inner := NewMemory()
	a := NewPrefixDB(inner, []byte("a/"))
	b := NewPrefixDB(inner, []byte("b/"))

	for _, k := range []string{"k1", "k2", "k3"} {
		a.Put([]byte(k), []byte("v"))
	}
	b.Put([]byte("k1"), []byte("other"))

	if err := a.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	for _, k := range []string{"k1", "k2", "k3"} {
		if ok, _ := a.Has([]byte(k)); ok {
			t.Errorf("a still has %q", k)
		}
	}
	if got, _ := b.Get([]byte("k1")); string(got) != "other" {
		t.Errorf("b.Get = %q", got)
	}

	if err := NewPrefixDB(inner, []byte("empty/")).DeleteAll(); err != nil {
		t.Errorf("DeleteAll on empty namespace: %v", err)
	}
}

func TestPrefixDB_CloseIsNoop(t *testing.T) {
	inner := NewMemory()
	db := NewPrefixDB(inner, []byte("x/"))
	db.Put([]byte("key"), []byte("val"))

	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got, err := inner.Get([]byte("x/key")); err != nil || string(got) != "val" {
		t.Errorf("inner.Get after Close = %q, %v", got, err)
	}
}
