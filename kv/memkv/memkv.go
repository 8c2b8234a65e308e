// Package memkv implements an in-memory reference backend satisfying
// the kv.Store contract: a plain Go map from storage key to encoded
// bytes. Like the core it backs, it assumes single-threaded use;
// callers needing concurrent access wrap it in their own lock.
package memkv

import (
	"sort"
	"strings"

	"github.com/pradoz/nosquealdb/kv"
)

// Store is an in-process kv.Store backed by a Go map. It does not copy
// written data; callers must treat returned byte slices as read-only.
type Store struct {
	data map[string][]byte
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{data: map[string][]byte{}}
}

func (s *Store) Put(key string, value []byte) error {
	s.data[key] = value
	return nil
}

func (s *Store) Get(key string) ([]byte, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, kv.NewKeyNotFoundError(key)
	}
	return v, nil
}

func (s *Store) Delete(key string) error {
	delete(s.data, key)
	return nil
}

func (s *Store) Exists(key string) (bool, error) {
	_, ok := s.data[key]
	return ok, nil
}

func (s *Store) Len() int {
	return len(s.data)
}

func (s *Store) Iter() (kv.Iterator, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return &mapIterator{store: s, keys: keys}, nil
}

func (s *Store) KeysWithPrefix(prefix string) ([]string, error) {
	var out []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

type mapIterator struct {
	store *Store
	keys  []string
	pos   int
}

func (it *mapIterator) Next() (string, []byte, bool) {
	if it.pos >= len(it.keys) {
		return "", nil, false
	}
	key := it.keys[it.pos]
	it.pos++
	return key, it.store.data[key], true
}
