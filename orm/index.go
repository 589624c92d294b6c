package orm

import (
	"bytes"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
)

var indPrefix = []byte("_i.")

// Indexer calculates the secondary index key for a given object.
type Indexer func(Object) ([]byte, error)

// Index represents a secondary index on some data.
// It is indexed by an arbitrary key returned by Indexer.
// The value is one primary key (unique), or a set of primary keys
// (!unique).
type Index struct {
	name   string
	id     Indexer
	unique bool
	refKey func([]byte) []byte
}

// NewIndex constructs an index with the given name and indexer.
// Indexer calculates the index for an object.
// RefKey calculates the absolute dbkey for a ref.
func NewIndex(name string, indexer Indexer, unique bool,
	refKey func([]byte) []byte) Index {

	return Index{
		name:   name,
		id:     indexer,
		unique: unique,
		refKey: refKey,
	}
}

// IndexKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i Index) IndexKey(key []byte) []byte {
	l := len(indPrefix) + len(i.name) + 1 + len(key)
	out := make([]byte, 0, l)
	out = append(out, indPrefix...)
	out = append(out, []byte(i.name)...)
	out = append(out, ':')
	out = append(out, key...)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// prev == nil means insert
// save == nil means delete
// both == nil is error
// if both != nil and prev.Key() != save.Key() this is an error
//
// Otherwise, it will check indexer(prev) and indexer(save)
// and make sure the key is now stored in the right location.
func (i Index) Update(db streampay.KVStore, prev Object, save Object) error {
	type s struct{ a, b bool }
	sw := s{prev == nil, save == nil}
	switch sw {
	case s{true, true}:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case s{true, false}:
		key, err := i.id(save)
		if err != nil {
			return err
		}
		return i.insert(db, key, save.Key())
	case s{false, true}:
		key, err := i.id(prev)
		if err != nil {
			return err
		}
		return i.remove(db, key, prev.Key())
	case s{false, false}:
		return i.move(db, prev, save)
	}
	return errors.Wrap(errors.ErrHuman, "you have violated the rules of boolean logic")
}

// GetLike calculates the index for the given pattern, and
// returns a list of all pk that match (may be nil when empty), or an
// error.
func (i Index) GetLike(db streampay.ReadOnlyKVStore, pattern Object) ([][]byte, error) {
	index, err := i.id(pattern)
	if err != nil {
		return nil, err
	}
	return i.GetAt(db, index)
}

// GetAt returns a list of all pk at that index (may be empty), or an
// error.
func (i Index) GetAt(db streampay.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	key := i.IndexKey(index)
	val, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	var data MultiRef
	if err := data.Unmarshal(val); err != nil {
		return nil, err
	}
	return data.Refs, nil
}

func (i Index) move(db streampay.KVStore, prev Object, save Object) error {
	// if the primary key is not equal, we have a problem
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}

	oldKey, err := i.id(prev)
	if err != nil {
		return err
	}
	newKey, err := i.id(save)
	if err != nil {
		return err
	}

	// if the keys don't change, then
	if bytes.Equal(oldKey, newKey) {
		return nil
	}
	// check unset first
	if len(oldKey) != 0 {
		if err := i.remove(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	if len(newKey) != 0 {
		return i.insert(db, newKey, save.Key())
	}
	return nil
}

func (i Index) remove(db streampay.KVStore, index []byte, pk []byte) error {
	// don't deal with empty keys
	if len(index) == 0 {
		return nil
	}

	key := i.IndexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrap(errors.ErrNotFound, "cannot remove index from nothing")
	}
	if i.unique {
		// if something else was here, don't delete
		if !bytes.Equal(cur, pk) {
			return errors.Wrap(errors.ErrNotFound, "cannot remove index from invalid object")
		}
		return db.Delete(key)
	}

	// otherwise, remove one from a list....
	var data MultiRef
	if err := data.Unmarshal(cur); err != nil {
		return err
	}
	if err := data.Remove(pk); err != nil {
		return err
	}
	// nothing left, delete this key
	if len(data.Refs) == 0 {
		return db.Delete(key)
	}
	// other left, just update state
	save, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, save)
}

func (i Index) insert(db streampay.KVStore, index []byte, pk []byte) error {
	// don't deal with empty keys
	if len(index) == 0 {
		return nil
	}

	key := i.IndexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}

	// otherwise, add one to a list....
	var data MultiRef
	if cur != nil {
		if err := data.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := data.Add(pk); err != nil {
		return err
	}

	save, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, save)
}
