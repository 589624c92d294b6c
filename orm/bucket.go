package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
)

const (
	// SeqID is a constant to use to get a default ID sequence
	SeqID = "id"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a generic holder that stores data as well
// as references to secondary indexes and sequences.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
// Bucket is a prefixed subspace of the DB
// proto defines the default Model, all elements of this type
type Bucket struct {
	name    string
	prefix  []byte
	proto   CloneableData
	indexes []namedIndex
}

type namedIndex struct {
	name string
	Index
}

// NewBucket creates a bucket to store data
func NewBucket(name string, proto CloneableData) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element
func (b Bucket) Get(db streampay.ReadOnlyKVStore, key []byte) (Object, error) {
	dbkey := b.DBKey(key)
	bz, err := db.Get(dbkey)
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Parse takes a key and value data (weakly typed bytes)
// and will return a fully parsed object dedicated to this bucket.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Copy()
	if err := obj.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", b.name)
	}
	return NewSimpleObj(key, obj), nil
}

// Save will write the model, it must be of the same type as proto
func (b Bucket) Save(db streampay.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}

	bz, err := model.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.updateIndexes(db, model.Key(), model); err != nil {
		return err
	}

	return db.Set(b.DBKey(model.Key()), bz)
}

// Delete will remove the value at a key
func (b Bucket) Delete(db streampay.KVStore, key []byte) error {
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b Bucket) updateIndexes(db streampay.KVStore, key []byte, model Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, model); err != nil {
			return err
		}
	}
	return nil
}

// Sequence returns a Sequence by name
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex returns a copy of this bucket with given index,
// panics if it an index with that name is already registered.
//
// The index name must be unique over all buckets that are
// registered on the same query router.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	for _, idx := range b.indexes {
		if idx.name == name {
			panic(fmt.Sprintf("Index %s registered twice", name))
		}
	}
	iname := b.name + "_" + name
	add := namedIndex{
		name:  name,
		Index: NewIndex(iname, indexer, unique, b.DBKey),
	}
	indexes := append([]namedIndex{}, b.indexes...)
	b.indexes = append(indexes, add)
	return b
}

// Index returns the index with the given name, or an error
func (b Bucket) Index(name string) (Index, error) {
	for _, idx := range b.indexes {
		if idx.name == name {
			return idx.Index, nil
		}
	}
	return Index{}, errors.Wrapf(errors.ErrNotFound, "no index with name %s", name)
}

// GetIndexed queries the named index for the given key
func (b Bucket) GetIndexed(db streampay.ReadOnlyKVStore, name string, key []byte) ([]Object, error) {
	idx, err := b.Index(name)
	if err != nil {
		return nil, err
	}
	refs, err := idx.GetAt(db, key)
	if err != nil {
		return nil, err
	}
	return b.readRefs(db, refs)
}

// GetIndexedLike uses the given object to calculate the index key
// and returns all objects with the same index value.
func (b Bucket) GetIndexedLike(db streampay.ReadOnlyKVStore, name string, pattern Object) ([]Object, error) {
	idx, err := b.Index(name)
	if err != nil {
		return nil, err
	}
	refs, err := idx.GetLike(db, pattern)
	if err != nil {
		return nil, err
	}
	return b.readRefs(db, refs)
}

func (b Bucket) readRefs(db streampay.ReadOnlyKVStore, refs [][]byte) ([]Object, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	objs := make([]Object, 0, len(refs))
	for _, key := range refs {
		obj, err := b.Get(db, key)
		if err != nil {
			return nil, err
		}
		// only return those that exist
		if obj != nil {
			objs = append(objs, obj)
		}
	}
	return objs, nil
}

// Register registers this Bucket and all indexes.
// You can define a name here for queries, which is
// different than the bucket name used to prefix the data
func (b Bucket) Register(name string, r streampay.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, bucketQuery{b})
	for _, idx := range b.indexes {
		r.Register(root+"/"+idx.name, indexQuery{b, idx.Index})
	}
}

type bucketQuery struct {
	b Bucket
}

var _ streampay.QueryHandler = bucketQuery{}

// Query returns a list of Models with absolute dbkeys,
// so clients can verify them against the backing store.
func (q bucketQuery) Query(db streampay.ReadOnlyKVStore, mod string, data []byte) ([]streampay.Model, error) {
	switch mod {
	case streampay.KeyQueryMod:
		key := q.b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		res := streampay.Model{Key: key, Value: value}
		return []streampay.Model{res}, nil
	case streampay.PrefixQueryMod:
		prefix := q.b.DBKey(data)
		return queryPrefix(db, prefix)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %s", mod)
	}
}

type indexQuery struct {
	b   Bucket
	idx Index
}

var _ streampay.QueryHandler = indexQuery{}

// Query resolves the index entry and loads all referenced models.
func (q indexQuery) Query(db streampay.ReadOnlyKVStore, mod string, data []byte) ([]streampay.Model, error) {
	if mod != streampay.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod: %s", mod)
	}
	refs, err := q.idx.GetAt(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]streampay.Model, 0, len(refs))
	for _, ref := range refs {
		key := q.b.DBKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		res = append(res, streampay.Model{Key: key, Value: value})
	}
	return res, nil
}

func queryPrefix(db streampay.ReadOnlyKVStore, prefix []byte) ([]streampay.Model, error) {
	iter, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var res []streampay.Model
	for iter.Valid() {
		res = append(res, streampay.Model{
			Key:   append([]byte(nil), iter.Key()...),
			Value: append([]byte(nil), iter.Value()...),
		})
		if err := iter.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// prefixEnd returns the smallest key strictly greater than all keys
// with this prefix, or nil if the prefix is all 0xff.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
