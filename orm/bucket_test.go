package orm

import (
	"testing"

	"github.com/iov-one/streampay/errors"
	"github.com/iov-one/streampay/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/go-amino"
)

var testCodec = amino.NewCodec()

// Counter is a test model with one value.
type Counter struct {
	Count int64
}

var _ CloneableData = (*Counter)(nil)

func (c *Counter) Marshal() ([]byte, error) {
	return testCodec.MarshalBinaryBare(c)
}

func (c *Counter) Unmarshal(raw []byte) error {
	return testCodec.UnmarshalBinaryBare(raw, c)
}

func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count}
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "count must be non-negative")
	}
	return nil
}

func counterObj(key []byte, count int64) Object {
	return NewSimpleObj(key, &Counter{Count: count})
}

// count indexes counters by their value, grouping equal counts.
func count(obj Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot index nil")
	}
	cntr, ok := obj.Value().(*Counter)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "can only index counters")
	}
	return EncodeSequence(cntr.Count), nil
}

func TestBucketSaveGet(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cntr", &Counter{})

	// empty read
	obj, err := b.Get(db, []byte("foo"))
	require.NoError(t, err)
	assert.Nil(t, obj)

	// write and read back
	first := counterObj([]byte("foo"), 22)
	require.NoError(t, b.Save(db, first))
	obj, err = b.Get(db, []byte("foo"))
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, []byte("foo"), obj.Key())
	assert.Equal(t, int64(22), obj.Value().(*Counter).Count)

	// a different key is still empty
	obj, err = b.Get(db, []byte("bar"))
	require.NoError(t, err)
	assert.Nil(t, obj)

	// invalid models are rejected
	bad := counterObj([]byte("bad"), -5)
	err = b.Save(db, bad)
	assert.Error(t, err)

	// delete removes
	require.NoError(t, b.Delete(db, []byte("foo")))
	obj, err = b.Get(db, []byte("foo"))
	require.NoError(t, err)
	assert.Nil(t, obj)
}

func TestBucketIndex(t *testing.T) {
	db := store.MemStore()
	const uniq, mini = "uniq", "mini"

	b := NewBucket("special", &Counter{}).
		WithIndex(uniq, count, true).
		WithIndex(mini, count, false)

	a, aCount := []byte("a"), int64(5)
	b2, bCount := []byte("b"), int64(256+5)
	c, cCount := []byte("c"), int64(5)

	oa := counterObj(a, aCount)
	ob := counterObj(b2, bCount)
	oc := counterObj(c, cCount)

	require.NoError(t, b.Save(db, oa))
	require.NoError(t, b.Save(db, ob))

	// a and c have the same count, so c clashes on the unique index
	err := b.Save(db, oc)
	require.Error(t, err)
	assert.True(t, errors.ErrDuplicate.Is(err))

	// queries work on both indexes
	res, err := b.GetIndexed(db, uniq, EncodeSequence(aCount))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, a, res[0].Key())

	res, err = b.GetIndexed(db, mini, EncodeSequence(bCount))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, b2, res[0].Key())

	// missing index value returns nothing
	res, err = b.GetIndexed(db, uniq, EncodeSequence(999))
	require.NoError(t, err)
	assert.Len(t, res, 0)

	// update a, and the index follows
	oa2 := counterObj(a, 9)
	require.NoError(t, b.Save(db, oa2))
	res, err = b.GetIndexed(db, uniq, EncodeSequence(aCount))
	require.NoError(t, err)
	assert.Len(t, res, 0)
	res, err = b.GetIndexed(db, uniq, EncodeSequence(9))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, a, res[0].Key())

	// now c no longer clashes
	require.NoError(t, b.Save(db, oc))
	res, err = b.GetIndexed(db, mini, EncodeSequence(cCount))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, c, res[0].Key())

	// deleting b cleans up its index entries
	require.NoError(t, b.Delete(db, b2))
	res, err = b.GetIndexed(db, mini, EncodeSequence(bCount))
	require.NoError(t, err)
	assert.Len(t, res, 0)
}

func TestBucketNamePanics(t *testing.T) {
	assert.Panics(t, func() { NewBucket("l", &Counter{}) })
	assert.Panics(t, func() { NewBucket("Open", &Counter{}) })
	assert.Panics(t, func() { NewBucket("waytoolongname", &Counter{}) })
	assert.Panics(t, func() {
		NewBucket("dup", &Counter{}).
			WithIndex("foo", count, true).
			WithIndex("foo", count, false)
	})
}
