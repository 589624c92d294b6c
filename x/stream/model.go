package stream

import (
	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
	"github.com/iov-one/streampay/orm"
)

// BucketName is where streams are stored.
const BucketName = "stream"

var _ orm.CloneableData = (*Stream)(nil)

// Validate ensures the timeframe describes a forward window. A zero
// length window is allowed, it simply never vests anything.
func (t Timeframe) Validate() error {
	if t.EndBlock < t.StartBlock {
		return errors.Wrap(ErrInvalidTimeframe, "end before start")
	}
	return nil
}

// Marshal implements streampay.Persistent.
func (s *Stream) Marshal() ([]byte, error) {
	return streamCodec.MarshalBinaryBare(s)
}

// Unmarshal implements streampay.Persistent.
func (s *Stream) Unmarshal(raw []byte) error {
	return streamCodec.UnmarshalBinaryBare(raw, s)
}

// Validate ensures the stream is valid.
func (s *Stream) Validate() error {
	if err := s.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if err := s.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if s.PaymentPerBlock == 0 {
		return errors.Wrap(errors.ErrModel, "zero payment per block")
	}
	if s.WithdrawnBalance > s.Balance {
		return errors.Wrap(errors.ErrModel, "withdrawn more than locked")
	}
	return s.Timeframe.Validate()
}

// Copy returns a shallow copy of this stream.
func (s Stream) Copy() orm.CloneableData {
	return &s
}

// StreamBucket is a wrapper over orm.Bucket that ensures that only
// Stream entities can be persisted, and assigns their IDs.
type StreamBucket struct {
	orm.Bucket
	idSeq orm.Sequence
}

// NewStreamBucket returns a bucket for storing Stream state, indexed
// by both parties.
func NewStreamBucket() StreamBucket {
	b := orm.NewBucket(BucketName, &Stream{}).
		WithIndex("sender", senderIdx, false).
		WithIndex("recipient", recipientIdx, false)
	return StreamBucket{
		Bucket: b,
		idSeq:  b.Sequence(orm.SeqID),
	}
}

func senderIdx(obj orm.Object) ([]byte, error) {
	s, err := asStream(obj)
	if err != nil {
		return nil, err
	}
	return s.Sender, nil
}

func recipientIdx(obj orm.Object) ([]byte, error) {
	s, err := asStream(obj)
	if err != nil {
		return nil, err
	}
	return s.Recipient, nil
}

func asStream(obj orm.Object) (*Stream, error) {
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot index nil")
	}
	s, ok := obj.Value().(*Stream)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return s, nil
}

// Create adds the stream to the store and returns the object holding
// the ID of the newly inserted entity. IDs are assigned from zero,
// the sequence counter always holds the next free ID.
func (b *StreamBucket) Create(db streampay.KVStore, s *Stream) (orm.Object, error) {
	n, err := b.idSeq.NextInt(db)
	if err != nil {
		return nil, err
	}
	key := orm.EncodeSequence(n - 1)
	obj := orm.NewSimpleObj(key, s)
	return obj, b.Bucket.Save(db, obj)
}

// Save persists the state of a given stream entity.
func (b *StreamBucket) Save(db streampay.KVStore, obj orm.Object) error {
	if _, ok := obj.Value().(*Stream); !ok {
		return errors.WithType(errors.ErrModel, obj.Value())
	}
	return b.Bucket.Save(db, obj)
}

// GetStream returns the stream with a given ID, or ErrNotFound.
func (b *StreamBucket) GetStream(db streampay.ReadOnlyKVStore, streamID []byte) (*Stream, error) {
	obj, err := b.Get(db, streamID)
	if err != nil {
		return nil, err
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "stream %x", streamID)
	}
	s, ok := obj.Value().(*Stream)
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "stream %x", streamID)
	}
	return s, nil
}
