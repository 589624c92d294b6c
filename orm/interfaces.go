package orm

import (
	"github.com/iov-one/streampay"
)

// CloneableData is anything we can store in a bucket: it must be
// serializable, validatable, and copyable.
type CloneableData interface {
	streampay.Persistent

	// Validate returns an error if the data is not in a sane,
	// persistable state.
	Validate() error

	// Copy returns a deep or shallow copy sufficient to store
	// independently of the original.
	Copy() CloneableData
}

// Object wraps a key and a value stored under it.
type Object interface {
	// Validate returns error if the object is not in a valid
	// state to save to the db
	Validate() error

	Key() []byte
	Value() CloneableData

	// SetKey may be used to update an object's key
	SetKey([]byte)

	// Clone copies the object for later modification
	Clone() Object
}
