package ledger

import (
	"github.com/iov-one/ledger/errors"
)

// Metadata is carried by every persisted model and message. Schema is the
// version of the serialization format and starts with 1.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if the metadata is missing a schema version.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version must be greater than zero")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
