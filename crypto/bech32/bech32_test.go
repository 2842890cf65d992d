package bech32

import (
	"encoding/hex"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBech32EncodeDecode(t *testing.T) {
	// bech32 -e -h tiov 746573742d7061796c6f6164
	const enc = `tiov1w3jhxapdwpshjmr0v9jqymqq4y`

	want, err := hex.DecodeString("746573742d7061796c6f6164")
	require.NoError(t, err)

	hrp, payload, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, "tiov", hrp)
	assert.Equal(t, want, payload)

	raw, err := Encode(hrp, payload)
	require.NoError(t, err)
	assert.Equal(t, enc, string(raw))
}

func TestBech32DecodeInvalid(t *testing.T) {
	_, _, err := Decode("tiov1w3jhxapdwpshjmr0v9jqymqq4z")
	assert.True(t, errors.ErrInput.Is(err))
}
