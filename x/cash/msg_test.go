package cash

import (
	"strings"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/weavetest"
	"github.com/iov-one/ledger/weavetest/assert"
)

func TestSendMsgValidate(t *testing.T) {
	src := weavetest.NewAddress()
	dest := weavetest.NewAddress()

	cases := map[string]struct {
		msg       *SendMsg
		wantField map[string]*errors.Error
	}{
		"valid": {
			msg: &SendMsg{
				Metadata:    &ledger.Metadata{Schema: 1},
				Source:      src,
				Destination: dest,
				Amount:      coin.NewCoinp(1, "FOO"),
			},
			wantField: map[string]*errors.Error{
				"Metadata":    nil,
				"Amount":      nil,
				"Source":      nil,
				"Destination": nil,
				"Memo":        nil,
			},
		},
		"everything wrong": {
			msg: &SendMsg{
				Source:      ledger.Address("abc"),
				Destination: nil,
				Amount:      coin.NewCoinp(0, "FOO"),
				Memo:        strings.Repeat("x", maxMemoSize+1),
			},
			wantField: map[string]*errors.Error{
				"Metadata":    errors.ErrMetadata,
				"Amount":      errors.ErrAmount,
				"Source":      errors.ErrInput,
				"Destination": errors.ErrInput,
				"Memo":        errors.ErrInput,
			},
		},
		"missing amount": {
			msg: &SendMsg{
				Metadata:    &ledger.Metadata{Schema: 1},
				Source:      src,
				Destination: dest,
			},
			wantField: map[string]*errors.Error{
				"Amount": errors.ErrAmount,
			},
		},
		"bad ticker": {
			msg: &SendMsg{
				Metadata:    &ledger.Metadata{Schema: 1},
				Source:      src,
				Destination: dest,
				Amount:      coin.NewCoinp(5, "x"),
			},
			wantField: map[string]*errors.Error{
				"Amount": errors.ErrCurrency,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantField {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}
