package currency

import (
	"regexp"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/coin"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// isTokenName is the regexp to check a human readable asset name.
var isTokenName = regexp.MustCompile(`^[A-Za-z0-9 \-_:]{3,32}$`).MatchString

// TokenInfo describes a registered asset.
type TokenInfo struct {
	Metadata *ledger.Metadata `json:"metadata"`
	Name     string           `json:"name"`
}

var _ orm.Model = (*TokenInfo)(nil)

func (t *TokenInfo) Marshal() ([]byte, error) {
	return ledger.MarshalBinary(t)
}

func (t *TokenInfo) Unmarshal(raw []byte) error {
	return ledger.UnmarshalBinary(raw, t)
}

func (t *TokenInfo) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", t.Metadata.Validate())
	if !isTokenName(t.Name) {
		errs = errors.AppendField(errs, "Name", errors.Wrapf(errors.ErrInput, "invalid token name %q", t.Name))
	}
	return errs
}

func (t *TokenInfo) Copy() orm.CloneableData {
	return &TokenInfo{
		Metadata: t.Metadata.Copy(),
		Name:     t.Name,
	}
}

// NewTokenInfo returns a TokenInfo with the current schema version.
func NewTokenInfo(name string) *TokenInfo {
	return &TokenInfo{
		Metadata: &ledger.Metadata{Schema: 1},
		Name:     name,
	}
}

// TokenInfoBucket stores TokenInfo entities under their ticker.
type TokenInfoBucket struct {
	orm.ModelBucket
}

// NewTokenInfoBucket returns a bucket for managing token information.
func NewTokenInfoBucket() *TokenInfoBucket {
	return &TokenInfoBucket{
		ModelBucket: orm.NewModelBucket("tokeninfo", &TokenInfo{}),
	}
}

// Get returns the information of given ticker. ErrNotFound is returned if
// the ticker is not registered.
func (b *TokenInfoBucket) Get(db ledger.ReadOnlyKVStore, ticker string) (*TokenInfo, error) {
	var t TokenInfo
	if err := b.One(db, []byte(ticker), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create registers a new asset. It fails with ErrDuplicate if the ticker is
// already taken.
func (b *TokenInfoBucket) Create(db ledger.KVStore, ticker string, t *TokenInfo) error {
	if !coin.IsCC(ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", ticker)
	}
	switch err := b.Has(db, []byte(ticker)); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "ticker %s", ticker)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return b.Put(db, []byte(ticker), t)
}

// Require returns ErrCurrency unless every given ticker is registered.
func Require(db ledger.ReadOnlyKVStore, tickers ...string) error {
	b := NewTokenInfoBucket()
	for _, ticker := range tickers {
		_, err := b.Get(db, ticker)
		switch {
		case err == nil:
		case errors.ErrNotFound.Is(err):
			return errors.Wrapf(errors.ErrCurrency, "unknown asset %q", ticker)
		default:
			return err
		}
	}
	return nil
}
