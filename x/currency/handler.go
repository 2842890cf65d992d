package currency

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x"
)

const createTokenInfoCost = 100

// RegisterQuery will register the token information as "/currencies"
func RegisterQuery(qr ledger.QueryRouter) {
	NewTokenInfoBucket().Register("currencies", qr)
}

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r ledger.Registry, auth x.Authenticator) {
	r.Handle(CreateMsg{}.Path(), NewCreateHandler(auth))
}

// NewCreateHandler returns a handler that registers new assets on behalf of
// the configured issuer.
func NewCreateHandler(auth x.Authenticator) ledger.Handler {
	return &createHandler{
		auth:   auth,
		bucket: NewTokenInfoBucket(),
	}
}

type createHandler struct {
	auth   x.Authenticator
	bucket *TokenInfoBucket
}

func (h *createHandler) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &ledger.CheckResult{GasAllocated: createTokenInfoCost}, nil
}

func (h *createHandler) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*ledger.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Create(db, msg.Ticker, NewTokenInfo(msg.Name)); err != nil {
		return nil, err
	}
	return &ledger.DeliverResult{Data: []byte(msg.Ticker)}, nil
}

func (h *createHandler) validate(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := ledger.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	conf, err := loadConf(db)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(errors.ErrUnauthorized, "no issuer configured")
	case err != nil:
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Issuer) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "token only issued by %s", conf.Issuer)
	}

	switch err := h.bucket.Has(db, []byte(msg.Ticker)); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "ticker %s", msg.Ticker)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	return &msg, nil
}
