package ledger

import "fmt"

// Query modifiers select how the query data is matched against keys.
const (
	// KeyQueryMod matches a single key exactly.
	KeyQueryMod = ""
	// PrefixQueryMod matches every key starting with the query data.
	PrefixQueryMod = "prefix"
)

// Model is a single key-value result of a query.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers queries against a read only view of the store.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister is implemented by every extension that exposes its
// buckets for reading.
type QueryRegister func(QueryRouter)

// QueryRouter maps a query path, for example "/escrows", to its handler.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register binds h to path. Binding a path twice panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns nil for an unknown path.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
