package models

// Scopes is the capability bit-set carried by a credential. Every operation
// declares the scope it requires and checks it before touching storage.
type Scopes uint64

const (
	ScopeCollectionCreate Scopes = 1 << iota
	ScopeCollectionRead
	ScopeCollectionWrite
	ScopeCollectionDelete
)

// DefaultScopes is what a freshly issued session token carries.
const DefaultScopes = ScopeCollectionCreate |
	ScopeCollectionRead |
	ScopeCollectionWrite |
	ScopeCollectionDelete

func (s Scopes) Has(required Scopes) bool {
	return s&required == required
}
