package credentials

import (
	"sort"
	"sync"
)

// AccountCredentials is an authenticated handle for one named account.
type AccountCredentials interface {
	// Name is the account name callers refer to.
	Name() string
	// Type is the backend the credentials authenticate against, e.g. "stackdriver".
	Type() string
}

// Resolver maps an account name to already-authenticated credentials.
type Resolver interface {
	GetOne(name string) (AccountCredentials, bool)
}

// Repository is an in-memory Resolver that accounts are saved into at startup.
type Repository struct {
	mu       sync.RWMutex // protects accounts
	accounts map[string]AccountCredentials
}

func NewRepository() *Repository {
	return &Repository{accounts: make(map[string]AccountCredentials)}
}

// Save stores c under its name, replacing any previous credentials of that name.
func (r *Repository) Save(c AccountCredentials) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[c.Name()] = c
}

// GetOne returns the credentials stored under name.
func (r *Repository) GetOne(name string) (AccountCredentials, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.accounts[name]
	return c, ok
}

// ListKeys returns the sorted account names.
func (r *Repository) ListKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.accounts))
	for k := range r.accounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
