// Package settings provides the client's durable key-value store. Values are
// strings keyed by namespaced names; absence of a key is a distinct state
// from any stored value.
package settings

// Store is the persistence surface handed to state holders. The bool result
// of Get reports whether the key has ever been set.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}
