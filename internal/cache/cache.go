package cache

// Cache is a minimal key-value cache with a fixed TTL per instance.
// Keys are deterministic compositions of request parameters, e.g.
// "gToH:01-01-2025" or "en:bukhari".
type Cache[V any] interface {
	// Get returns the value and whether it was present and not expired.
	// A stale entry found during the lookup is removed.
	Get(key string) (V, bool)

	// Set stores the value with the current timestamp, unconditionally
	// overwriting any prior entry for that key.
	Set(key string, value V)

	// Delete removes a key if present.
	Delete(key string)

	// Len returns the number of non-expired items currently stored.
	Len() int

	// Clear removes all entries.
	Clear()

	// PurgeExpired scans and removes expired entries.
	PurgeExpired()
}
