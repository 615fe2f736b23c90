package redis

const (
	// KeyPrefixRecord is the prefix for cached record keys
	KeyPrefixRecord = "inbox:record:"
)

// RecordKey returns the Redis key for a record by ID
func RecordKey(id string) string {
	return KeyPrefixRecord + id
}
