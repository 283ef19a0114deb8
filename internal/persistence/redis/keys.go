package redis

const (
	// KeyPrefixSnapshot is the prefix for per-user snapshot keys
	KeyPrefixSnapshot = "jump:snapshot:"
	// KeyAllSnapshots is the key for the set of user ids holding a snapshot
	KeyAllSnapshots = "jump:snapshots:all"
)

// SnapshotKey returns the Redis key for a user's snapshot
func SnapshotKey(userID string) string {
	return KeyPrefixSnapshot + userID
}

// AllSnapshotsKey returns the key for the set of all snapshot owners
func AllSnapshotsKey() string {
	return KeyAllSnapshots
}
