package redis

const (
	// KeyPrefixSourceStats is the prefix for per-source fetch statistics
	KeyPrefixSourceStats = "navdeck:stats:source:"
	// KeyAllSources is the set of source ids that have statistics
	KeyAllSources = "navdeck:stats:sources"
	// KeyRoleViews is the hash of view counts per viewer role
	KeyRoleViews = "navdeck:stats:views"
)

// SourceStatsKey returns the Redis key for a source's statistics
func SourceStatsKey(sourceID string) string {
	return KeyPrefixSourceStats + sourceID
}

// AllSourcesKey returns the key for the set of all source ids
func AllSourcesKey() string {
	return KeyAllSources
}

// RoleViewsKey returns the key for the role view counters
func RoleViewsKey() string {
	return KeyRoleViews
}
