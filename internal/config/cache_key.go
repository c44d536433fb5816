package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AvailableClassesKey returns the cache key holding the bookable class listing.
func (r *CacheKeyStruct) AvailableClassesKey() string {
	return "classes:available"
}

// AvailableClassesVersionKey returns the counter bumped on every invalidation.
// Cache fills that started under an older value are discarded.
func (r *CacheKeyStruct) AvailableClassesVersionKey() string {
	return "classes:available:version"
}

// AvailabilityChannel returns the Redis PubSub channel carrying slot changes.
func (r *CacheKeyStruct) AvailabilityChannel() string {
	return "classes:availability"
}

var CacheKey = NewCacheKeyStruct()
