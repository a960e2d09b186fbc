package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// GateSessionKey returns the cache key holding the active gate session JTI
// for an allow-listed phone number.
func (r *CacheKeyStruct) GateSessionKey(phone string) string {
	return fmt.Sprintf("gate:session:%s", phone)
}

// LatestInsightKey returns the cache key for the most recent AI insight text.
func (r *CacheKeyStruct) LatestInsightKey() string {
	return "insight:latest"
}

var CacheKey = NewCacheKeyStruct()
