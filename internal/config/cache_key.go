package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ActiveRolesKey returns the cache key for the active-roles listing.
func (r *CacheKeyStruct) ActiveRolesKey() string {
	return "roles:active"
}

// RevokedTokenKey returns the cache key marking a revoked JWT by its JTI.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("token:revoked:%s", jti)
}

var CacheKey = NewCacheKeyStruct()
