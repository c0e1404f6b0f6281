package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Cache keys are tracked per type so that all entries of one kind can be
// cleared at once, e.g. after a new bank is linked.
var (
	Cache         *ristretto.Cache
	BankCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	UserCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// Bank Cache Functions
func SetBankCache(cacheKey string, value interface{}) {
	BankCacheKeys.Lock()
	BankCacheKeys.m[cacheKey] = struct{}{}
	BankCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func DelBankCache(cacheKey string) {
	BankCacheKeys.Lock()
	delete(BankCacheKeys.m, cacheKey)
	BankCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

func ClearAllBankCaches() {
	BankCacheKeys.Lock()
	for key := range BankCacheKeys.m {
		Cache.Del(key)
	}
	BankCacheKeys.m = make(map[string]struct{})
	BankCacheKeys.Unlock()
}

// User Cache Functions
func SetUserCache(cacheKey string, value interface{}) {
	UserCacheKeys.Lock()
	UserCacheKeys.m[cacheKey] = struct{}{}
	UserCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func DelUserCache(cacheKey string) {
	UserCacheKeys.Lock()
	delete(UserCacheKeys.m, cacheKey)
	UserCacheKeys.Unlock()
	Cache.Del(cacheKey)
}
