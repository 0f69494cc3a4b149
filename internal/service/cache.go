// Пакет service — бизнес-логика DeviceHub.
// ListingCache — LRU-кэш листингов папок NAS с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/devicehub/internal/domain/model"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dh_cache_hits_total",
		Help: "Общее количество попаданий в кэш листингов NAS.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dh_cache_misses_total",
		Help: "Общее количество промахов кэша листингов NAS.",
	})
)

// ListingCache — кэш содержимого папок NAS по пути папки.
// Хранимые срезы не изменяются: читатели получают общий срез.
type ListingCache struct {
	cache *expirable.LRU[string, []model.FileItem]
}

// NewListingCache создаёт кэш на maxSize папок с временем жизни ttl.
func NewListingCache(maxSize int, ttl time.Duration) *ListingCache {
	return &ListingCache{cache: expirable.NewLRU[string, []model.FileItem](maxSize, nil, ttl)}
}

// Get возвращает листинг папки из кэша.
func (c *ListingCache) Get(folder string) ([]model.FileItem, bool) {
	items, ok := c.cache.Get(folder)
	if ok {
		cacheHitsTotal.Inc()
		return items, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Set сохраняет листинг папки.
func (c *ListingCache) Set(folder string, items []model.FileItem) {
	c.cache.Add(folder, items)
}

// Delete удаляет листинг папки.
func (c *ListingCache) Delete(folder string) {
	c.cache.Remove(folder)
}

// Purge очищает кэш (после выхода из NAS).
func (c *ListingCache) Purge() {
	c.cache.Purge()
}

// Len возвращает число закэшированных папок.
func (c *ListingCache) Len() int {
	return c.cache.Len()
}
