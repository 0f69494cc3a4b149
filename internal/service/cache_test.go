package service

import (
	"testing"
	"time"

	"github.com/bigkaa/devicehub/internal/domain/model"
)

// TestListingCache_GetSet проверяет базовые операции Get/Set.
func TestListingCache_GetSet(t *testing.T) {
	cache := NewListingCache(100, 5*time.Minute)

	if _, ok := cache.Get("/home/drive"); ok {
		t.Fatal("ожидался cache miss для новой папки")
	}

	items := []model.FileItem{{Name: "a.txt", Path: "/home/drive/a.txt", Size: 5}}
	cache.Set("/home/drive", items)

	got, ok := cache.Get("/home/drive")
	if !ok {
		t.Fatal("ожидался cache hit после Set")
	}
	if len(got) != 1 || got[0].Name != "a.txt" {
		t.Errorf("листинг = %+v", got)
	}
}

// TestListingCache_EmptyListing проверяет, что пустая папка тоже кэшируется.
func TestListingCache_EmptyListing(t *testing.T) {
	cache := NewListingCache(10, time.Minute)
	cache.Set("/empty", []model.FileItem{})

	got, ok := cache.Get("/empty")
	if !ok || got == nil || len(got) != 0 {
		t.Errorf("Get(/empty) = %v, %v; ожидался пустой срез и hit", got, ok)
	}
}

func TestListingCache_DeletePurge(t *testing.T) {
	cache := NewListingCache(100, 5*time.Minute)
	cache.Set("/a", nil)
	cache.Set("/b", nil)

	cache.Delete("/a")
	if _, ok := cache.Get("/a"); ok {
		t.Fatal("ожидался cache miss после Delete")
	}

	cache.Purge()
	if cache.Len() != 0 {
		t.Errorf("Len() = %d после Purge, ожидается 0", cache.Len())
	}
}

// TestListingCache_TTLExpiration проверяет истечение TTL.
func TestListingCache_TTLExpiration(t *testing.T) {
	cache := NewListingCache(100, 50*time.Millisecond)
	cache.Set("/ttl", []model.FileItem{{Name: "x"}})

	if _, ok := cache.Get("/ttl"); !ok {
		t.Fatal("ожидался cache hit сразу после Set")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get("/ttl"); ok {
		t.Fatal("ожидался cache miss после истечения TTL")
	}
}

// TestListingCache_Eviction проверяет вытеснение при превышении maxSize.
func TestListingCache_Eviction(t *testing.T) {
	cache := NewListingCache(2, 5*time.Minute)

	cache.Set("/1", nil)
	cache.Set("/2", nil)
	cache.Set("/3", nil)

	if cache.Len() != 2 {
		t.Errorf("Len() = %d, ожидается 2", cache.Len())
	}
	if _, ok := cache.Get("/1"); ok {
		t.Error("самая старая папка должна быть вытеснена")
	}
	if _, ok := cache.Get("/3"); !ok {
		t.Error("ожидался cache hit для /3")
	}
}
