package devserver

import (
	"math"
	"sort"
	"sync"

	"github.com/octabyte/salon-gommon/models"
)

type account struct {
	models.Account
	passwordHash []byte
}

type memoryDB struct {
	mu          sync.RWMutex
	nextID      int64
	accounts    map[int64]*account
	clients     map[int64]models.Client
	colorations map[int64]models.Coloration
	reports     map[int64]models.Report
	// refresh grants keyed by token hash
	refresh map[string]refreshGrant
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		accounts:    map[int64]*account{},
		clients:     map[int64]models.Client{},
		colorations: map[int64]models.Coloration{},
		reports:     map[int64]models.Report{},
		refresh:     map[string]refreshGrant{},
	}
}

// id hands out ids shared by every table. Caller holds mu.
func (db *memoryDB) id() int64 {
	db.nextID++
	return db.nextID
}

func byID[T any](m map[int64]T) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// paginate returns the 1-based page of items with the total and page count.
func paginate[T any](items []T, page, size int) ([]T, int, int) {
	total := len(items)
	pages := int(math.Ceil(float64(total) / float64(size)))

	start := (page - 1) * size
	if start >= total {
		return []T{}, total, pages
	}
	end := start + size
	if end > total {
		end = total
	}
	return items[start:end], total, pages
}
