package services

import (
	"hash/fnv"
	"sort"
	"sync"

	"powergest/models"
)

const lockStripes = 64

// keyLocks serializes the record write and the stock write of one key.
// Reconciliation takes the global lock exclusively.
type keyLocks struct {
	global  sync.RWMutex
	stripes [lockStripes]sync.Mutex
}

func stripe(key models.StockKey) int {
	h := fnv.New32a()
	h.Write([]byte(key.String()))
	return int(h.Sum32() % lockStripes)
}

func (l *keyLocks) lock(keys ...models.StockKey) func() {
	l.global.RLock()

	idx := make([]int, 0, len(keys))
	seen := make(map[int]bool, len(keys))
	for _, k := range keys {
		i := stripe(k)
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	for _, i := range idx {
		l.stripes[i].Lock()
	}

	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			l.stripes[idx[j]].Unlock()
		}
		l.global.RUnlock()
	}
}

func (l *keyLocks) lockAll() func() {
	l.global.Lock()
	return l.global.Unlock
}
