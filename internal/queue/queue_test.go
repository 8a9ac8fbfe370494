package queue

import (
	"sync"
	"testing"
)

func TestQueue_FIFO(t *testing.T) {
	q := New([]string{"a", "b", "c"})
	if q.Len() != 3 {
		t.Errorf("Len() = %d, want 3", q.Len())
	}

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Take()
		if !ok || got != want {
			t.Fatalf("Take() = %q, %v; want %q, true", got, ok, want)
		}
	}

	if _, ok := q.Take(); ok {
		t.Error("Take() on empty queue should return false")
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
}

func TestQueue_DoesNotAliasInput(t *testing.T) {
	items := []int{1, 2, 3}
	q := New(items)
	items[0] = 99

	if got, _ := q.Take(); got != 1 {
		t.Errorf("Take() = %d, want 1", got)
	}
}

func TestQueue_ConcurrentDrain(t *testing.T) {
	const n = 1000
	const workers = 7

	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	q := New(items)

	var mu sync.Mutex
	seen := make(map[int]int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				item, ok := q.Take()
				if !ok {
					return
				}
				mu.Lock()
				seen[item]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Errorf("claimed %d distinct items, want %d", len(seen), n)
	}
	for item, count := range seen {
		if count != 1 {
			t.Errorf("item %d claimed %d times", item, count)
		}
	}
}
