package store

import (
	"fmt"
	"sync"
	"testing"

	"txmirror/internal/domain"
)

const alias domain.ProcessAlias = "default-purchase/release-1"

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	tx := domain.NewTransaction("T001", alias)

	if err := store.Save(tx); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	got, err := store.Get("T001")
	if err != nil {
		t.Errorf("Get() error = %v", err)
	}
	if got.ID != "T001" {
		t.Errorf("Get() ID = %v, want T001", got.ID)
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("NONEXISTENT")
	if err != domain.ErrTransactionNotFound {
		t.Errorf("Get() error = %v, want ErrTransactionNotFound", err)
	}
}

func TestMemoryStore_List(t *testing.T) {
	store := NewMemoryStore()

	// Add transactions in non-sorted order
	store.Save(domain.NewTransaction("T003", alias))
	store.Save(domain.NewTransaction("T001", alias))
	store.Save(domain.NewTransaction("T002", alias))

	list, err := store.List()
	if err != nil {
		t.Errorf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() length = %v, want 3", len(list))
	}

	expected := []string{"T001", "T002", "T003"}
	for i, tx := range list {
		if tx.ID != expected[i] {
			t.Errorf("List()[%d].ID = %v, want %v", i, tx.ID, expected[i])
		}
	}
}

func TestMemoryStore_ListEmpty(t *testing.T) {
	store := NewMemoryStore()

	list, err := store.List()
	if err != nil {
		t.Errorf("List() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() length = %v, want 0", len(list))
	}
}

func TestMemoryStore_Exists(t *testing.T) {
	store := NewMemoryStore()
	store.Save(domain.NewTransaction("T001", alias))

	if !store.Exists("T001") {
		t.Error("Exists(T001) = false, want true")
	}
	if store.Exists("T002") {
		t.Error("Exists(T002) = true, want false")
	}
}

func TestMemoryStore_SaveReplaces(t *testing.T) {
	store := NewMemoryStore()
	store.Save(domain.NewTransaction("T001", alias))

	updated := domain.NewTransaction("T001", alias)
	updated.Record("transition/inquire", "initial", "inquiry")
	store.Save(updated)

	got, _ := store.Get("T001")
	if got.LastTransition != "transition/inquire" {
		t.Errorf("LastTransition = %v, want transition/inquire", got.LastTransition)
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("T%03d", n)
			store.Save(domain.NewTransaction(id, alias))
			store.Get(id)
			store.List()
		}(i)
	}
	wg.Wait()

	list, _ := store.List()
	if len(list) != 100 {
		t.Errorf("List() length = %v, want 100", len(list))
	}
}
