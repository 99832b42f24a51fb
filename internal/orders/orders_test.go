package orders

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"aniverse/pkg/database"
	"aniverse/pkg/models"
)

func setupTestRepo(t *testing.T) *Repo {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders_test.db")
	db := database.MustOpen(database.Config{Path: path})
	t.Cleanup(func() {
		db.Close()
		os.Remove(path)
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepo(db)
}

func sampleOrder(id string) models.Order {
	return models.Order{
		ID:            id,
		CustomerName:  "Rei Hino",
		CustomerEmail: "rei@example.com",
		Items: []models.OrderItem{
			{UID: "m1", Title: "Berserk Deluxe Vol 1", Price: 49.99, Quantity: 1},
			{UID: "m2", Title: "Frieren Vol 3", Price: 9.99, Quantity: 2},
		},
		Total:     69.97,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

func TestNewOrderIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d+-[A-Z0-9]{5}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := NewOrderID()
		if !pattern.MatchString(id) {
			t.Fatalf("order id %q does not match expected format", id)
		}
		if seen[id] {
			t.Fatalf("duplicate order id %q", id)
		}
		seen[id] = true
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	o := sampleOrder("ORD-1-AAAAA")
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("order not found after create")
	}
	if got.CustomerEmail != o.CustomerEmail || got.Total != o.Total {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Items) != 2 || got.Items[1].Quantity != 2 {
		t.Errorf("items not preserved: %+v", got.Items)
	}

	missing, err := repo.GetByID(ctx, "ORD-0-ZZZZZ")
	if err != nil {
		t.Fatalf("GetByID missing: %v", err)
	}
	if missing != nil {
		t.Errorf("missing order should be nil, got %+v", missing)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	a := sampleOrder("ORD-1-AAAAA")
	b := sampleOrder("ORD-2-BBBBB")
	b.Status = models.OrderStatusShipped
	for _, o := range []models.Order{a, b} {
		if err := repo.Create(ctx, o); err != nil {
			t.Fatalf("Create %s: %v", o.ID, err)
		}
	}

	all, err := repo.List(ctx, ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("unfiltered list = %d orders, want 2", len(all))
	}

	shipped, err := repo.List(ctx, ListQuery{Status: "shipped"})
	if err != nil {
		t.Fatalf("List shipped: %v", err)
	}
	if len(shipped) != 1 || shipped[0].ID != b.ID {
		t.Errorf("status filter wrong: %+v", shipped)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	o := sampleOrder("ORD-1-AAAAA")
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := repo.UpdateStatus(ctx, o.ID, models.OrderStatusPaid)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if !ok {
		t.Fatal("UpdateStatus reported no rows")
	}

	got, err := repo.GetByID(ctx, o.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID after update: %v %v", got, err)
	}
	if got.Status != models.OrderStatusPaid {
		t.Errorf("status = %q, want paid", got.Status)
	}

	ok, err = repo.UpdateStatus(ctx, "ORD-0-ZZZZZ", models.OrderStatusPaid)
	if err != nil {
		t.Fatalf("UpdateStatus missing: %v", err)
	}
	if ok {
		t.Error("updating a missing order should report no rows")
	}
}

func TestSetEntryUID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	o := sampleOrder("ORD-1-AAAAA")
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SetEntryUID(ctx, o.ID, "blt123"); err != nil {
		t.Fatalf("SetEntryUID: %v", err)
	}
	got, _ := repo.GetByID(ctx, o.ID)
	if got.EntryUID != "blt123" {
		t.Errorf("entry uid = %q", got.EntryUID)
	}
}
