package cart

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"aniverse/pkg/database"
	"aniverse/pkg/models"
)

func setupTestRepo(t *testing.T) *Repo {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cart_test.db")
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

func TestCreateGetSave(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, "cart-1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cart, err := repo.Get(ctx, "cart-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cart == nil || len(cart.Items) != 0 {
		t.Fatalf("fresh cart should be empty, got %+v", cart)
	}

	items := []models.CartItem{
		{UID: "m1", Title: "Frieren Vol 1", Price: 9.99, Quantity: 2},
		{UID: "m2", Title: "Berserk Deluxe", Price: 49.99, Quantity: 1},
	}
	ok, err := repo.Save(ctx, "cart-1", items)
	if err != nil || !ok {
		t.Fatalf("Save: %v ok=%v", err, ok)
	}

	cart, err = repo.Get(ctx, "cart-1")
	if err != nil {
		t.Fatalf("Get after save: %v", err)
	}
	if len(cart.Items) != 2 || cart.Items[0].UID != "m1" {
		t.Errorf("items not preserved in order: %+v", cart.Items)
	}
	if cart.Total() != 9.99*2+49.99 {
		t.Errorf("Total = %v", cart.Total())
	}
	if cart.Count() != 3 {
		t.Errorf("Count = %d, want 3", cart.Count())
	}
}

func TestSaveMissingCart(t *testing.T) {
	repo := setupTestRepo(t)
	ok, err := repo.Save(context.Background(), "no-such-cart", nil)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ok {
		t.Error("saving a missing cart should report no rows")
	}
}

func TestGetMissing(t *testing.T) {
	repo := setupTestRepo(t)
	cart, err := repo.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cart != nil {
		t.Errorf("missing cart should be nil, got %+v", cart)
	}
}

func TestDelete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, "cart-1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, "cart-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	cart, err := repo.Get(ctx, "cart-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cart != nil {
		t.Error("cart should be gone after delete")
	}
}
