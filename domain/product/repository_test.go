package product

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&Product{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seed(t *testing.T, repo *Repository, products ...Product) {
	t.Helper()
	if err := repo.ReplaceAll(context.Background(), products); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
}

func TestRepository_ReplaceAll(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	seed(t, repo,
		Product{ID: "1", Name: "Old One", Price: "10"},
		Product{ID: "9", Name: "Stale", Price: "1"},
	)

	t.Run("replaces whole table in payload order", func(t *testing.T) {
		seed(t, repo,
			Product{ID: "2", Name: "Two", Price: "20"},
			Product{ID: "1", Name: "One", Price: "11", IsFavorite: true},
		)

		products, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(products) != 2 {
			t.Fatalf("expected 2 products, got %d", len(products))
		}
		if products[0].ID != "2" || products[1].ID != "1" {
			t.Errorf("expected order [2 1], got [%s %s]", products[0].ID, products[1].ID)
		}
		if products[1].Name != "One" || !products[1].IsFavorite {
			t.Errorf("expected overwritten row with favorite flag, got %+v", products[1])
		}
	})

	t.Run("empty list clears table", func(t *testing.T) {
		seed(t, repo)

		products, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(products) != 0 {
			t.Errorf("expected 0 products, got %d", len(products))
		}
	})
}

func TestRepository_GetByID(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	seed(t, repo, Product{ID: "abc", Name: "Phone", Brand: "Acme"})

	t.Run("existing product", func(t *testing.T) {
		found, err := repo.GetByID(ctx, "abc")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if found == nil || found.Name != "Phone" {
			t.Errorf("expected Phone, got %+v", found)
		}
	})

	t.Run("non-existent product", func(t *testing.T) {
		found, err := repo.GetByID(ctx, "missing")
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if found != nil {
			t.Errorf("expected nil, got %+v", found)
		}
	})
}

func TestRepository_UpdateFavorite(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	seed(t, repo, Product{ID: "1", Name: "One"})

	n, err := repo.UpdateFavorite(ctx, "1", true)
	if err != nil {
		t.Fatalf("UpdateFavorite() error = %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row affected, got %d", n)
	}

	found, _ := repo.GetByID(ctx, "1")
	if found == nil || !found.IsFavorite {
		t.Errorf("expected favorite flag set, got %+v", found)
	}

	n, err = repo.UpdateFavorite(ctx, "missing", true)
	if err != nil {
		t.Fatalf("UpdateFavorite() error = %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 rows affected, got %d", n)
	}
}

func TestRepository_ListFavorites(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	seed(t, repo,
		Product{ID: "1", Name: "Zeta", IsFavorite: true},
		Product{ID: "2", Name: "Alpha", IsFavorite: true},
		Product{ID: "3", Name: "Beta"},
	)

	favorites, err := repo.ListFavorites(ctx)
	if err != nil {
		t.Fatalf("ListFavorites() error = %v", err)
	}
	if len(favorites) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(favorites))
	}
	if favorites[0].Name != "Alpha" || favorites[1].Name != "Zeta" {
		t.Errorf("expected [Alpha Zeta], got [%s %s]", favorites[0].Name, favorites[1].Name)
	}
}

func TestRepository_DeleteAll(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	seed(t, repo, Product{ID: "1"}, Product{ID: "2"})

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	products, _ := repo.List(ctx)
	if len(products) != 0 {
		t.Errorf("expected 0 products, got %d", len(products))
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.50", "10.5"},
		{"10,50", "10.5"},
		{" 7 ", "7"},
		{"bad", "0"},
		{"", "0"},
		{"1.234,56", "0"},
	}

	for _, tc := range tests {
		got := ParsePrice(tc.in)
		if got.String() != tc.want {
			t.Errorf("ParsePrice(%q) = %s, want %s", tc.in, got.String(), tc.want)
		}
	}
}
