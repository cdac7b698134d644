package repository

import (
	"context"
	"testing"
	"time"

	"powermed-api/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func seedProduct(t *testing.T, repo ProductRepository, name string, categoryID uuid.UUID, createdAt time.Time) *domain.Product {
	t.Helper()

	product := &domain.Product{
		ID:         uuid.New(),
		Name:       name,
		Brand:      domain.DefaultBrand,
		Price:      19.99,
		CategoryID: categoryID,
		Image:      "https://cdn.powermed.test/p.png",
		Stock:      5,
		FAQs:       []domain.FAQ{},
		IsActive:   true,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("Create product %s: %v", name, err)
	}
	return product
}

func TestProperty_ProductRoundTripPreservesAttributes(t *testing.T) {
	truncateAll(t)
	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)
	ctx := context.Background()

	category := seedCategory(t, categoryRepo, "Round Trip", true, time.Now())

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, priceCents int, stock int, question string, answer string) bool {
			price := float64(priceCents) / 100

			now := time.Now()
			product := &domain.Product{
				ID:          uuid.New(),
				Name:        name,
				Brand:       "Acme Labs",
				Price:       price,
				CategoryID:  category.ID,
				Image:       "https://cdn.powermed.test/p.png",
				Description: description,
				Stock:       stock,
				FAQs:        []domain.FAQ{{Question: question, Answer: answer}},
				IsActive:    true,
				CreatedAt:   now,
				UpdatedAt:   now,
			}

			if err := productRepo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Create: %v", err)
				return false
			}
			defer productRepo.Delete(ctx, product.ID)

			stored, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: FindByID: %v", err)
				return false
			}

			if stored.Name != name || stored.Brand != "Acme Labs" || stored.Description != description {
				t.Logf("FAIL: text attributes not preserved")
				return false
			}
			if stored.Price != price || stored.Stock != stock {
				t.Logf("FAIL: numeric attributes not preserved: price %v stock %d", stored.Price, stored.Stock)
				return false
			}
			if len(stored.FAQs) != 1 || stored.FAQs[0].Question != question || stored.FAQs[0].Answer != answer {
				t.Logf("FAIL: faqs not preserved: %v", stored.FAQs)
				return false
			}
			if stored.CategoryRef == nil || stored.CategoryRef.ID != category.ID {
				t.Logf("FAIL: category projection missing")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{1,40}`),
		gen.RegexMatch(`[A-Za-z0-9 .,]{0,100}`),
		gen.IntRange(0, 100000),
		gen.IntRange(0, 1000),
		gen.RegexMatch(`[A-Za-z0-9 ?]{1,60}`),
		gen.RegexMatch(`[A-Za-z0-9 .]{1,60}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepository_ListNewestFirstWithFilters(t *testing.T) {
	truncateAll(t)
	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)
	ctx := context.Background()

	vitamins := seedCategory(t, categoryRepo, "Vitamins", true, time.Now())
	minerals := seedCategory(t, categoryRepo, "Minerals", true, time.Now())

	base := time.Now().Add(-time.Hour)
	oldest := seedProduct(t, productRepo, "Collagen Peptides", vitamins.ID, base)
	middle := seedProduct(t, productRepo, "Magnesium Glycinate", minerals.ID, base.Add(time.Minute))
	newest := seedProduct(t, productRepo, "Zinc Picolinate", minerals.ID, base.Add(2*time.Minute))

	all, err := productRepo.List(ctx, ProductFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("listed %d products, want 3", len(all))
	}
	if all[0].ID != newest.ID || all[2].ID != oldest.ID {
		t.Error("products must come back newest first")
	}

	byCategory, err := productRepo.List(ctx, ProductFilter{CategoryID: &minerals.ID})
	if err != nil {
		t.Fatalf("List by category: %v", err)
	}
	if len(byCategory) != 2 {
		t.Errorf("category filter returned %d products, want 2", len(byCategory))
	}

	middle.IsActive = false
	middle.UpdatedAt = time.Now()
	if err := productRepo.Update(ctx, middle); err != nil {
		t.Fatalf("Update: %v", err)
	}
	active := true
	activeOnly, err := productRepo.List(ctx, ProductFilter{IsActive: &active})
	if err != nil {
		t.Fatalf("List active: %v", err)
	}
	if len(activeOnly) != 2 {
		t.Errorf("active filter returned %d products, want 2", len(activeOnly))
	}
}

func TestProductRepository_FullTextSearch(t *testing.T) {
	truncateAll(t)
	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)
	ctx := context.Background()

	category := seedCategory(t, categoryRepo, "Vitamins", true, time.Now())

	collagen := seedProduct(t, productRepo, "Collagen Peptides", category.ID, time.Now())
	collagen.Description = "Supports skin and joint health"
	collagen.UpdatedAt = time.Now()
	if err := productRepo.Update(ctx, collagen); err != nil {
		t.Fatalf("Update: %v", err)
	}
	seedProduct(t, productRepo, "Magnesium Glycinate", category.ID, time.Now())

	byName, err := productRepo.List(ctx, ProductFilter{Search: "collagen"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byName) != 1 || byName[0].ID != collagen.ID {
		t.Errorf("name search returned %d products", len(byName))
	}

	// Stemming reaches into descriptions too: "joints" matches "joint".
	byDescription, err := productRepo.List(ctx, ProductFilter{Search: "joints"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(byDescription) != 1 || byDescription[0].ID != collagen.ID {
		t.Errorf("description search returned %d products", len(byDescription))
	}

	none, err := productRepo.List(ctx, ProductFilter{Search: "creatine"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unmatched search returned %d products", len(none))
	}
}

func TestProductRepository_IncrementViews(t *testing.T) {
	truncateAll(t)
	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)
	ctx := context.Background()

	category := seedCategory(t, categoryRepo, "Vitamins", true, time.Now())
	product := seedProduct(t, productRepo, "Collagen Peptides", category.ID, time.Now())

	for want := int64(1); want <= 5; want++ {
		views, err := productRepo.IncrementViews(ctx, product.ID)
		if err != nil {
			t.Fatalf("IncrementViews: %v", err)
		}
		if views != want {
			t.Errorf("views = %d, want %d", views, want)
		}
	}

	stored, err := productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Views != 5 {
		t.Errorf("persisted views = %d, want 5", stored.Views)
	}

	if _, err := productRepo.IncrementViews(ctx, uuid.New()); err != ErrProductNotFound {
		t.Errorf("unknown id: got %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_DanglingCategoryReference(t *testing.T) {
	truncateAll(t)
	productRepo := NewProductRepository(testDB)
	categoryRepo := NewCategoryRepository(testDB)
	ctx := context.Background()

	category := seedCategory(t, categoryRepo, "Vitamins", true, time.Now())
	product := seedProduct(t, productRepo, "Collagen Peptides", category.ID, time.Now())

	// No foreign key, so the category row can go away from under the
	// product.
	if err := categoryRepo.Delete(ctx, category.ID); err != nil {
		t.Fatalf("Delete category: %v", err)
	}

	stored, err := productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID after category deletion: %v", err)
	}
	if stored.CategoryID != category.ID {
		t.Errorf("categoryID = %s, want the dangling reference kept", stored.CategoryID)
	}
	if stored.CategoryRef != nil {
		t.Errorf("categoryRef = %v, want nil", stored.CategoryRef)
	}

	listed, err := productRepo.List(ctx, ProductFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("listed %d products, want the orphan included", len(listed))
	}
}
