package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const migrationsDir = "../../migrations"

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(migrationsDir, name))
	if err != nil {
		t.Fatalf("Failed to read migration file %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_admins.sql",
		"00002_create_categories.sql",
		"00003_create_products.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content := readMigration(t, file.Name())

		if !strings.Contains(content, "-- +goose Up") {
			t.Errorf("Migration file %s missing '-- +goose Up' directive", file.Name())
		}
		if !strings.Contains(content, "-- +goose Down") {
			t.Errorf("Migration file %s missing '-- +goose Down' directive", file.Name())
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"admins":     "00001_create_admins.sql",
		"categories": "00002_create_categories.sql",
		"products":   "00003_create_products.sql",
	}

	for tableName, migrationFile := range expectedTables {
		content := readMigration(t, migrationFile)

		if !strings.Contains(content, "CREATE TABLE IF NOT EXISTS "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}
		if !strings.Contains(content, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestUniquenessIsEnforcedByIndexes(t *testing.T) {
	admins := readMigration(t, "00001_create_admins.sql")
	if !strings.Contains(admins, "admins_email_key") || !strings.Contains(admins, "LOWER(email)") {
		t.Error("Admins table must enforce case-insensitive email uniqueness")
	}

	categories := readMigration(t, "00002_create_categories.sql")
	if !strings.Contains(categories, "categories_name_key") {
		t.Error("Categories table must enforce name uniqueness")
	}
	if !strings.Contains(categories, "categories_slug_key") {
		t.Error("Categories table must enforce slug uniqueness")
	}
}

func TestProductsTableHasNoCategoryForeignKey(t *testing.T) {
	content := readMigration(t, "00003_create_products.sql")

	// Category references dangle on delete, so the schema must not enforce
	// referential integrity.
	if strings.Contains(content, "FOREIGN KEY") || strings.Contains(content, "REFERENCES categories") {
		t.Error("Products table must not carry a foreign key to categories")
	}

	if !strings.Contains(content, "USING GIN") || !strings.Contains(content, "to_tsvector") {
		t.Error("Products table must carry the full-text search index")
	}
	if !strings.Contains(content, "CHECK (price >= 0)") {
		t.Error("Products table must reject negative prices")
	}
	if !strings.Contains(content, "faqs JSONB") {
		t.Error("Products table must store faqs as JSONB")
	}
}
