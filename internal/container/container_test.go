package container

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"storefront/catalog/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	imagesDir := filepath.Join(dir, "images")
	if err := os.Mkdir(imagesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(imagesDir, "drill.jpg"), []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}
	dataPath := filepath.Join(dir, "products.json")
	dataset := `[{"name": "Drill", "image_cover": "data/images/drill.jpg", "breadcrumbs": ["Tools", "Bosch"], "price": 10}]`
	if err := os.WriteFile(dataPath, []byte(dataset), 0o644); err != nil {
		t.Fatal(err)
	}

	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 0, Mode: "test", ShutdownTimeout: 1},
		Catalog: config.CatalogConfig{
			Source:       config.SourceFile,
			ProductsPath: dataPath,
			ImagesDir:    imagesDir,
			ImagesPrefix: "data/images/",
			ImageRoute:   "/images",
			CacheTTL:     300,
			Warmup:       true,
		},
	}
}

func TestExport(t *testing.T) {
	cfg := testConfig(t)
	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer app.Close()

	out := filepath.Join(t.TempDir(), "catalog.xlsx")
	if err := app.Export(context.Background(), out); err != nil {
		t.Fatalf("Export error: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows("Products")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][1] != "Drill" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	app, err := New(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if got := app.Service.Stats().Kept; got != 1 {
		t.Fatalf("warmup kept %d products want 1", got)
	}
}
