package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"storefront/catalog/internal/domain"
)

const (
	productsSheet   = "Products"
	categoriesSheet = "Categories"
)

var productHeaders = []string{"id", "name", "category", "brand", "price", "priceOld", "image"}

// WriteCatalog saves a workbook with a Products sheet and a Categories sheet to outputPath.
func WriteCatalog(products []domain.Product, categories []domain.CategoryCount, outputPath string) error {
	f, err := buildWorkbook(products, categories)
	if err != nil {
		return err
	}
	defer f.Close()

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", outputPath, err)
	}
	return nil
}

func buildWorkbook(products []domain.Product, categories []domain.CategoryCount) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := fillWorkbook(f, products, categories); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fillWorkbook(f *excelize.File, products []domain.Product, categories []domain.CategoryCount) error {
	if err := f.SetSheetName(f.GetSheetName(0), productsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	header := make([]any, len(productHeaders))
	for i, h := range productHeaders {
		header[i] = h
	}
	if err := setRow(f, productsSheet, 1, header...); err != nil {
		return err
	}
	for i := range products {
		p := &products[i]
		err := setRow(f, productsSheet, i+2,
			p.ID, p.Name, p.Category, p.Brand(), derefFloat(p.Price), derefFloat(p.PriceOld), p.Image)
		if err != nil {
			return err
		}
	}

	if err := setRow(f, categoriesSheet, 1, "name", "count"); err != nil {
		return err
	}
	for i, c := range categories {
		if err := setRow(f, categoriesSheet, i+2, c.Name, c.Count); err != nil {
			return err
		}
	}
	return nil
}

// setRow writes values into consecutive cells of row, starting at column A.
func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, v := range values {
		if err := setCell(f, sheet, i+1, row, v); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell %s(%d,%d): %w", sheet, col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
