package importer

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/internal/service"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/errs"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
)

var testLogger = logger.New(logger.Options{LogLevel: "error"})

// buildSpreadsheet renders rows into an xlsx body. The first row is
// expected to be the header.
func buildSpreadsheet(t *testing.T, rows [][]string) []byte {
	t.Helper()

	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, workbook.SetCellValue(sheet, cell, value))
		}
	}

	var buffer bytes.Buffer
	require.NoError(t, workbook.Write(&buffer))
	require.NoError(t, workbook.Close())

	return buffer.Bytes()
}

func header() []string {
	return []string{
		"Categoria", "Sottocategoria", "Tag",
		"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
		"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
	}
}

// storesFake backs the importer with in-memory slices.
type storesFake struct {
	mu sync.Mutex

	categories    []model.Category
	subCategories []model.SubCategory
	tags          []model.Tag
	budgets       []model.Budget
}

func newStoresFake() *storesFake {
	return &storesFake{}
}

func (f *storesFake) stores() service.Stores {
	return service.Stores{
		Category:    categoryStoreFake{f},
		SubCategory: subCategoryStoreFake{f},
		Tag:         tagStoreFake{f},
		Budget:      budgetStoreFake{f},
	}
}

type categoryStoreFake struct{ *storesFake }

func (f categoryStoreFake) List(context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]model.Category(nil), f.categories...), nil
}

func (f categoryStoreFake) Get(_ context.Context, filter service.GetCategoryFilter) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, category := range f.categories {
		if filter.ID != "" && category.ID == filter.ID {
			return &category, nil
		}
		if filter.Name != "" && strings.EqualFold(category.Name, filter.Name) {
			return &category, nil
		}
	}

	return nil, nil
}

func (f categoryStoreFake) CreateIfNotExists(_ context.Context, category *model.Category) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return false, nil
		}
	}

	f.categories = append(f.categories, *category)
	return true, nil
}

type subCategoryStoreFake struct{ *storesFake }

func (f subCategoryStoreFake) List(_ context.Context, categoryID string) ([]model.SubCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []model.SubCategory
	for _, subCategory := range f.subCategories {
		if subCategory.CategoryID == categoryID {
			result = append(result, subCategory)
		}
	}

	return result, nil
}

func (f subCategoryStoreFake) Get(_ context.Context, filter service.GetSubCategoryFilter) (*model.SubCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, subCategory := range f.subCategories {
		if filter.ID != "" && subCategory.ID == filter.ID {
			return &subCategory, nil
		}
		if filter.Name != "" && strings.EqualFold(subCategory.Name, filter.Name) &&
			(filter.CategoryID == "" || subCategory.CategoryID == filter.CategoryID) {
			return &subCategory, nil
		}
	}

	return nil, nil
}

func (f subCategoryStoreFake) CreateIfNotExists(_ context.Context, subCategory *model.SubCategory) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.subCategories {
		if existing.CategoryID == subCategory.CategoryID && strings.EqualFold(existing.Name, subCategory.Name) {
			return false, nil
		}
	}

	f.subCategories = append(f.subCategories, *subCategory)
	return true, nil
}

type tagStoreFake struct{ *storesFake }

func (f tagStoreFake) List(_ context.Context, subCategoryID string) ([]model.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []model.Tag
	for _, tag := range f.tags {
		if tag.SubCategoryID == subCategoryID {
			result = append(result, tag)
		}
	}

	return result, nil
}

func (f tagStoreFake) Get(_ context.Context, tagID string) (*model.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, tag := range f.tags {
		if tag.ID == tagID {
			return &tag, nil
		}
	}

	return nil, nil
}

func (f tagStoreFake) CreateIfNotExists(_ context.Context, tag *model.Tag) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.tags {
		if existing.SubCategoryID == tag.SubCategoryID && strings.EqualFold(existing.Name, tag.Name) {
			return false, nil
		}
	}

	f.tags = append(f.tags, *tag)
	return true, nil
}

type budgetStoreFake struct{ *storesFake }

func (f budgetStoreFake) CreateIfNotExists(_ context.Context, budget *model.Budget) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.budgets {
		sameTag := (existing.TagID == nil) == (budget.TagID == nil)
		if sameTag && existing.TagID != nil {
			sameTag = *existing.TagID == *budget.TagID
		}

		if existing.SubCategoryID == budget.SubCategoryID && sameTag &&
			existing.Year == budget.Year && existing.Month == budget.Month {
			return false, nil
		}
	}

	f.budgets = append(f.budgets, *budget)
	return true, nil
}

func TestImporter_ImportBudgets(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("Should import taxonomy and budgets", func(t *testing.T) {
		t.Parallel()

		file := buildSpreadsheet(t, [][]string{
			header(),
			{"Cibo", "Spesa", "", "200", "210", "", "", "", "", "", "", "", "", "", "220"},
			{"Cibo", "Ristoranti", "Pranzo", "50,5", "", "", "", "", "", "", "", "", "", "", ""},
			{"Casa", "Affitto", "", "800", "800", "800", "800", "800", "800", "800", "800", "800", "800", "800", "800"},
		})

		storage := newStoresFake()
		result, err := New(testLogger, storage.stores()).ImportBudgets(ctx, file, 2026)
		require.NoError(t, err)

		assert.Equal(t, 2, result.CategoriesCreated)
		assert.Equal(t, 3, result.SubCategoriesCreated)
		assert.Equal(t, 1, result.TagsCreated)
		assert.Equal(t, 16, result.BudgetsCreated)
		assert.Empty(t, result.Warnings)
		assert.Empty(t, result.Errors)

		require.Len(t, storage.budgets, 16)
		for _, budget := range storage.budgets {
			assert.Equal(t, 2026, budget.Year)
		}

		// The tagged row produced a budget bound to its tag.
		require.Len(t, storage.tags, 1)
		var tagged int
		for _, budget := range storage.budgets {
			if budget.TagID != nil {
				tagged++
				assert.Equal(t, storage.tags[0].ID, *budget.TagID)
				assert.Equal(t, "50.50", budget.Amount)
			}
		}
		assert.Equal(t, 1, tagged)
	})

	t.Run("Should reuse existing taxonomy", func(t *testing.T) {
		t.Parallel()

		file := buildSpreadsheet(t, [][]string{
			header(),
			{"Cibo", "Spesa", "", "100", "", "", "", "", "", "", "", "", "", "", ""},
		})

		storage := newStoresFake()
		storage.categories = append(storage.categories, model.Category{ID: "cat-food", Name: "Cibo"})
		storage.subCategories = append(storage.subCategories, model.SubCategory{ID: "sub-groceries", CategoryID: "cat-food", Name: "Spesa"})

		result, err := New(testLogger, storage.stores()).ImportBudgets(ctx, file, 2026)
		require.NoError(t, err)

		assert.Equal(t, 0, result.CategoriesCreated)
		assert.Equal(t, 0, result.SubCategoriesCreated)
		assert.Equal(t, 1, result.BudgetsCreated)

		require.Len(t, storage.budgets, 1)
		assert.Equal(t, "sub-groceries", storage.budgets[0].SubCategoryID)
	})

	t.Run("Should warn on unparsable amounts", func(t *testing.T) {
		t.Parallel()

		file := buildSpreadsheet(t, [][]string{
			header(),
			{"Cibo", "Spesa", "", "abc", "210", "", "", "", "", "", "", "", "", "", ""},
		})

		storage := newStoresFake()
		result, err := New(testLogger, storage.stores()).ImportBudgets(ctx, file, 2026)
		require.NoError(t, err)

		assert.Equal(t, 1, result.BudgetsCreated)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "riga 2, Gennaio")
	})

	t.Run("Should report rows missing category or subcategory", func(t *testing.T) {
		t.Parallel()

		file := buildSpreadsheet(t, [][]string{
			header(),
			{"", "Spesa", "", "100", "", "", "", "", "", "", "", "", "", "", ""},
			{"Cibo", "", "", "100", "", "", "", "", "", "", "", "", "", "", ""},
			{"Cibo", "Spesa", "", "100", "", "", "", "", "", "", "", "", "", "", ""},
		})

		storage := newStoresFake()
		result, err := New(testLogger, storage.stores()).ImportBudgets(ctx, file, 2026)
		require.NoError(t, err)

		require.Len(t, result.Errors, 2)
		assert.Contains(t, result.Errors[0], "riga 2")
		assert.Contains(t, result.Errors[1], "riga 3")

		// The valid row was still imported.
		assert.Equal(t, 1, result.BudgetsCreated)
	})

	t.Run("Should skip fully empty rows silently", func(t *testing.T) {
		t.Parallel()

		file := buildSpreadsheet(t, [][]string{
			header(),
			{"", "", "", "", "", "", "", "", "", "", "", "", "", "", ""},
			{"Cibo", "Spesa", "", "100", "", "", "", "", "", "", "", "", "", "", ""},
		})

		storage := newStoresFake()
		result, err := New(testLogger, storage.stores()).ImportBudgets(ctx, file, 2026)
		require.NoError(t, err)

		assert.Empty(t, result.Errors)
		assert.Equal(t, 1, result.BudgetsCreated)
	})

	t.Run("Should warn on duplicate budget rows", func(t *testing.T) {
		t.Parallel()

		file := buildSpreadsheet(t, [][]string{
			header(),
			{"Cibo", "Spesa", "", "100", "", "", "", "", "", "", "", "", "", "", ""},
			{"Cibo", "Spesa", "", "150", "", "", "", "", "", "", "", "", "", "", ""},
		})

		storage := newStoresFake()
		result, err := New(testLogger, storage.stores()).ImportBudgets(ctx, file, 2026)
		require.NoError(t, err)

		assert.Equal(t, 1, result.BudgetsCreated)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "già presente")
	})

	t.Run("Should reject a file that is not a spreadsheet", func(t *testing.T) {
		t.Parallel()

		storage := newStoresFake()
		_, err := New(testLogger, storage.stores()).ImportBudgets(ctx, []byte("not an xlsx"), 2026)

		require.Error(t, err)
		assert.True(t, errs.IsExpected(err))
	})
}
