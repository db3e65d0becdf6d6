package importer

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/internal/service"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/errs"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/money"
)

type importer struct {
	logger *logger.Logger
	stores service.Stores
}

var _ service.ImportService = (*importer)(nil)

// New returns new instance of the budget spreadsheet importer.
func New(logger *logger.Logger, stores service.Stores) *importer {
	return &importer{
		logger: logger,
		stores: stores,
	}
}

// monthNames are the expected month column headers, in column order
// after the three taxonomy columns.
var monthNames = []string{
	"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
	"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
}

const taxonomyColumns = 3 // Categoria | Sottocategoria | Tag

// ImportBudgets parses a budget spreadsheet and creates the taxonomy
// and budgets it describes for the target year. Each data row carries a
// category, a subcategory, an optional tag and up to twelve monthly
// amounts. Taxonomy creation is idempotent, existing entries are reused.
func (i *importer) ImportBudgets(ctx context.Context, file []byte, year int) (*service.ImportResult, error) {
	logger := i.logger.With().Str("name", "importer.ImportBudgets").Logger()

	workbook, err := excelize.OpenReader(bytes.NewReader(file))
	if err != nil {
		logger.Warn().Err(err).Msg("open spreadsheet")
		return nil, errs.New("Non riesco a leggere il file. Assicurati che sia un .xlsx valido.")
	}
	defer func() {
		err := workbook.Close()
		if err != nil {
			logger.Debug().Err(err).Msg("close workbook")
		}
	}()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, errs.New("Il file non contiene fogli.")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		logger.Error().Err(err).Str("sheet", sheets[0]).Msg("read sheet rows")
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}

	result := &service.ImportResult{}

	for idx, row := range rows {
		// The first row is the header.
		if idx == 0 {
			continue
		}
		rowNum := idx + 1

		categoryName := cellAt(row, 0)
		subCategoryName := cellAt(row, 1)
		tagName := cellAt(row, 2)

		if isEmptyRow(row) {
			continue
		}

		if categoryName == "" || subCategoryName == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("riga %d: categoria o sottocategoria mancante", rowNum))
			continue
		}

		subCategoryID, tagID, err := i.ensureTaxonomy(ctx, categoryName, subCategoryName, tagName, result)
		if err != nil {
			return nil, err
		}

		for month := 1; month <= 12; month++ {
			rawAmount := cellAt(row, taxonomyColumns+month-1)
			if rawAmount == "" {
				continue
			}

			amount, err := money.ParseAmount(rawAmount)
			if err != nil {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("riga %d, %s: importo %q non valido", rowNum, monthNames[month-1], rawAmount))
				continue
			}

			budget := &model.Budget{
				ID:            uuid.NewString(),
				SubCategoryID: subCategoryID,
				TagID:         tagID,
				Year:          year,
				Month:         month,
				Amount:        amount.String(),
			}

			created, err := i.stores.Budget.CreateIfNotExists(ctx, budget)
			if err != nil {
				logger.Error().Err(err).Any("budget", budget).Msg("create budget in store")
				return nil, fmt.Errorf("create budget in store: %w", err)
			}
			if !created {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("riga %d, %s: budget già presente, saltato", rowNum, monthNames[month-1]))
				continue
			}

			result.BudgetsCreated++
		}
	}

	logger.Info().
		Int("year", year).
		Int("budgetsCreated", result.BudgetsCreated).
		Int("warnings", len(result.Warnings)).
		Int("errors", len(result.Errors)).
		Msg("spreadsheet import finished")

	return result, nil
}

func (i *importer) ensureTaxonomy(ctx context.Context, categoryName, subCategoryName, tagName string, result *service.ImportResult) (subCategoryID string, tagID *string, err error) {
	categoryID, created, err := i.ensureCategory(ctx, categoryName)
	if err != nil {
		return "", nil, err
	}
	if created {
		result.CategoriesCreated++
	}

	subCategoryID, created, err = i.ensureSubCategory(ctx, categoryID, subCategoryName)
	if err != nil {
		return "", nil, err
	}
	if created {
		result.SubCategoriesCreated++
	}

	if tagName == "" {
		return subCategoryID, nil, nil
	}

	id, created, err := i.ensureTag(ctx, subCategoryID, tagName)
	if err != nil {
		return "", nil, err
	}
	if created {
		result.TagsCreated++
	}

	return subCategoryID, &id, nil
}

func (i *importer) ensureCategory(ctx context.Context, name string) (string, bool, error) {
	category, err := i.stores.Category.Get(ctx, service.GetCategoryFilter{Name: name})
	if err != nil {
		return "", false, fmt.Errorf("get category from store: %w", err)
	}
	if category != nil {
		return category.ID, false, nil
	}

	candidate := &model.Category{
		ID:   uuid.NewString(),
		Name: name,
	}

	created, err := i.stores.Category.CreateIfNotExists(ctx, candidate)
	if err != nil {
		return "", false, fmt.Errorf("create category in store: %w", err)
	}
	if !created {
		// Lost a race against a concurrent create, reuse the winner.
		existing, err := i.stores.Category.Get(ctx, service.GetCategoryFilter{Name: name})
		if err != nil || existing == nil {
			return "", false, fmt.Errorf("get category after conflicting create: %w", err)
		}
		return existing.ID, false, nil
	}

	return candidate.ID, true, nil
}

func (i *importer) ensureSubCategory(ctx context.Context, categoryID, name string) (string, bool, error) {
	subCategory, err := i.stores.SubCategory.Get(ctx, service.GetSubCategoryFilter{Name: name, CategoryID: categoryID})
	if err != nil {
		return "", false, fmt.Errorf("get subcategory from store: %w", err)
	}
	if subCategory != nil {
		return subCategory.ID, false, nil
	}

	candidate := &model.SubCategory{
		ID:         uuid.NewString(),
		CategoryID: categoryID,
		Name:       name,
	}

	created, err := i.stores.SubCategory.CreateIfNotExists(ctx, candidate)
	if err != nil {
		return "", false, fmt.Errorf("create subcategory in store: %w", err)
	}
	if !created {
		existing, err := i.stores.SubCategory.Get(ctx, service.GetSubCategoryFilter{Name: name, CategoryID: categoryID})
		if err != nil || existing == nil {
			return "", false, fmt.Errorf("get subcategory after conflicting create: %w", err)
		}
		return existing.ID, false, nil
	}

	return candidate.ID, true, nil
}

func (i *importer) ensureTag(ctx context.Context, subCategoryID, name string) (string, bool, error) {
	tags, err := i.stores.Tag.List(ctx, subCategoryID)
	if err != nil {
		return "", false, fmt.Errorf("list tags from store: %w", err)
	}
	for _, tag := range tags {
		if strings.EqualFold(tag.Name, name) {
			return tag.ID, false, nil
		}
	}

	candidate := &model.Tag{
		ID:            uuid.NewString(),
		SubCategoryID: subCategoryID,
		Name:          name,
	}

	created, err := i.stores.Tag.CreateIfNotExists(ctx, candidate)
	if err != nil {
		return "", false, fmt.Errorf("create tag in store: %w", err)
	}
	if !created {
		return "", false, fmt.Errorf("tag %q conflicted after lookup", name)
	}

	return candidate.ID, true, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
