package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/errs"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
)

type importFlow struct {
	baseFlow

	logger   *logger.Logger
	messages MessageService
	menu     MenuService
	apis     APIs
	importer ImportService
}

var _ FlowHandler = (*importFlow)(nil)

// ImportFlowOptions represents input options for new instance of import flow.
type ImportFlowOptions struct {
	Logger   *logger.Logger
	Messages MessageService
	Menu     MenuService
	APIs     APIs
	Importer ImportService
}

// NewImportFlow returns new instance of the budget import flow.
func NewImportFlow(opts *ImportFlowOptions) *importFlow {
	return &importFlow{
		logger:   opts.Logger,
		messages: opts.Messages,
		menu:     opts.Menu,
		apis:     opts.APIs,
		importer: opts.Importer,
	}
}

const (
	importMenuLabel = "📊 Importa budget"

	importMinYear = 2020
	importMaxYear = 2100

	importMaxFileSize = 10 << 20 // 10 MB

	importMaxWarningsShown = 10
	importMaxErrorsShown   = 5
)

func (i *importFlow) MenuLabel() string {
	return importMenuLabel
}

func (i *importFlow) MatchesMenuCommand(text string) bool {
	return text == importMenuLabel
}

func (i *importFlow) StartFromMenu(_ context.Context, _ Update, state *model.State) error {
	state.StartFlow(model.ImportFlow, model.EnterImportYearStep, &model.ImportFlowData{})

	return i.promptYear(state)
}

func (i *importFlow) promptYear(state *model.State) error {
	state.Step = model.EnterImportYearStep

	return i.messages.Prompt(state, "📅 Per quale anno vuoi importare il budget? (es. 2026)", []InlineKeyboardRow{backInlineRow()})
}

func (i *importFlow) promptUpload(state *model.State, year int) error {
	state.Step = model.UploadImportFileStep

	text := fmt.Sprintf("📎 Inviami il file .xlsx con il budget %d (max 10 MB).", year)
	return i.messages.Prompt(state, text, []InlineKeyboardRow{backInlineRow()})
}

func (i *importFlow) MatchesTextInput(state *model.State) bool {
	return state.Flow == model.ImportFlow && state.Step == model.EnterImportYearStep
}

func (i *importFlow) HandleTextInput(_ context.Context, update Update, state *model.State) error {
	year, err := strconv.Atoi(strings.TrimSpace(update.GetText()))
	if err != nil || year < importMinYear || year > importMaxYear {
		return errs.New(fmt.Sprintf("Anno non valido. Inserisci un anno tra %d e %d:", importMinYear, importMaxYear))
	}

	flowData, ok := model.FlowDataAs[*model.ImportFlowData](state)
	if !ok {
		flowData = &model.ImportFlowData{}
		state.FlowData = flowData
	}
	flowData.Year = year

	i.messages.DeleteUserMessage(state.ChatID, update.GetMessageID())

	return i.promptUpload(state, year)
}

func (i *importFlow) MatchesDocument(state *model.State) bool {
	return state.Flow == model.ImportFlow && state.Step == model.UploadImportFileStep
}

func (i *importFlow) HandleDocument(ctx context.Context, update Update, state *model.State) error {
	logger := i.logger.With().Str("name", "importFlow.HandleDocument").Logger()

	document := update.GetDocument()
	if document == nil {
		return nil
	}

	// Validation happens before any download or parse attempt.
	if !strings.EqualFold(filepath.Ext(document.FileName), ".xlsx") {
		return errs.New("Formato non valido. Inviami un file .xlsx:")
	}
	if document.FileSize > importMaxFileSize {
		return errs.New("Il file è troppo grande. Massimo 10 MB:")
	}

	flowData, ok := model.FlowDataAs[*model.ImportFlowData](state)
	if !ok || flowData.Year == 0 {
		logger.Warn().Msg("missing target year in flow data")

		return i.promptYear(state)
	}

	file, err := i.apis.Messenger.DownloadDocument(document.FileID)
	if err != nil {
		logger.Error().Err(err).Str("fileID", document.FileID).Msg("download document")
		return fmt.Errorf("download document: %w", err)
	}

	result, err := i.importer.ImportBudgets(ctx, file, flowData.Year)
	if err != nil {
		if errs.IsExpected(err) {
			// An unreadable file keeps the user at the upload step.
			return err
		}

		logger.Error().Err(err).Msg("import budgets")
		return fmt.Errorf("import budgets: %w", err)
	}

	logger.Info().
		Int("year", flowData.Year).
		Int("categories", result.CategoriesCreated).
		Int("subcategories", result.SubCategoriesCreated).
		Int("tags", result.TagsCreated).
		Int("budgets", result.BudgetsCreated).
		Msg("budgets imported")

	report := renderImportReport(flowData.Year, result)

	// State resets regardless of partial warnings.
	state.Reset()
	return i.menu.ShowMainMenu(state, report)
}

func renderImportReport(year int, result *ImportResult) string {
	var report strings.Builder

	fmt.Fprintf(&report, "📥 Importazione %d completata!\n", year)
	fmt.Fprintf(&report, "📂 Categorie create: %d\n", result.CategoriesCreated)
	fmt.Fprintf(&report, "🗂 Sottocategorie create: %d\n", result.SubCategoriesCreated)
	fmt.Fprintf(&report, "🏷 Tag creati: %d\n", result.TagsCreated)
	fmt.Fprintf(&report, "💰 Budget creati: %d", result.BudgetsCreated)

	if len(result.Warnings) != 0 {
		report.WriteString("\n\n⚠️ Avvisi:")
		for _, warning := range capList(result.Warnings, importMaxWarningsShown) {
			report.WriteString("\n• " + warning)
		}
	}

	if len(result.Errors) != 0 {
		report.WriteString("\n\n❌ Errori:")
		for _, importError := range capList(result.Errors, importMaxErrorsShown) {
			report.WriteString("\n• " + importError)
		}
	}

	return report.String()
}

// capList bounds a preview list to max items, replacing the overflow
// with a single counter line.
func capList(items []string, max int) []string {
	if len(items) <= max {
		return items
	}

	capped := make([]string, 0, max+1)
	capped = append(capped, items[:max]...)
	capped = append(capped, fmt.Sprintf("… e altri %d", len(items)-max))

	return capped
}

func (i *importFlow) MatchesBack(state *model.State) bool {
	return state.Flow == model.ImportFlow
}

func (i *importFlow) HandleBack(_ context.Context, _ Update, state *model.State) (bool, error) {
	switch state.Step {
	case model.EnterImportYearStep:
		return false, nil

	case model.UploadImportFileStep:
		return true, i.promptYear(state)
	}

	return false, nil
}
