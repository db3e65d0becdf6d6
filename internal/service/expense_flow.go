package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/errs"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/money"
)

type expenseFlow struct {
	baseFlow

	logger   *logger.Logger
	messages MessageService
	menu     MenuService
	stores   Stores

	datePickerURL string
}

var _ FlowHandler = (*expenseFlow)(nil)

// ExpenseFlowOptions represents input options for new instance of expense flow.
type ExpenseFlowOptions struct {
	Logger   *logger.Logger
	Messages MessageService
	Menu     MenuService
	Stores   Stores

	DatePickerURL string
}

// NewExpenseFlow returns new instance of the insert expense flow.
func NewExpenseFlow(opts *ExpenseFlowOptions) *expenseFlow {
	return &expenseFlow{
		logger:        opts.Logger,
		messages:      opts.Messages,
		menu:          opts.Menu,
		stores:        opts.Stores,
		datePickerURL: opts.DatePickerURL,
	}
}

const (
	expenseMenuLabel = "💸 Nuova spesa"

	categoriesPerKeyboardRow    = 2
	subCategoriesPerKeyboardRow = 2
	tagsPerKeyboardRow          = 3
)

func (e *expenseFlow) MenuLabel() string {
	return expenseMenuLabel
}

func (e *expenseFlow) MatchesMenuCommand(text string) bool {
	return text == expenseMenuLabel
}

func (e *expenseFlow) StartFromMenu(ctx context.Context, _ Update, state *model.State) error {
	state.StartFlow(model.ExpenseFlow, model.SelectCategoryStep, &model.ExpenseFlowData{})

	return e.promptCategories(ctx, state, "Scegli la categoria:")
}

func (e *expenseFlow) promptCategories(ctx context.Context, state *model.State, text string) error {
	logger := e.logger.With().Str("name", "expenseFlow.promptCategories").Logger()

	categories, err := e.stores.Category.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("list categories from store")
		return fmt.Errorf("list categories from store: %w", err)
	}
	if len(categories) == 0 {
		logger.Info().Msg("no categories found")

		state.Reset()
		return e.messages.Prompt(state, "Non ci sono ancora categorie.\nCreane una dalle Impostazioni. ⚙️", nil)
	}

	state.Step = model.SelectCategoryStep
	keyboard := withBackRow(inlineKeyboardRowsFrom(categories, model.CategoryCallback, categoriesPerKeyboardRow))

	return e.messages.Prompt(state, text, keyboard)
}

func (e *expenseFlow) promptSubCategories(ctx context.Context, state *model.State, text string) error {
	logger := e.logger.With().Str("name", "expenseFlow.promptSubCategories").Logger()

	subCategories, err := e.stores.SubCategory.List(ctx, state.SelectedCategoryID)
	if err != nil {
		logger.Error().Err(err).Msg("list subcategories from store")
		return fmt.Errorf("list subcategories from store: %w", err)
	}
	if len(subCategories) == 0 {
		logger.Info().Str("categoryID", state.SelectedCategoryID).Msg("category has no subcategories")

		return e.promptCategories(ctx, state, "La categoria non ha sottocategorie.\nScegline un'altra:")
	}

	state.Step = model.SelectSubCategoryStep
	keyboard := withBackRow(inlineKeyboardRowsFrom(subCategories, model.SubCategoryCallback, subCategoriesPerKeyboardRow))

	return e.messages.Prompt(state, text, keyboard)
}

func (e *expenseFlow) promptTags(ctx context.Context, state *model.State) (tagStepShown bool, err error) {
	logger := e.logger.With().Str("name", "expenseFlow.promptTags").Logger()

	tags, err := e.stores.Tag.List(ctx, state.SelectedSubCategoryID)
	if err != nil {
		logger.Error().Err(err).Msg("list tags from store")
		return false, fmt.Errorf("list tags from store: %w", err)
	}

	// A subcategory with zero tags skips tag selection entirely.
	if len(tags) == 0 {
		return false, nil
	}

	state.Step = model.SelectTagStep

	keyboard := inlineKeyboardRowsFrom(tags, model.TagCallback, tagsPerKeyboardRow)
	keyboard = append(keyboard, InlineKeyboardRow{
		Buttons: []InlineKeyboardButton{
			{Text: "➡️ Senza tag", Data: callbackData(model.TagCallback, model.TagSkipPayload)},
		},
	})
	keyboard = withBackRow(keyboard)

	text := fmt.Sprintf("%s > %s\nScegli un tag:", state.SelectedCategoryName, state.SelectedSubCategoryName)
	return true, e.messages.Prompt(state, text, keyboard)
}

func (e *expenseFlow) promptDescription(state *model.State) error {
	state.Step = model.EnterDescriptionStep

	text := fmt.Sprintf("%s > %s\n✏️ Scrivi una descrizione della spesa:", state.SelectedCategoryName, state.SelectedSubCategoryName)
	return e.messages.Prompt(state, text, []InlineKeyboardRow{backInlineRow()})
}

func (e *expenseFlow) promptAmount(state *model.State) error {
	state.Step = model.EnterAmountStep

	return e.messages.Prompt(state, "💶 Inserisci l'importo (es. 12,50):", []InlineKeyboardRow{backInlineRow()})
}

func (e *expenseFlow) promptDate(state *model.State) error {
	state.Step = model.SelectDateStep

	rows := []KeyboardRow{
		{Buttons: []KeyboardButton{{Text: model.BotTodayButton}}},
		{Buttons: []KeyboardButton{{Text: model.BotDatePickerButton, WebAppURL: e.datePickerURL}}},
		{Buttons: []KeyboardButton{{Text: model.BotBackButton}}},
	}

	return e.messages.SendWithReplyKeyboard(state, "📅 Quando hai fatto la spesa?", rows)
}

func (e *expenseFlow) MatchesCallback(name string, state *model.State) bool {
	if state.Flow != model.ExpenseFlow {
		return false
	}

	switch name {
	case model.CategoryCallback:
		return state.Step == model.SelectCategoryStep
	case model.SubCategoryCallback:
		return state.Step == model.SelectSubCategoryStep
	case model.TagCallback:
		return state.Step == model.SelectTagStep
	default:
		return false
	}
}

func (e *expenseFlow) HandleCallback(ctx context.Context, _ Update, name, payload string, state *model.State) error {
	logger := e.logger.With().Str("name", "expenseFlow.HandleCallback").Logger()

	switch name {
	case model.CategoryCallback:
		category, err := e.stores.Category.Get(ctx, GetCategoryFilter{ID: payload})
		if err != nil {
			logger.Error().Err(err).Msg("get category from store")
			return fmt.Errorf("get category from store: %w", err)
		}
		if category == nil {
			logger.Warn().Str("categoryID", payload).Msg("category not found")

			return e.promptCategories(ctx, state, "La categoria non esiste più. 😕\nScegline un'altra:")
		}

		state.SelectedCategoryID = category.ID
		state.SelectedCategoryName = category.GetName()

		text := fmt.Sprintf("%s\nScegli la sottocategoria:", state.SelectedCategoryName)
		return e.promptSubCategories(ctx, state, text)

	case model.SubCategoryCallback:
		subCategory, err := e.stores.SubCategory.Get(ctx, GetSubCategoryFilter{ID: payload})
		if err != nil {
			logger.Error().Err(err).Msg("get subcategory from store")
			return fmt.Errorf("get subcategory from store: %w", err)
		}
		if subCategory == nil {
			logger.Warn().Str("subCategoryID", payload).Msg("subcategory not found")

			return e.promptCategories(ctx, state, "La sottocategoria non esiste più. 😕\nRipartiamo dalla categoria:")
		}

		state.SelectedSubCategoryID = subCategory.ID
		state.SelectedSubCategoryName = subCategory.GetName()

		tagStepShown, err := e.promptTags(ctx, state)
		if err != nil {
			return err
		}
		if tagStepShown {
			return nil
		}

		if flowData, ok := model.FlowDataAs[*model.ExpenseFlowData](state); ok {
			flowData.TagStepSkipped = true
		}
		return e.promptDescription(state)

	case model.TagCallback:
		if payload != model.TagSkipPayload {
			tag, err := e.stores.Tag.Get(ctx, payload)
			if err != nil {
				logger.Error().Err(err).Msg("get tag from store")
				return fmt.Errorf("get tag from store: %w", err)
			}
			if tag == nil {
				logger.Warn().Str("tagID", payload).Msg("tag not found")

				_, err := e.promptTags(ctx, state)
				return err
			}

			state.SelectedTagID = tag.ID
			state.SelectedTagName = tag.GetName()
		}

		return e.promptDescription(state)
	}

	return nil
}

func (e *expenseFlow) MatchesTextInput(state *model.State) bool {
	if state.Flow != model.ExpenseFlow {
		return false
	}

	switch state.Step {
	case model.EnterDescriptionStep, model.EnterAmountStep, model.SelectDateStep:
		return true
	default:
		return false
	}
}

func (e *expenseFlow) HandleTextInput(ctx context.Context, update Update, state *model.State) error {
	switch state.Step {
	case model.EnterDescriptionStep:
		description := strings.TrimSpace(update.GetText())
		if description == "" {
			return errs.New("La descrizione non può essere vuota. Riprova:")
		}

		state.Description = description
		e.messages.DeleteUserMessage(state.ChatID, update.GetMessageID())

		return e.promptAmount(state)

	case model.EnterAmountStep:
		amount, err := money.ParseAmount(update.GetText())
		if err != nil {
			// The raw invalid input is not persisted and no transition occurs.
			return errs.New("Importo non valido. Inserisci un numero positivo (es. 12,50):")
		}

		state.Amount = amount.String()
		e.messages.DeleteUserMessage(state.ChatID, update.GetMessageID())

		return e.promptDate(state)

	case model.SelectDateStep:
		if update.GetText() != model.BotTodayButton {
			return errs.New("Usa i pulsanti qui sotto per scegliere la data. 📅")
		}

		return e.saveExpense(ctx, state, time.Now())
	}

	return nil
}

func (e *expenseFlow) MatchesWebAppPayload(state *model.State) bool {
	return state.Flow == model.ExpenseFlow && state.Step == model.SelectDateStep
}

func (e *expenseFlow) HandleWebAppPayload(ctx context.Context, _ Update, payload string, state *model.State) error {
	date, err := parseDatePickerPayload(payload)
	if err != nil {
		e.logger.Warn().Err(err).Str("payload", payload).Msg("parse date picker payload")
		return errs.New("Data non valida. Riprova con il calendario. 📅")
	}

	return e.saveExpense(ctx, state, date)
}

// datePickerDateLayout is the date format the external date picker web
// app sends back.
const datePickerDateLayout = "2006-01-02"

func parseDatePickerPayload(payload string) (time.Time, error) {
	var structured struct {
		Date string `json:"date"`
	}

	raw := strings.TrimSpace(payload)
	if err := json.Unmarshal([]byte(raw), &structured); err == nil && structured.Date != "" {
		raw = structured.Date
	}

	return time.Parse(datePickerDateLayout, raw)
}

func (e *expenseFlow) saveExpense(ctx context.Context, state *model.State, date time.Time) error {
	logger := e.logger.With().Str("name", "expenseFlow.saveExpense").Logger()

	state.SelectedDate = date

	expense := &model.Expense{
		ID:            uuid.NewString(),
		SubCategoryID: state.SelectedSubCategoryID,
		Amount:        state.Amount,
		Description:   state.Description,
		Performer:     state.Username,
		SpentAt:       date,
	}
	if state.SelectedTagID != "" {
		tagID := state.SelectedTagID
		expense.TagID = &tagID
	}

	err := e.stores.Expense.Create(ctx, expense)
	if err != nil {
		logger.Error().Err(err).Any("expense", expense).Msg("create expense in store")

		// Keep the state as is so the user can pick the date again and retry.
		return errs.New("❌ Non sono riuscito a salvare la spesa. Riprova tra poco.")
	}

	logger.Info().Any("expense", expense).Msg("expense created")

	var tagPart string
	if state.SelectedTagName != "" {
		tagPart = fmt.Sprintf(" [%s]", state.SelectedTagName)
	}

	confirmation := fmt.Sprintf(
		"✅ Spesa registrata!\n📂 %s > %s%s\n📝 %s\n💶 %s\n📅 %s",
		state.SelectedCategoryName,
		state.SelectedSubCategoryName,
		tagPart,
		state.Description,
		state.Amount,
		date.Format("02/01/2006"),
	)

	state.Reset()
	return e.menu.ShowMainMenu(state, confirmation)
}

func (e *expenseFlow) MatchesBack(state *model.State) bool {
	return state.Flow == model.ExpenseFlow
}

func (e *expenseFlow) HandleBack(ctx context.Context, _ Update, state *model.State) (bool, error) {
	switch state.Step {
	case model.SelectCategoryStep:
		// Delegate to the dispatcher's main menu fallback.
		return false, nil

	case model.SelectSubCategoryStep:
		state.SelectedCategoryID = ""
		state.SelectedCategoryName = ""

		return true, e.promptCategories(ctx, state, "Scegli la categoria:")

	case model.SelectTagStep:
		state.SelectedSubCategoryID = ""
		state.SelectedSubCategoryName = ""
		state.SelectedTagID = ""
		state.SelectedTagName = ""

		text := fmt.Sprintf("%s\nScegli la sottocategoria:", state.SelectedCategoryName)
		return true, e.promptSubCategories(ctx, state, text)

	case model.EnterDescriptionStep:
		state.SelectedTagID = ""
		state.SelectedTagName = ""

		if flowData, ok := model.FlowDataAs[*model.ExpenseFlowData](state); ok && flowData.TagStepSkipped {
			flowData.TagStepSkipped = false
			state.SelectedSubCategoryID = ""
			state.SelectedSubCategoryName = ""

			text := fmt.Sprintf("%s\nScegli la sottocategoria:", state.SelectedCategoryName)
			return true, e.promptSubCategories(ctx, state, text)
		}

		tagStepShown, err := e.promptTags(ctx, state)
		if err != nil {
			return true, err
		}
		if !tagStepShown {
			// The tags disappeared in the meantime, rewind one step further.
			state.SelectedSubCategoryID = ""
			state.SelectedSubCategoryName = ""

			text := fmt.Sprintf("%s\nScegli la sottocategoria:", state.SelectedCategoryName)
			return true, e.promptSubCategories(ctx, state, text)
		}
		return true, nil

	case model.EnterAmountStep:
		state.Description = ""

		return true, e.promptDescription(state)

	case model.SelectDateStep:
		state.Amount = ""

		return true, e.promptAmount(state)
	}

	return false, nil
}
