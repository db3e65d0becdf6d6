package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/errs"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
)

// SettingsSection is the contract every pluggable settings section
// implements. The settings flow polls its sections the same way the
// dispatcher polls flows, in registration order, first match wins.
type SettingsSection interface {
	// MenuEntries returns the inline buttons this section contributes to
	// the settings root menu.
	MenuEntries() []InlineKeyboardButton
	// MatchesCallback reports whether this section owns the current step
	// for a button callback with the given name.
	MatchesCallback(name string, state *model.State) bool
	// HandleCallback processes a button callback.
	HandleCallback(ctx context.Context, update Update, name, payload string, state *model.State) error
	// MatchesTextInput reports whether this section expects free text at
	// the current step.
	MatchesTextInput(state *model.State) bool
	// HandleTextInput processes a free text message.
	HandleTextInput(ctx context.Context, update Update, state *model.State) error
	// MatchesBack reports whether this section owns back navigation at
	// the current step.
	MatchesBack(state *model.State) bool
	// HandleBack rewinds the section state, returns false to delegate to
	// the settings root menu.
	HandleBack(ctx context.Context, update Update, state *model.State) (bool, error)
}

type settingsFlow struct {
	baseFlow

	logger   *logger.Logger
	messages MessageService

	sections []SettingsSection
}

var _ FlowHandler = (*settingsFlow)(nil)

// SettingsFlowOptions represents input options for new instance of settings flow.
type SettingsFlowOptions struct {
	Logger   *logger.Logger
	Messages MessageService
	Stores   Stores
}

// NewSettingsFlow returns new instance of the settings flow with the
// taxonomy management section registered.
func NewSettingsFlow(opts *SettingsFlowOptions) *settingsFlow {
	flow := &settingsFlow{
		logger:   opts.Logger,
		messages: opts.Messages,
	}

	flow.sections = []SettingsSection{
		newTaxonomySection(flow, opts.Stores),
	}

	return flow
}

const settingsMenuLabel = "⚙️ Impostazioni"

func (s *settingsFlow) MenuLabel() string {
	return settingsMenuLabel
}

func (s *settingsFlow) MatchesMenuCommand(text string) bool {
	return text == settingsMenuLabel
}

func (s *settingsFlow) StartFromMenu(_ context.Context, _ Update, state *model.State) error {
	state.StartFlow(model.SettingsFlow, model.SettingsMenuStep, &model.SettingsFlowData{})

	return s.promptSettingsMenu(state, "⚙️ Impostazioni\nCosa vuoi fare?")
}

func (s *settingsFlow) promptSettingsMenu(state *model.State, text string) error {
	state.Step = model.SettingsMenuStep
	state.FlowData = &model.SettingsFlowData{}

	rows := make([]InlineKeyboardRow, 0, len(s.sections)+1)
	for _, section := range s.sections {
		for _, entry := range section.MenuEntries() {
			rows = append(rows, InlineKeyboardRow{Buttons: []InlineKeyboardButton{entry}})
		}
	}
	rows = withBackRow(rows)

	return s.messages.Prompt(state, text, rows)
}

func (s *settingsFlow) MatchesCallback(name string, state *model.State) bool {
	if state.Flow != model.SettingsFlow {
		return false
	}

	for _, section := range s.sections {
		if section.MatchesCallback(name, state) {
			return true
		}
	}

	return false
}

func (s *settingsFlow) HandleCallback(ctx context.Context, update Update, name, payload string, state *model.State) error {
	for _, section := range s.sections {
		if section.MatchesCallback(name, state) {
			return section.HandleCallback(ctx, update, name, payload, state)
		}
	}

	return nil
}

func (s *settingsFlow) MatchesTextInput(state *model.State) bool {
	if state.Flow != model.SettingsFlow {
		return false
	}

	for _, section := range s.sections {
		if section.MatchesTextInput(state) {
			return true
		}
	}

	return false
}

func (s *settingsFlow) HandleTextInput(ctx context.Context, update Update, state *model.State) error {
	for _, section := range s.sections {
		if section.MatchesTextInput(state) {
			return section.HandleTextInput(ctx, update, state)
		}
	}

	return nil
}

func (s *settingsFlow) MatchesBack(state *model.State) bool {
	return state.Flow == model.SettingsFlow
}

func (s *settingsFlow) HandleBack(ctx context.Context, update Update, state *model.State) (bool, error) {
	for _, section := range s.sections {
		if section.MatchesBack(state) {
			handled, err := section.HandleBack(ctx, update, state)
			if err != nil {
				return true, err
			}
			if handled {
				return true, nil
			}

			return true, s.promptSettingsMenu(state, "⚙️ Impostazioni\nCosa vuoi fare?")
		}
	}

	// From the settings root menu back leads to the main menu.
	return false, nil
}

// taxonomySection manages categories, subcategories and their tags.
type taxonomySection struct {
	flow   *settingsFlow
	stores Stores
}

var _ SettingsSection = (*taxonomySection)(nil)

func newTaxonomySection(flow *settingsFlow, stores Stores) *taxonomySection {
	return &taxonomySection{
		flow:   flow,
		stores: stores,
	}
}

const (
	newCategoryPayload    = "new_category"
	newSubCategoryPayload = "new_subcategory"

	tagLoopAddPayload  = "add"
	tagLoopDonePayload = "done"
)

func (t *taxonomySection) MenuEntries() []InlineKeyboardButton {
	return []InlineKeyboardButton{
		{Text: "➕ Nuova categoria", Data: callbackData(model.SettingsCallback, newCategoryPayload)},
		{Text: "➕ Nuova sottocategoria", Data: callbackData(model.SettingsCallback, newSubCategoryPayload)},
	}
}

func (t *taxonomySection) MatchesCallback(name string, state *model.State) bool {
	switch name {
	case model.SettingsCallback:
		return state.Step == model.SettingsMenuStep
	case model.ParentCategoryCallback:
		return state.Step == model.ChooseParentCategoryStep
	case model.TagLoopCallback:
		return state.Step == model.TagLoopChoiceStep
	default:
		return false
	}
}

func (t *taxonomySection) HandleCallback(ctx context.Context, _ Update, name, payload string, state *model.State) error {
	logger := t.flow.logger.With().Str("name", "taxonomySection.HandleCallback").Logger()

	switch name {
	case model.SettingsCallback:
		switch payload {
		case newCategoryPayload:
			state.Step = model.EnterCategoryNameStep

			return t.flow.messages.Prompt(state, "✏️ Come si chiama la nuova categoria?", []InlineKeyboardRow{backInlineRow()})

		case newSubCategoryPayload:
			return t.promptParentCategories(ctx, state)
		}

		return nil

	case model.ParentCategoryCallback:
		category, err := t.stores.Category.Get(ctx, GetCategoryFilter{ID: payload})
		if err != nil {
			logger.Error().Err(err).Msg("get category from store")
			return fmt.Errorf("get category from store: %w", err)
		}
		if category == nil {
			logger.Warn().Str("categoryID", payload).Msg("category not found")

			return t.promptParentCategories(ctx, state)
		}

		flowData, ok := model.FlowDataAs[*model.SettingsFlowData](state)
		if !ok {
			flowData = &model.SettingsFlowData{}
			state.FlowData = flowData
		}
		flowData.ParentCategoryID = category.ID
		flowData.ParentCategoryName = category.GetName()

		state.Step = model.EnterSubCategoryNameStep
		text := fmt.Sprintf("✏️ Come si chiama la nuova sottocategoria di %s?", flowData.ParentCategoryName)

		return t.flow.messages.Prompt(state, text, []InlineKeyboardRow{backInlineRow()})

	case model.TagLoopCallback:
		switch payload {
		case tagLoopAddPayload:
			state.Step = model.EnterTagNameStep

			return t.flow.messages.Prompt(state, "✏️ Come si chiama il tag?", []InlineKeyboardRow{backInlineRow()})

		case tagLoopDonePayload:
			return t.finalizeSubCategory(state)
		}

		return nil
	}

	return nil
}

func (t *taxonomySection) promptParentCategories(ctx context.Context, state *model.State) error {
	logger := t.flow.logger.With().Str("name", "taxonomySection.promptParentCategories").Logger()

	categories, err := t.stores.Category.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("list categories from store")
		return fmt.Errorf("list categories from store: %w", err)
	}
	if len(categories) == 0 {
		logger.Info().Msg("no categories found")

		return t.flow.promptSettingsMenu(state, "Non ci sono ancora categorie.\nCrea prima una categoria. ⚙️")
	}

	state.Step = model.ChooseParentCategoryStep
	keyboard := withBackRow(inlineKeyboardRowsFrom(categories, model.ParentCategoryCallback, categoriesPerKeyboardRow))

	return t.flow.messages.Prompt(state, "Di quale categoria fa parte la nuova sottocategoria?", keyboard)
}

func (t *taxonomySection) tagLoopKeyboard() []InlineKeyboardRow {
	return []InlineKeyboardRow{
		{Buttons: []InlineKeyboardButton{
			{Text: "➕ Aggiungi un tag", Data: callbackData(model.TagLoopCallback, tagLoopAddPayload)},
			{Text: "✅ Fatto", Data: callbackData(model.TagLoopCallback, tagLoopDonePayload)},
		}},
	}
}

func (t *taxonomySection) finalizeSubCategory(state *model.State) error {
	flowData, _ := model.FlowDataAs[*model.SettingsFlowData](state)
	if flowData == nil {
		flowData = &model.SettingsFlowData{}
	}

	text := fmt.Sprintf(
		"✅ Sottocategoria %s > %s creata con %d tag.",
		flowData.ParentCategoryName, flowData.CreatedSubCategoryName, flowData.TagsAdded,
	)

	return t.flow.promptSettingsMenu(state, text)
}

func (t *taxonomySection) MatchesTextInput(state *model.State) bool {
	switch state.Step {
	case model.EnterCategoryNameStep, model.EnterSubCategoryNameStep, model.EnterTagNameStep:
		return true
	default:
		return false
	}
}

func (t *taxonomySection) HandleTextInput(ctx context.Context, update Update, state *model.State) error {
	logger := t.flow.logger.With().Str("name", "taxonomySection.HandleTextInput").Logger()

	name := strings.TrimSpace(update.GetText())
	if name == "" {
		return errs.New("Il nome non può essere vuoto. Riprova:")
	}
	t.flow.messages.DeleteUserMessage(state.ChatID, update.GetMessageID())

	switch state.Step {
	case model.EnterCategoryNameStep:
		category := &model.Category{
			ID:   uuid.NewString(),
			Name: name,
		}

		created, err := t.stores.Category.CreateIfNotExists(ctx, category)
		if err != nil {
			logger.Error().Err(err).Msg("create category in store")
			return fmt.Errorf("create category in store: %w", err)
		}

		text := fmt.Sprintf("✅ Categoria %s creata.", category.GetName())
		if !created {
			text = fmt.Sprintf("La categoria %s esiste già.", category.GetName())
		}

		return t.flow.promptSettingsMenu(state, text)

	case model.EnterSubCategoryNameStep:
		flowData, ok := model.FlowDataAs[*model.SettingsFlowData](state)
		if !ok || flowData.ParentCategoryID == "" {
			logger.Warn().Msg("missing parent category in flow data")

			return t.promptParentCategories(ctx, state)
		}

		subCategory := &model.SubCategory{
			ID:         uuid.NewString(),
			CategoryID: flowData.ParentCategoryID,
			Name:       name,
		}

		created, err := t.stores.SubCategory.CreateIfNotExists(ctx, subCategory)
		if err != nil {
			logger.Error().Err(err).Msg("create subcategory in store")
			return fmt.Errorf("create subcategory in store: %w", err)
		}
		if !created {
			text := fmt.Sprintf("La sottocategoria %s esiste già in %s.", subCategory.GetName(), flowData.ParentCategoryName)
			return t.flow.promptSettingsMenu(state, text)
		}

		flowData.CreatedSubCategoryID = subCategory.ID
		flowData.CreatedSubCategoryName = subCategory.GetName()
		flowData.TagsAdded = 0
		state.Step = model.TagLoopChoiceStep

		text := fmt.Sprintf("✅ Sottocategoria %s > %s creata.\nVuoi aggiungere dei tag?", flowData.ParentCategoryName, flowData.CreatedSubCategoryName)
		return t.flow.messages.Prompt(state, text, t.tagLoopKeyboard())

	case model.EnterTagNameStep:
		flowData, ok := model.FlowDataAs[*model.SettingsFlowData](state)
		if !ok || flowData.CreatedSubCategoryID == "" {
			logger.Warn().Msg("missing created subcategory in flow data")

			return t.flow.promptSettingsMenu(state, "Qualcosa è andato storto. 😕\nRiparti dalle impostazioni:")
		}

		tag := &model.Tag{
			ID:            uuid.NewString(),
			SubCategoryID: flowData.CreatedSubCategoryID,
			Name:          name,
		}

		created, err := t.stores.Tag.CreateIfNotExists(ctx, tag)
		if err != nil {
			logger.Error().Err(err).Msg("create tag in store")
			return fmt.Errorf("create tag in store: %w", err)
		}
		if !created {
			return errs.New(fmt.Sprintf("Il tag %s esiste già. Prova con un altro nome:", tag.GetName()))
		}

		flowData.TagsAdded++
		state.Step = model.TagLoopChoiceStep

		text := fmt.Sprintf("✅ Tag %s aggiunto a %s.\nVuoi aggiungerne un altro?", tag.GetName(), flowData.CreatedSubCategoryName)
		return t.flow.messages.Prompt(state, text, t.tagLoopKeyboard())
	}

	return nil
}

func (t *taxonomySection) MatchesBack(state *model.State) bool {
	switch state.Step {
	case model.EnterCategoryNameStep, model.ChooseParentCategoryStep, model.EnterSubCategoryNameStep,
		model.TagLoopChoiceStep, model.EnterTagNameStep:
		return true
	default:
		return false
	}
}

func (t *taxonomySection) HandleBack(ctx context.Context, _ Update, state *model.State) (bool, error) {
	switch state.Step {
	case model.EnterCategoryNameStep, model.ChooseParentCategoryStep:
		// Delegate to the settings root menu.
		return false, nil

	case model.EnterSubCategoryNameStep:
		return true, t.promptParentCategories(ctx, state)

	case model.TagLoopChoiceStep, model.EnterTagNameStep:
		// Back from the tag loop finalizes the created subcategory, it
		// never deletes it.
		return true, t.finalizeSubCategory(state)
	}

	return false, nil
}
