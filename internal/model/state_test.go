package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
)

func TestState_Reset(t *testing.T) {
	t.Parallel()

	state := &model.State{
		Username:                "giovanni",
		ChatID:                  42,
		Flow:                    model.ExpenseFlow,
		Step:                    model.EnterAmountStep,
		SelectedCategoryID:      "cat-food",
		SelectedCategoryName:    "Cibo",
		SelectedSubCategoryID:   "sub-groceries",
		SelectedSubCategoryName: "Spesa",
		SelectedTagID:           "tag-milk",
		SelectedTagName:         "Latte",
		Description:             "latte e pane",
		Amount:                  "12.50",
		SelectedDate:            time.Now(),
		LastBotMessageID:        7,
		FlowData:                &model.ExpenseFlowData{TagStepSkipped: true},
	}

	state.Reset()

	assert.Equal(t, model.MainMenuFlow, state.Flow)
	assert.Equal(t, model.MainMenuStep, state.Step)
	assert.Empty(t, state.SelectedCategoryID)
	assert.Empty(t, state.SelectedCategoryName)
	assert.Empty(t, state.SelectedSubCategoryID)
	assert.Empty(t, state.SelectedSubCategoryName)
	assert.Empty(t, state.SelectedTagID)
	assert.Empty(t, state.SelectedTagName)
	assert.Empty(t, state.Description)
	assert.Empty(t, state.Amount)
	assert.True(t, state.SelectedDate.IsZero())
	assert.Nil(t, state.FlowData)

	// The last bot message survives a reset so the main menu prompt can
	// still edit it in place.
	assert.Equal(t, 7, state.LastBotMessageID)
	assert.Equal(t, "giovanni", state.Username)
	assert.Equal(t, int64(42), state.ChatID)
}

func TestState_StartFlow(t *testing.T) {
	t.Parallel()

	state := &model.State{
		Flow:     model.ExpenseFlow,
		Step:     model.EnterDescriptionStep,
		FlowData: &model.ExpenseFlowData{TagStepSkipped: true},
	}

	state.StartFlow(model.ImportFlow, model.EnterImportYearStep, &model.ImportFlowData{})

	assert.Equal(t, model.ImportFlow, state.Flow)
	assert.Equal(t, model.EnterImportYearStep, state.Step)

	flowData, ok := model.FlowDataAs[*model.ImportFlowData](state)
	assert.True(t, ok)
	assert.NotNil(t, flowData)

	_, ok = model.FlowDataAs[*model.ExpenseFlowData](state)
	assert.False(t, ok)
}
