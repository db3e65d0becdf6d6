package service

import (
	"context"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
)

// Services contains all services.
type Services struct {
	Event   EventService
	Message MessageService
	Import  ImportService
	State   StateService
}

// EventService provides functionality for receiving updates from the
// messenger and dispatching them to the registered flow handlers.
type EventService interface {
	// Listen receives all updates and reacts to them until ctx is done.
	Listen(ctx context.Context)
}

// MessageService provides functionality for sending prompts to users.
type MessageService interface {
	// Prompt shows a flow prompt, editing the last bot message in place
	// when possible and falling back to sending a new one.
	Prompt(state *model.State, text string, keyboard []InlineKeyboardRow) error
	// SendWithReplyKeyboard sends a new message with a reply keyboard.
	SendWithReplyKeyboard(state *model.State, text string, rows []KeyboardRow) error
	// Send sends a plain text message outside of any conversation state.
	Send(chatID int64, text string) error
	// DeleteUserMessage deletes a user authored message. Best effort.
	DeleteUserMessage(chatID int64, messageID int)
}

// MenuService provides functionality for showing the shared main menu.
type MenuService interface {
	// ShowMainMenu sends the given text with the main menu reply keyboard.
	ShowMainMenu(state *model.State, text string) error
}

// StateService provides access to the per user conversation states.
type StateService interface {
	// GetOrCreate returns the state of the given user, creating it on the
	// first interaction. Lookup or create is atomic per key.
	GetOrCreate(username string, chatID int64) *model.State
}

// ImportService provides functionality for bulk importing budgets from
// an uploaded spreadsheet.
type ImportService interface {
	// ImportBudgets parses the spreadsheet and creates the taxonomy and
	// budgets it describes for the target year.
	ImportBudgets(ctx context.Context, file []byte, year int) (*ImportResult, error)
}

// ImportResult represents the outcome of a spreadsheet import.
type ImportResult struct {
	CategoriesCreated    int
	SubCategoriesCreated int
	TagsCreated          int
	BudgetsCreated       int

	Warnings []string
	Errors   []string
}
