package model

import "time"

// State represents the current state of a user's interaction with the
// bot. One instance exists per user, keyed by username, and lives in
// memory for the process lifetime.
type State struct {
	Username string
	ChatID   int64

	Flow Flow
	Step FlowStep

	SelectedCategoryID      string
	SelectedCategoryName    string
	SelectedSubCategoryID   string
	SelectedSubCategoryName string
	SelectedTagID           string
	SelectedTagName         string

	Description  string
	Amount       string
	SelectedDate time.Time

	// LastBotMessageID is the id of the most recent bot authored message
	// in this chat, used to edit in place rather than spam new messages.
	LastBotMessageID int

	// FlowData is owned exclusively by the currently active flow and must
	// be replaced on flow switch. Each flow stores its own data shape.
	FlowData any
}

// Reset discards all flow progress, including FlowData, and puts the
// user back at the main menu. LastBotMessageID is kept so the next
// prompt still edits the existing message in place.
func (s *State) Reset() {
	s.Flow = MainMenuFlow
	s.Step = MainMenuStep
	s.SelectedCategoryID = ""
	s.SelectedCategoryName = ""
	s.SelectedSubCategoryID = ""
	s.SelectedSubCategoryName = ""
	s.SelectedTagID = ""
	s.SelectedTagName = ""
	s.Description = ""
	s.Amount = ""
	s.SelectedDate = time.Time{}
	s.FlowData = nil
}

// StartFlow switches the state to the entry step of the given flow,
// discarding any data left behind by a previously active flow.
func (s *State) StartFlow(flow Flow, step FlowStep, data any) {
	s.Reset()
	s.Flow = flow
	s.Step = step
	s.FlowData = data
}

// ExpenseFlowData holds the insert expense flow private data.
type ExpenseFlowData struct {
	// TagStepSkipped records whether the tag selection step was skipped
	// because the chosen subcategory had zero tags. Back navigation from
	// the description step depends on it.
	TagStepSkipped bool
}

// SettingsFlowData holds the settings flow private data.
type SettingsFlowData struct {
	ParentCategoryID   string
	ParentCategoryName string

	// CreatedSubCategoryID is the subcategory the tag creation loop is
	// bound to.
	CreatedSubCategoryID   string
	CreatedSubCategoryName string
	TagsAdded              int
}

// ImportFlowData holds the import flow private data.
type ImportFlowData struct {
	Year int
}

// FlowDataAs retrieves the flow data with the expected flow specific type.
func FlowDataAs[T any](s *State) (T, bool) {
	typed, ok := s.FlowData.(T)
	return typed, ok
}
