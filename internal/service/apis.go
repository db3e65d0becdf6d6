package service

import "context"

// APIs represents all external APIs used by the application.
type APIs struct {
	Messenger Messenger
}

// Messenger provides functionality to communicate with the messaging platform.
type Messenger interface {
	// ReadUpdates reads all incoming updates into the updates channel.
	// It returns once ctx is done, even when no receiver drains the
	// channels anymore.
	ReadUpdates(ctx context.Context, updates chan Update, errors chan error)
	// Close stops receiving updates.
	Close() error
	// SendMessage sends a new message and returns its id.
	SendMessage(opts SendMessageOptions) (int, error)
	// EditMessage replaces the text and inline keyboard of a previously
	// sent message. Fails when the message is too old or unchanged, the
	// caller must fall back to SendMessage.
	EditMessage(opts EditMessageOptions) error
	// DeleteMessage deletes a message. Best effort, failures are logged
	// by the caller and never surfaced to the user.
	DeleteMessage(chatID int64, messageID int) error
	// AnswerCallbackQuery acknowledges a button press.
	AnswerCallbackQuery(callbackQueryID string) error
	// DownloadDocument downloads an uploaded file by its file id.
	DownloadDocument(fileID string) ([]byte, error)
}

// SendMessageOptions represents an input for Messenger.SendMessage.
type SendMessageOptions struct {
	ChatID int64
	Text   string

	Keyboard       []KeyboardRow
	InlineKeyboard []InlineKeyboardRow
}

// EditMessageOptions represents an input for Messenger.EditMessage.
type EditMessageOptions struct {
	ChatID    int64
	MessageID int
	Text      string

	InlineKeyboard []InlineKeyboardRow
}

// KeyboardButton represents a single reply keyboard button. A button
// with a WebAppURL opens the embedded picker UI instead of sending its
// text.
type KeyboardButton struct {
	Text      string
	WebAppURL string
}

// KeyboardRow represents one row of a reply keyboard.
type KeyboardRow struct {
	Buttons []KeyboardButton
}

// InlineKeyboardButton represents a single inline keyboard button with
// its callback data.
type InlineKeyboardButton struct {
	Text string
	Data string
}

// InlineKeyboardRow represents one row of an inline keyboard.
type InlineKeyboardRow struct {
	Buttons []InlineKeyboardButton
}

// Update represents a single inbound event received from the messaging
// platform.
type Update interface {
	// GetUpdateID returns the platform assigned update identifier.
	GetUpdateID() int
	// GetChatID returns the id of the chat the update originated from.
	GetChatID() int64
	// GetMessageID returns the id of the user authored message, if any.
	GetMessageID() int
	// GetSenderUsername returns the username of the originating user.
	GetSenderUsername() string
	// GetText returns the plain text of the message, if any.
	GetText() string
	// GetCallback returns the button callback, or nil for other updates.
	GetCallback() *Callback
	// GetDocument returns the uploaded document, or nil for other updates.
	GetDocument() *Document
	// GetWebAppData returns the embedded picker UI payload, if any.
	GetWebAppData() string
}

// Callback represents a structured button press event.
type Callback struct {
	QueryID   string
	Data      string
	MessageID int
}

// Document represents an uploaded file reference.
type Document struct {
	FileID   string
	FileName string
	FileSize int64
}
