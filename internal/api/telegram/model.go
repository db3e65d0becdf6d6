package telegram

import (
	"github.com/mymmrac/telego"

	"github.com/giovannimartelli/AlbertQuackmore/internal/service"
)

// Update represents the update received from Telegram.
type Update struct {
	update telego.Update
}

var _ service.Update = (*Update)(nil)

// GetUpdateID returns the Telegram assigned update identifier.
func (t *Update) GetUpdateID() int {
	return t.update.UpdateID
}

// GetChatID returns the ID of the chat the update originated from.
func (t *Update) GetChatID() int64 {
	if t.update.Message != nil {
		return t.update.Message.Chat.ID
	}
	if t.update.CallbackQuery != nil && t.update.CallbackQuery.Message != nil {
		return t.update.CallbackQuery.Message.Chat.ID
	}

	return 0
}

// GetMessageID returns the ID of the user authored message.
func (t *Update) GetMessageID() int {
	if t.update.Message != nil {
		return t.update.Message.MessageID
	}
	if t.update.CallbackQuery != nil && t.update.CallbackQuery.Message != nil {
		return t.update.CallbackQuery.Message.MessageID
	}

	return 0
}

// GetSenderUsername returns the username of the user who sent the update.
func (t *Update) GetSenderUsername() string {
	if t.update.Message != nil && t.update.Message.From != nil {
		return t.update.Message.From.Username
	}
	if t.update.CallbackQuery != nil {
		return t.update.CallbackQuery.From.Username
	}

	return ""
}

// GetText returns the plain text content of the message.
func (t *Update) GetText() string {
	if t.update.Message != nil {
		return t.update.Message.Text
	}

	return ""
}

// GetCallback returns the button callback, or nil for other updates.
func (t *Update) GetCallback() *service.Callback {
	if t.update.CallbackQuery == nil {
		return nil
	}

	callback := &service.Callback{
		QueryID: t.update.CallbackQuery.ID,
		Data:    t.update.CallbackQuery.Data,
	}
	if t.update.CallbackQuery.Message != nil {
		callback.MessageID = t.update.CallbackQuery.Message.MessageID
	}

	return callback
}

// GetDocument returns the uploaded document, or nil for other updates.
func (t *Update) GetDocument() *service.Document {
	if t.update.Message == nil || t.update.Message.Document == nil {
		return nil
	}

	return &service.Document{
		FileID:   t.update.Message.Document.FileID,
		FileName: t.update.Message.Document.FileName,
		FileSize: t.update.Message.Document.FileSize,
	}
}

// GetWebAppData returns the embedded picker UI payload, if any.
func (t *Update) GetWebAppData() string {
	if t.update.Message == nil || t.update.Message.WebAppData == nil {
		return ""
	}

	return t.update.Message.WebAppData.Data
}
