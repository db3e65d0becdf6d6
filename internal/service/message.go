package service

import (
	"fmt"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
)

type messageService struct {
	logger *logger.Logger
	apis   APIs
}

var _ MessageService = (*messageService)(nil)

// NewMessage returns new instance of message service.
func NewMessage(logger *logger.Logger, apis APIs) *messageService {
	return &messageService{
		logger: logger,
		apis:   apis,
	}
}

func (m *messageService) Prompt(state *model.State, text string, keyboard []InlineKeyboardRow) error {
	logger := m.logger

	if state.LastBotMessageID != 0 {
		err := m.apis.Messenger.EditMessage(EditMessageOptions{
			ChatID:         state.ChatID,
			MessageID:      state.LastBotMessageID,
			Text:           text,
			InlineKeyboard: keyboard,
		})
		if err == nil {
			return nil
		}

		// The message may be too old or unchanged, degrade to a new one.
		logger.Debug().Err(err).
			Int("messageID", state.LastBotMessageID).
			Msg("edit last bot message, falling back to send")
	}

	messageID, err := m.apis.Messenger.SendMessage(SendMessageOptions{
		ChatID:         state.ChatID,
		Text:           text,
		InlineKeyboard: keyboard,
	})
	if err != nil {
		logger.Error().Err(err).Msg("send message via messenger")
		return fmt.Errorf("send message via messenger: %w", err)
	}

	state.LastBotMessageID = messageID
	return nil
}

func (m *messageService) SendWithReplyKeyboard(state *model.State, text string, rows []KeyboardRow) error {
	logger := m.logger

	messageID, err := m.apis.Messenger.SendMessage(SendMessageOptions{
		ChatID:   state.ChatID,
		Text:     text,
		Keyboard: rows,
	})
	if err != nil {
		logger.Error().Err(err).Msg("send message with reply keyboard via messenger")
		return fmt.Errorf("send message with reply keyboard via messenger: %w", err)
	}

	state.LastBotMessageID = messageID
	return nil
}

func (m *messageService) Send(chatID int64, text string) error {
	logger := m.logger

	_, err := m.apis.Messenger.SendMessage(SendMessageOptions{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		logger.Error().Err(err).Msg("send message via messenger")
		return fmt.Errorf("send message via messenger: %w", err)
	}

	return nil
}

func (m *messageService) DeleteUserMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}

	err := m.apis.Messenger.DeleteMessage(chatID, messageID)
	if err != nil {
		m.logger.Debug().Err(err).Int("messageID", messageID).Msg("delete user message")
	}
}
