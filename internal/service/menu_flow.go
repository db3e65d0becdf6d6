package service

import (
	"context"
	"fmt"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
)

type menuFlow struct {
	baseFlow

	logger   *logger.Logger
	messages MessageService

	// handlers are the registered flows whose MenuLabel feeds the main
	// menu keyboard. Set once during wiring, before Listen starts.
	handlers []FlowHandler
}

var (
	_ FlowHandler = (*menuFlow)(nil)
	_ MenuService = (*menuFlow)(nil)
)

// MenuFlowOptions represents input options for new instance of menu flow.
type MenuFlowOptions struct {
	Logger   *logger.Logger
	Messages MessageService
}

// NewMenuFlow returns new instance of the main menu flow.
func NewMenuFlow(opts *MenuFlowOptions) *menuFlow {
	return &menuFlow{
		logger:   opts.Logger,
		messages: opts.Messages,
	}
}

// RegisterHandlers sets the flows whose menu labels make up the main
// menu keyboard, in display order.
func (m *menuFlow) RegisterHandlers(handlers ...FlowHandler) {
	m.handlers = handlers
}

func (m *menuFlow) MatchesMenuCommand(text string) bool {
	return text == model.BotStartCommand || text == model.BotMenuCommand
}

func (m *menuFlow) StartFromMenu(_ context.Context, update Update, state *model.State) error {
	state.Reset()

	welcome := fmt.Sprintf("Ciao @%s! 👋\nSono Albert, il tuo contabile personale.\nCosa vuoi fare?", state.Username)
	if update.GetText() != model.BotStartCommand {
		welcome = "Cosa vuoi fare?"
	}

	return m.ShowMainMenu(state, welcome)
}

func (m *menuFlow) ShowMainMenu(state *model.State, text string) error {
	logger := m.logger

	rows := make([]KeyboardRow, 0, len(m.handlers))
	for _, handler := range m.handlers {
		label := handler.MenuLabel()
		if label == "" {
			continue
		}

		rows = append(rows, KeyboardRow{
			Buttons: []KeyboardButton{{Text: label}},
		})
	}

	err := m.messages.SendWithReplyKeyboard(state, text, rows)
	if err != nil {
		logger.Error().Err(err).Msg("send main menu")
		return fmt.Errorf("send main menu: %w", err)
	}

	return nil
}
