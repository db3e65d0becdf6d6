package service

import (
	"context"
	"runtime/debug"
	"slices"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/errs"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/logger"
)

type eventService struct {
	logger   *logger.Logger
	apis     APIs
	messages MessageService
	states   StateService
	menu     MenuService

	// flows are polled in registration order, first match wins.
	flows []FlowHandler

	// allowedUsernames is the access allow list. Empty means unrestricted.
	allowedUsernames []string
}

var _ EventService = (*eventService)(nil)

// EventOptions represents input options for creating new instance of
// event service.
type EventOptions struct {
	Logger   *logger.Logger
	APIs     APIs
	Messages MessageService
	States   StateService
	Menu     MenuService

	Flows []FlowHandler

	AllowedUsernames []string
}

// NewEvent returns new instance of event service.
func NewEvent(opts *EventOptions) *eventService {
	return &eventService{
		logger:           opts.Logger,
		apis:             opts.APIs,
		messages:         opts.Messages,
		states:           opts.States,
		menu:             opts.Menu,
		flows:            opts.Flows,
		allowedUsernames: opts.AllowedUsernames,
	}
}

const (
	unauthorizedMessage = "Mi dispiace, questo è un bot privato. 🦆"
	genericErrorMessage = "Qualcosa è andato storto. 😵\nRiprova tra poco."
)

// Listen receives all updates from the messenger and reacts to them
// until ctx is cancelled. Updates are processed sequentially in
// delivery order.
func (e *eventService) Listen(ctx context.Context) {
	logger := e.logger.With().Str("name", "eventService.Listen").Logger()

	updates := make(chan Update)
	errors := make(chan error)

	go e.apis.Messenger.ReadUpdates(ctx, updates, errors)

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("stopping update listener")
			return

		case update := <-updates:
			e.handleUpdate(ctx, update)

		case err := <-errors:
			logger.Error().Err(err).Msg("read updates")
		}
	}
}

func (e *eventService) handleUpdate(ctx context.Context, update Update) {
	logger := e.logger.With().
		Str("name", "eventService.handleUpdate").
		Int("updateID", update.GetUpdateID()).
		Logger()

	username := update.GetSenderUsername()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Any("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("recovered from panic while processing update")

			// The single update is dropped, subsequent updates keep being
			// served. The user's state is reset to a known good point.
			if username != "" {
				state := e.states.GetOrCreate(username, update.GetChatID())
				state.Reset()
			}

			err := e.messages.Send(update.GetChatID(), genericErrorMessage)
			if err != nil {
				logger.Error().Err(err).Msg("send generic error message")
			}
		}
	}()

	if username == "" {
		logger.Warn().Msg("update without sender username, dropping")
		return
	}

	if !e.isAllowedUser(username) {
		// No state is created for unauthorized users.
		logger.Warn().Str("username", username).Msg("unauthorized user")

		err := e.messages.Send(update.GetChatID(), unauthorizedMessage)
		if err != nil {
			logger.Error().Err(err).Msg("send unauthorized message")
		}
		return
	}

	state := e.states.GetOrCreate(username, update.GetChatID())

	err := e.routeUpdate(ctx, update, state)
	if err != nil {
		if errs.IsExpected(err) {
			// Invalid user input, re-prompt at the same step with the
			// corrective message. The state is not advanced, and the
			// back row stays attached so navigation is not lost.
			logger.Info().Err(err).Msg("expected error while routing update")

			var keyboard []InlineKeyboardRow
			if state.Flow != model.MainMenuFlow {
				keyboard = []InlineKeyboardRow{backInlineRow()}
			}

			sendErr := e.messages.Prompt(state, err.Error(), keyboard)
			if sendErr != nil {
				logger.Error().Err(sendErr).Msg("send corrective message")
			}
			return
		}

		logger.Error().Err(err).Msg("route update")

		state.Reset()
		menuErr := e.menu.ShowMainMenu(state, genericErrorMessage)
		if menuErr != nil {
			logger.Error().Err(menuErr).Msg("show main menu after error")
		}
	}
}

func (e *eventService) isAllowedUser(username string) bool {
	if len(e.allowedUsernames) == 0 {
		return true
	}

	return slices.Contains(e.allowedUsernames, username)
}

// routeUpdate resolves the handler for an inbound event. Exactly one
// handler processes a given event. When nothing matches, the state is
// reset and the main menu is shown, this is the recovery policy for
// inconsistent states.
func (e *eventService) routeUpdate(ctx context.Context, update Update, state *model.State) error {
	logger := e.logger.With().Str("name", "eventService.routeUpdate").Logger()

	if callback := update.GetCallback(); callback != nil {
		err := e.apis.Messenger.AnswerCallbackQuery(callback.QueryID)
		if err != nil {
			logger.Debug().Err(err).Msg("answer callback query")
		}

		name, payload := splitCallbackData(callback.Data)
		if name == model.BackCallback {
			return e.routeBack(ctx, update, state)
		}

		for _, flow := range e.flows {
			if flow.MatchesCallback(name, state) {
				return flow.HandleCallback(ctx, update, name, payload, state)
			}
		}

		logger.Warn().Str("callback", callback.Data).Any("step", state.Step).Msg("no flow matched callback")
		return e.resetToMainMenu(state)
	}

	if update.GetDocument() != nil {
		for _, flow := range e.flows {
			if flow.MatchesDocument(state) {
				return flow.HandleDocument(ctx, update, state)
			}
		}

		logger.Warn().Any("step", state.Step).Msg("no flow matched document upload")
		return e.resetToMainMenu(state)
	}

	if payload := update.GetWebAppData(); payload != "" {
		for _, flow := range e.flows {
			if flow.MatchesWebAppPayload(state) {
				return flow.HandleWebAppPayload(ctx, update, payload, state)
			}
		}

		logger.Warn().Any("step", state.Step).Msg("no flow matched web app payload")
		return e.resetToMainMenu(state)
	}

	text := update.GetText()
	if text == model.BotBackButton {
		return e.routeBack(ctx, update, state)
	}

	for _, flow := range e.flows {
		if flow.MatchesMenuCommand(text) {
			return flow.StartFromMenu(ctx, update, state)
		}
	}

	for _, flow := range e.flows {
		if flow.MatchesTextInput(state) {
			return flow.HandleTextInput(ctx, update, state)
		}
	}

	logger.Debug().Str("text", text).Any("step", state.Step).Msg("no flow matched text input")
	return e.resetToMainMenu(state)
}

func (e *eventService) routeBack(ctx context.Context, update Update, state *model.State) error {
	for _, flow := range e.flows {
		if flow.MatchesBack(state) {
			handled, err := flow.HandleBack(ctx, update, state)
			if err != nil {
				return err
			}
			if handled {
				return nil
			}

			break
		}
	}

	return e.resetToMainMenu(state)
}

func (e *eventService) resetToMainMenu(state *model.State) error {
	state.Reset()

	return e.menu.ShowMainMenu(state, "Cosa vuoi fare?")
}
