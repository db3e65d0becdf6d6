package service

import (
	"context"
	"strings"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
)

// FlowHandler is the uniform capability set every conversational flow
// implements. The dispatcher never knows which concrete flow is active,
// it polls each registered handler's predicates in registration order
// and delegates to the first match. Registration order is significant:
// ambiguous predicates would be resolved by whichever handler was
// registered first.
type FlowHandler interface {
	// MenuLabel returns the main menu button text for this flow, empty
	// when the flow is not reachable from the main menu.
	MenuLabel() string
	// MatchesMenuCommand reports whether this flow should start given
	// this exact main menu button text.
	MatchesMenuCommand(text string) bool
	// StartFromMenu switches the state to the flow's entry step and
	// emits the flow's first prompt.
	StartFromMenu(ctx context.Context, update Update, state *model.State) error

	// MatchesCallback reports whether this flow owns the current step for
	// a button callback with the given name.
	MatchesCallback(name string, state *model.State) bool
	// HandleCallback processes a button callback.
	HandleCallback(ctx context.Context, update Update, name, payload string, state *model.State) error

	// MatchesTextInput reports whether this flow expects free text at the
	// current step.
	MatchesTextInput(state *model.State) bool
	// HandleTextInput processes a free text message.
	HandleTextInput(ctx context.Context, update Update, state *model.State) error

	// MatchesBack reports whether this flow owns back navigation at the
	// current step.
	MatchesBack(state *model.State) bool
	// HandleBack rewinds the state to the previous step and re-emits its
	// prompt. Returns false when the dispatcher should fall back to the
	// main menu instead.
	HandleBack(ctx context.Context, update Update, state *model.State) (bool, error)

	// MatchesDocument reports whether this flow expects a file upload at
	// the current step.
	MatchesDocument(state *model.State) bool
	// HandleDocument processes a file upload.
	HandleDocument(ctx context.Context, update Update, state *model.State) error

	// MatchesWebAppPayload reports whether this flow expects an embedded
	// picker UI payload at the current step.
	MatchesWebAppPayload(state *model.State) bool
	// HandleWebAppPayload processes an embedded picker UI payload.
	HandleWebAppPayload(ctx context.Context, update Update, payload string, state *model.State) error
}

// baseFlow provides no-op defaults for the optional FlowHandler
// capabilities. Flows embed it and override what they support.
type baseFlow struct{}

func (baseFlow) MenuLabel() string {
	return ""
}

func (baseFlow) MatchesMenuCommand(string) bool {
	return false
}

func (baseFlow) StartFromMenu(context.Context, Update, *model.State) error {
	return nil
}

func (baseFlow) MatchesCallback(string, *model.State) bool {
	return false
}

func (baseFlow) HandleCallback(context.Context, Update, string, string, *model.State) error {
	return nil
}

func (baseFlow) MatchesTextInput(*model.State) bool {
	return false
}

func (baseFlow) HandleTextInput(context.Context, Update, *model.State) error {
	return nil
}

func (baseFlow) MatchesBack(*model.State) bool {
	return false
}

func (baseFlow) HandleBack(context.Context, Update, *model.State) (bool, error) {
	return false, nil
}

func (baseFlow) MatchesDocument(*model.State) bool {
	return false
}

func (baseFlow) HandleDocument(context.Context, Update, *model.State) error {
	return nil
}

func (baseFlow) MatchesWebAppPayload(*model.State) bool {
	return false
}

func (baseFlow) HandleWebAppPayload(context.Context, Update, string, *model.State) error {
	return nil
}

// splitCallbackData splits inline button callback data into its name
// and payload parts. The payload is empty when data carries no colon.
func splitCallbackData(data string) (name, payload string) {
	name, payload, _ = strings.Cut(data, ":")
	return name, payload
}

// callbackData builds inline button callback data from a name and payload.
func callbackData(name, payload string) string {
	if payload == "" {
		return name
	}

	return name + ":" + payload
}
