package service

import (
	"sync"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
)

type stateService struct {
	mu     sync.Mutex
	states map[string]*model.State
}

var _ StateService = (*stateService)(nil)

// NewState returns new instance of the in-memory state service.
// Conversation states are keyed by username and live for the process
// lifetime, there is no persistence.
func NewState() *stateService {
	return &stateService{
		states: make(map[string]*model.State),
	}
}

func (s *stateService) GetOrCreate(username string, chatID int64) *model.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[username]
	if !ok {
		state = &model.State{
			Username: username,
			Flow:     model.MainMenuFlow,
			Step:     model.MainMenuStep,
		}
		s.states[username] = state
	}

	// The chat id follows the latest update, private chats keep it stable.
	state.ChatID = chatID

	return state
}
