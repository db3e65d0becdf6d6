package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
)

func TestState_GetOrCreate(t *testing.T) {
	t.Parallel()

	states := NewState()

	state := states.GetOrCreate("giovanni", 42)
	assert.Equal(t, "giovanni", state.Username)
	assert.Equal(t, int64(42), state.ChatID)
	assert.Equal(t, model.MainMenuFlow, state.Flow)
	assert.Equal(t, model.MainMenuStep, state.Step)

	// The same user always gets the same state instance.
	again := states.GetOrCreate("giovanni", 42)
	assert.Same(t, state, again)
}

func TestState_GetOrCreateFollowsLatestChatID(t *testing.T) {
	t.Parallel()

	states := NewState()

	states.GetOrCreate("giovanni", 42)
	state := states.GetOrCreate("giovanni", 43)

	assert.Equal(t, int64(43), state.ChatID)
}

func TestState_GetOrCreateIsAtomic(t *testing.T) {
	t.Parallel()

	states := NewState()

	const goroutines = 32

	results := make([]*model.State, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = states.GetOrCreate("giovanni", 42)
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
}
