package state

import (
	"errors"
	"sync"
	"testing"

	"kicks/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStoreDispatch(t *testing.T) {
	store := NewStore(NewState(), zap.NewNop())

	store.Dispatch(ReceiveProject{Project: kettle, User: &creator})

	got, ok := store.State().Entities.Projects.Get(kettle.ID)
	require.True(t, ok)
	assert.Equal(t, kettle, got)
}

func TestStoreSubscribe(t *testing.T) {
	store := NewStore(NewState(), nil)

	var calls int
	unsubscribe := store.Subscribe(func(s State) {
		calls++
		assert.True(t, s.Entities.Projects.Has(kettle.ID))
	})

	store.Dispatch(ReceiveProject{Project: kettle, User: &creator})
	assert.Equal(t, 1, calls)

	// Same record again: nothing changes, nobody is told.
	store.Dispatch(ReceiveProject{Project: kettle, User: &creator})
	assert.Equal(t, 1, calls)

	unsubscribe()
	store.Dispatch(ReceiveReward{Reward: models.Reward{ID: 1, ProjectID: kettle.ID, Amount: 50}})
	assert.Equal(t, 1, calls)
}

func TestStoreThunk(t *testing.T) {
	store := NewStore(NewState(), nil)
	errBoom := errors.New("boom")

	err := store.Thunk(func(dispatch Dispatcher, getState func() State) error {
		dispatch(Loading{})
		assert.True(t, getState().Session.Loading)
		dispatch(ReceiveSessionErrors{Errors: []string{"bad"}})
		return errBoom
	})

	assert.ErrorIs(t, err, errBoom)
	assert.False(t, store.State().Session.Loading)
	assert.Equal(t, []string{"bad"}, store.State().Errors.Session)
}

func TestStoreConcurrentDispatch(t *testing.T) {
	store := NewStore(NewState(), nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Dispatch(ReceiveBacking{Backing: models.Backing{ID: id, UserID: 2, RewardID: 1}})
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 50, store.State().Entities.Backings.Len())
}
