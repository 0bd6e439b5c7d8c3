package actions

import (
	"context"

	"kicks/internal/models"
	"kicks/internal/state"
)

// CreateReward adds a reward to a project of the signed-in user.
func (a *Actions) CreateReward(ctx context.Context, projectID int64, params models.RewardParams) (*models.Reward, error) {
	return a.receiveReward(func() (*models.Reward, error) {
		return a.api.CreateReward(ctx, projectID, params)
	})
}

// UpdateReward changes a reward.
func (a *Actions) UpdateReward(ctx context.Context, projectID, rewardID int64, params models.RewardParams) (*models.Reward, error) {
	return a.receiveReward(func() (*models.Reward, error) {
		return a.api.UpdateReward(ctx, projectID, rewardID, params)
	})
}

// DeleteReward deletes a reward.
func (a *Actions) DeleteReward(ctx context.Context, projectID, rewardID int64) error {
	return a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		r, err := a.api.DeleteReward(ctx, projectID, rewardID)
		if err != nil {
			return rejected(dispatch, err, rewardErrors)
		}
		dispatch(state.RemoveReward{RewardID: r.ID})
		return nil
	})
}

func (a *Actions) receiveReward(call func() (*models.Reward, error)) (*models.Reward, error) {
	var reward *models.Reward
	err := a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		r, err := call()
		if err != nil {
			return rejected(dispatch, err, rewardErrors)
		}
		reward = r
		dispatch(state.ReceiveReward{Reward: *r})
		return nil
	})
	return reward, err
}

// Back pledges the signed-in user to a reward.
func (a *Actions) Back(ctx context.Context, projectID, rewardID int64) (*models.Backing, error) {
	var backing *models.Backing
	err := a.store.Thunk(func(dispatch state.Dispatcher, _ func() state.State) error {
		b, err := a.api.CreateBacking(ctx, projectID, rewardID)
		if err != nil {
			return rejected(dispatch, err, backingErrors)
		}
		backing = b
		dispatch(state.ReceiveBacking{Backing: *b})
		return nil
	})
	return backing, err
}
