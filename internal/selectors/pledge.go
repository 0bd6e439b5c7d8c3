package selectors

import (
	"math"
	"time"

	"kicks/internal/models"
)

// PledgeDisplay is what a project page shows next to its rewards.
type PledgeDisplay int

const (
	// ShowPledgeForm offers the pledge form for every reward.
	ShowPledgeForm PledgeDisplay = iota
	// ShowNothing hides pledging; the viewer owns the project.
	ShowNothing
	// ShowThankYou thanks a viewer who already backed the project.
	ShowThankYou
)

func (d PledgeDisplay) String() string {
	switch d {
	case ShowPledgeForm:
		return "pledge form"
	case ShowNothing:
		return "nothing"
	case ShowThankYou:
		return "thank you"
	default:
		return "unknown"
	}
}

// DisplayFor decides the pledge display. Rules apply in order: anonymous
// viewers get the form, owners get nothing, backers get thanks, everyone else
// gets the form.
func DisplayFor(currentUser *models.User, project models.Project, alreadyBacked bool) PledgeDisplay {
	switch {
	case currentUser == nil:
		return ShowPledgeForm
	case currentUser.ID == project.UserID:
		return ShowNothing
	case alreadyBacked:
		return ShowThankYou
	default:
		return ShowPledgeForm
	}
}

// DaysRemaining returns the whole days, rounded up, until end. It is 0 once
// the campaign has ended.
func DaysRemaining(end, now time.Time) int {
	if !end.After(now) {
		return 0
	}
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}
