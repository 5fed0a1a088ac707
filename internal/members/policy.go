package members

import (
	"fmt"

	"pastoral-backend/internal/apperr"
	"pastoral-backend/internal/auth"
	"pastoral-backend/internal/models"
)

type transition struct {
	from, to models.MemberStatus
}

// strictTransitions is the lifecycle graph enforced when strict mode is on.
// Moving to the same status is always allowed.
var strictTransitions = map[transition]bool{
	{models.StatusVisitor, models.StatusFollowing}:       true,
	{models.StatusVisitor, models.StatusAway}:            true,
	{models.StatusFollowing, models.StatusDiscipleship}:  true,
	{models.StatusFollowing, models.StatusAway}:          true,
	{models.StatusDiscipleship, models.StatusIntegrated}: true,
	{models.StatusDiscipleship, models.StatusFollowing}:  true,
	{models.StatusDiscipleship, models.StatusAway}:       true,
	{models.StatusIntegrated, models.StatusDiscipleship}: true,
	{models.StatusIntegrated, models.StatusAway}:         true,
	{models.StatusAway, models.StatusFollowing}:          true,
	{models.StatusAway, models.StatusVisitor}:            true,
}

// TransitionPolicy decides whether a member may move between two statuses.
type TransitionPolicy func(from, to models.MemberStatus) error

// AnyTransition treats status as a free label.
func AnyTransition(_, _ models.MemberStatus) error { return nil }

// StrictTransition only allows moves listed in the lifecycle graph.
func StrictTransition(from, to models.MemberStatus) error {
	if from == to || strictTransitions[transition{from, to}] {
		return nil
	}
	return apperr.New(apperr.KindInvalidTransition,
		fmt.Sprintf("Status cannot change from %s to %s", from, to))
}

// EditGuard runs before a member update and may reject the caller.
type EditGuard func(actor auth.Identity, current *models.Member) error

// AllowAllEdits lets any authenticated staff member edit any member.
func AllowAllEdits(auth.Identity, *models.Member) error { return nil }

// OwnerScopedEdits restricts TEAM users to members assigned to them.
// Other roles are unrestricted.
func OwnerScopedEdits(actor auth.Identity, current *models.Member) error {
	if actor.Role != models.RoleTeam {
		return nil
	}
	if current.AssignedTo != nil && *current.AssignedTo == actor.ID {
		return nil
	}
	return apperr.Forbidden("You can only edit members assigned to you")
}
