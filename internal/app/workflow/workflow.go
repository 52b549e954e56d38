package workflow

import (
	"errors"
	"strings"

	"github.com/acoe/bonafide/internal/app/models"
)

// Workflow errors
var (
	ErrTransitionNotAllowed = errors.New("transition not allowed for this role and status")
	ErrReasonRequired       = errors.New("a non-empty reason is required to return a request")
	ErrTemplateRequired     = errors.New("a certificate template must be selected before forwarding to the principal")
)

// Action is a workflow operation an actor may attempt on a request.
type Action string

const (
	ActionForward  Action = "forward"
	ActionReturn   Action = "return"
	ActionApprove  Action = "approve"
	ActionResubmit Action = "resubmit"
)

// transitionKey identifies one row of the transition table.
type transitionKey struct {
	from   models.RequestStatus
	role   models.RoleType
	action Action
}

// transitions encodes the legal status transitions. A request moves
// Student -> Tutor -> HOD -> Principal -> Approved, with a return branch
// at every pending stage and a student resubmit from every returned state.
var transitions = map[transitionKey]models.RequestStatus{
	{models.StatusPendingTutor, models.RoleTutor, ActionForward}: models.StatusPendingHOD,
	{models.StatusPendingTutor, models.RoleTutor, ActionReturn}:  models.StatusReturnedByTutor,

	{models.StatusPendingHOD, models.RoleHOD, ActionForward}: models.StatusPendingPrincipal,
	{models.StatusPendingHOD, models.RoleHOD, ActionReturn}:  models.StatusReturnedByHOD,

	{models.StatusPendingPrincipal, models.RolePrincipal, ActionApprove}: models.StatusApproved,
	{models.StatusPendingPrincipal, models.RolePrincipal, ActionReturn}:  models.StatusReturnedByPrincipal,

	{models.StatusReturnedByTutor, models.RoleStudent, ActionResubmit}:     models.StatusPendingTutor,
	{models.StatusReturnedByHOD, models.RoleStudent, ActionResubmit}:       models.StatusPendingTutor,
	{models.StatusReturnedByPrincipal, models.RoleStudent, ActionResubmit}: models.StatusPendingTutor,
}

// Transition describes a validated workflow step ready to be persisted.
type Transition struct {
	From models.RequestStatus
	To   models.RequestStatus
	// ClearReturnReason is set on resubmit so the stale reason doesn't
	// follow the request back through the pipeline.
	ClearReturnReason bool
}

// Input carries the actor-supplied data a transition may require.
type Input struct {
	Reason     string // Required for ActionReturn
	TemplateID *int64 // Required for HOD ActionForward
}

// Authorize checks one step of the approval workflow. It returns the
// resulting transition, or an error if the (status, role, action) triple
// is not in the table or a required input is missing. It performs no I/O;
// callers persist the step with a conditional update on From.
func Authorize(role models.RoleType, from models.RequestStatus, action Action, in Input) (Transition, error) {
	to, ok := transitions[transitionKey{from, role, action}]
	if !ok {
		return Transition{}, ErrTransitionNotAllowed
	}

	switch action {
	case ActionReturn:
		if strings.TrimSpace(in.Reason) == "" {
			return Transition{}, ErrReasonRequired
		}
	case ActionForward:
		if from == models.StatusPendingHOD && (in.TemplateID == nil || *in.TemplateID <= 0) {
			return Transition{}, ErrTemplateRequired
		}
	}

	return Transition{
		From:              from,
		To:                to,
		ClearReturnReason: action == ActionResubmit,
	}, nil
}

// PendingStatusFor returns the queue status a reviewing role works from.
func PendingStatusFor(role models.RoleType) (models.RequestStatus, bool) {
	switch role {
	case models.RoleTutor:
		return models.StatusPendingTutor, true
	case models.RoleHOD:
		return models.StatusPendingHOD, true
	case models.RolePrincipal:
		return models.StatusPendingPrincipal, true
	}
	return "", false
}
