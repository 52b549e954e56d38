package workflow

import (
	"testing"

	"github.com/acoe/bonafide/internal/app/models"
)

func int64p(v int64) *int64 { return &v }

func TestAuthorizeLegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		role   models.RoleType
		from   models.RequestStatus
		action Action
		in     Input
		want   models.RequestStatus
	}{
		{
			name:   "tutor forwards to hod",
			role:   models.RoleTutor,
			from:   models.StatusPendingTutor,
			action: ActionForward,
			want:   models.StatusPendingHOD,
		},
		{
			name:   "tutor returns with reason",
			role:   models.RoleTutor,
			from:   models.StatusPendingTutor,
			action: ActionReturn,
			in:     Input{Reason: "incomplete details"},
			want:   models.StatusReturnedByTutor,
		},
		{
			name:   "hod forwards with template",
			role:   models.RoleHOD,
			from:   models.StatusPendingHOD,
			action: ActionForward,
			in:     Input{TemplateID: int64p(3)},
			want:   models.StatusPendingPrincipal,
		},
		{
			name:   "hod returns with reason",
			role:   models.RoleHOD,
			from:   models.StatusPendingHOD,
			action: ActionReturn,
			in:     Input{Reason: "wrong sub type"},
			want:   models.StatusReturnedByHOD,
		},
		{
			name:   "principal approves",
			role:   models.RolePrincipal,
			from:   models.StatusPendingPrincipal,
			action: ActionApprove,
			want:   models.StatusApproved,
		},
		{
			name:   "principal returns with reason",
			role:   models.RolePrincipal,
			from:   models.StatusPendingPrincipal,
			action: ActionReturn,
			in:     Input{Reason: "signature mismatch"},
			want:   models.StatusReturnedByPrincipal,
		},
		{
			name:   "student resubmits after tutor return",
			role:   models.RoleStudent,
			from:   models.StatusReturnedByTutor,
			action: ActionResubmit,
			want:   models.StatusPendingTutor,
		},
		{
			name:   "student resubmits after principal return",
			role:   models.RoleStudent,
			from:   models.StatusReturnedByPrincipal,
			action: ActionResubmit,
			want:   models.StatusPendingTutor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Authorize(tt.role, tt.from, tt.action, tt.in)
			if err != nil {
				t.Fatalf("Authorize() error = %v, want nil", err)
			}
			if tr.To != tt.want {
				t.Errorf("Authorize() to = %q, want %q", tr.To, tt.want)
			}
			if tr.From != tt.from {
				t.Errorf("Authorize() from = %q, want %q", tr.From, tt.from)
			}
			if tt.action == ActionResubmit && !tr.ClearReturnReason {
				t.Errorf("Authorize() resubmit should clear the return reason")
			}
		})
	}
}

func TestAuthorizeRejectsIllegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		role   models.RoleType
		from   models.RequestStatus
		action Action
	}{
		{"student cannot forward", models.RoleStudent, models.StatusPendingTutor, ActionForward},
		{"tutor cannot act on hod queue", models.RoleTutor, models.StatusPendingHOD, ActionForward},
		{"hod cannot approve", models.RoleHOD, models.StatusPendingHOD, ActionApprove},
		{"principal cannot act on tutor queue", models.RolePrincipal, models.StatusPendingTutor, ActionApprove},
		{"approved is terminal", models.RolePrincipal, models.StatusApproved, ActionApprove},
		{"admin has no workflow actions", models.RoleAdmin, models.StatusPendingHOD, ActionForward},
		{"tutor cannot resubmit", models.RoleTutor, models.StatusReturnedByTutor, ActionResubmit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Authorize(tt.role, tt.from, tt.action, Input{Reason: "x", TemplateID: int64p(1)})
			if err != ErrTransitionNotAllowed {
				t.Errorf("Authorize() error = %v, want ErrTransitionNotAllowed", err)
			}
		})
	}
}

func TestAuthorizeRequiredInputs(t *testing.T) {
	if _, err := Authorize(models.RoleTutor, models.StatusPendingTutor, ActionReturn, Input{Reason: "   "}); err != ErrReasonRequired {
		t.Errorf("blank reason: error = %v, want ErrReasonRequired", err)
	}
	if _, err := Authorize(models.RoleHOD, models.StatusPendingHOD, ActionForward, Input{}); err != ErrTemplateRequired {
		t.Errorf("missing template: error = %v, want ErrTemplateRequired", err)
	}
	if _, err := Authorize(models.RoleHOD, models.StatusPendingHOD, ActionForward, Input{TemplateID: int64p(0)}); err != ErrTemplateRequired {
		t.Errorf("zero template id: error = %v, want ErrTemplateRequired", err)
	}
	// Tutor forward needs no template.
	if _, err := Authorize(models.RoleTutor, models.StatusPendingTutor, ActionForward, Input{}); err != nil {
		t.Errorf("tutor forward: error = %v, want nil", err)
	}
}

func TestPendingStatusFor(t *testing.T) {
	if s, ok := PendingStatusFor(models.RoleTutor); !ok || s != models.StatusPendingTutor {
		t.Errorf("tutor queue = %q, %v", s, ok)
	}
	if s, ok := PendingStatusFor(models.RoleHOD); !ok || s != models.StatusPendingHOD {
		t.Errorf("hod queue = %q, %v", s, ok)
	}
	if s, ok := PendingStatusFor(models.RolePrincipal); !ok || s != models.StatusPendingPrincipal {
		t.Errorf("principal queue = %q, %v", s, ok)
	}
	if _, ok := PendingStatusFor(models.RoleAdmin); ok {
		t.Error("admin should have no pending queue")
	}
}
