package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/acoe/bonafide/internal/app/workflow"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
)

func handleErr(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	HandleAPIError(c, err)
	return w
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, 401},
		{"expired token", apperrors.ErrTokenExpired, 401},
		{"revoked token", apperrors.ErrTokenRevoked, 401},
		{"disabled account", apperrors.ErrAccountDisabled, 403},
		{"permission denied", apperrors.ErrPermissionDenied, 403},
		{"student not found", apperrors.ErrStudentNotFound, 404},
		{"request not found", apperrors.ErrRequestNotFound, 404},
		{"certificate not found", apperrors.ErrCertificateNotFound, 404},
		{"username taken", apperrors.ErrUsernameExists, 409},
		{"register number taken", apperrors.ErrRegisterNumberTaken, 409},
		{"concurrent status change", apperrors.ErrRequestConflict, 409},
		{"transition not allowed", workflow.ErrTransitionNotAllowed, 409},
		{"department has relations", apperrors.ErrDepartmentHasRelations, 409},
		{"reason required", workflow.ErrReasonRequired, 400},
		{"template required", workflow.ErrTemplateRequired, 400},
		{"bad request", apperrors.ErrBadRequest, 400},
		{"render failure", apperrors.ErrRenderFailed, 500},
		{"unknown error", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := handleErr(t, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), apperrors.ErrBatchNotFound)
	w := handleErr(t, wrapped)
	assert.Equal(t, 404, w.Code)
}
