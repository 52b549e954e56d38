package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/acoe/bonafide/internal/app/models/dto"
	"github.com/acoe/bonafide/internal/app/services"
	"github.com/acoe/bonafide/internal/middleware"
	"github.com/acoe/bonafide/internal/pkg/apperrors"
)

// parseIDParam reads a positive int64 path parameter. On failure it writes
// the 400 response and reports false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name).
			WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// bindJSON binds and validates a JSON body. On failure it writes the 400
// response and reports false.
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// currentActor resolves the authenticated profile and role from the
// request context. On failure it writes the 401 response and reports false.
func currentActor(ctx *gin.Context) (services.Actor, bool) {
	profileID, okID := middleware.CurrentProfileID(ctx)
	role, okRole := middleware.CurrentRole(ctx)
	if !okID || !okRole {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return services.Actor{}, false
	}
	return services.Actor{ProfileID: profileID, Role: role}, true
}

// queryInt64Ptr reads an optional int64 query parameter
func queryInt64Ptr(ctx *gin.Context, name string) *int64 {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
