package web

import (
	"errors"

	"github.com/PeterRema/calendario-project/internal/domain"
	"github.com/PeterRema/calendario-project/internal/service"
	"github.com/PeterRema/calendario-project/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidBody = errors.New("invalid request body")

func (s *Server) handleGetProfile(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok {
		return s.apiError(ctx, errNotAuthenticated)
	}
	user, err := s.auth.GetUser(ctx.Context(), claims.UserID)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.JSON(convertUserToDTO(user))
}

func (s *Server) handleUpdateProfile(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok {
		return s.apiError(ctx, errNotAuthenticated)
	}
	var req updateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
	}
	user, err := s.auth.UpdateName(ctx.Context(), claims.UserID, req.Name)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.JSON(convertUserToDTO(user))
}

func (s *Server) handleChangePassword(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok {
		return s.apiError(ctx, errNotAuthenticated)
	}
	var req changePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
	}
	err := s.auth.ChangePassword(ctx.Context(), claims.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"ok": true})
}

func (s *Server) handleListUsers(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok || !claims.IsAdmin() {
		return s.apiError(ctx, errForbidden)
	}
	list, err := s.auth.ListUsers(ctx.Context())
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.JSON(convertUsersToDTO(list))
}

func (s *Server) handleCreateUser(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok || !claims.IsAdmin() {
		return s.apiError(ctx, errForbidden)
	}
	var req createUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
	}
	user, tempPassword, err := s.auth.CreateUser(ctx.Context(), req.Name, req.Email, req.Role, req.TempPassword)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":         convertUserToDTO(user),
		"tempPassword": tempPassword,
	})
}

func (s *Server) handleDeleteUser(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok || !claims.IsAdmin() {
		return s.apiError(ctx, errForbidden)
	}
	targetID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return jsonError(ctx, fiber.StatusNotFound, errors.New("user not found"))
	}
	err = s.auth.DeleteUser(ctx.Context(), claims.UserID, targetID)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"ok": true})
}

func (s *Server) handleResetPassword(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok || !claims.IsAdmin() {
		return s.apiError(ctx, errForbidden)
	}
	targetID, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return jsonError(ctx, fiber.StatusNotFound, errors.New("user not found"))
	}
	var req resetPasswordRequest
	// the body is optional here
	_ = ctx.BodyParser(&req)
	tempPassword, err := s.auth.ResetPassword(ctx.Context(), targetID, req.TempPassword)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"ok": true, "tempPassword": tempPassword})
}

func (s *Server) handleListActivities(ctx *fiber.Ctx) error {
	_, ok := claimsFromCtx(ctx)
	if !ok {
		return s.apiError(ctx, errNotAuthenticated)
	}
	var filter storage.Filter
	if v := ctx.Query("type"); v != "" {
		filter.Type = domain.ActivityType(v)
	}
	if v := ctx.Query("start"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
		}
		filter.Start = t
	}
	if v := ctx.Query("end"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
		}
		filter.End = t
	}
	list, err := s.activities.List(ctx.Context(), filter)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.JSON(convertActivitiesToDTO(list))
}

func (s *Server) handleCreateActivity(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok {
		return s.apiError(ctx, errNotAuthenticated)
	}
	var req createActivityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
	}
	if req.Type == "" || req.StartDate == "" || req.EndDate == "" {
		return jsonError(ctx, fiber.StatusBadRequest, errors.New("type, start date and end date are required"))
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
	}
	activity, err := s.activities.Create(ctx.Context(), claims.UserID, req.Type, start, end, req.Note)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(convertActivityToDTO(activity))
}

func (s *Server) handleGetActivity(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok {
		return s.apiError(ctx, errNotAuthenticated)
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return jsonError(ctx, fiber.StatusNotFound, storage.ErrNotFound)
	}
	activity, err := s.activities.Get(ctx.Context(), claims.UserID, id)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.JSON(convertActivityToDTO(activity))
}

func (s *Server) handleUpdateActivity(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok {
		return s.apiError(ctx, errNotAuthenticated)
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return jsonError(ctx, fiber.StatusNotFound, storage.ErrNotFound)
	}
	var req updateActivityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
	}
	upd := service.Update{
		Type: req.Type,
		Note: req.Note,
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
		}
		upd.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			return jsonError(ctx, fiber.StatusBadRequest, errInvalidBody)
		}
		upd.EndDate = &t
	}
	activity, err := s.activities.Update(ctx.Context(), claims.UserID, id, upd)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.JSON(convertActivityToDTO(activity))
}

func (s *Server) handleDeleteActivity(ctx *fiber.Ctx) error {
	claims, ok := claimsFromCtx(ctx)
	if !ok {
		return s.apiError(ctx, errNotAuthenticated)
	}
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return jsonError(ctx, fiber.StatusNotFound, storage.ErrNotFound)
	}
	err = s.activities.Delete(ctx.Context(), claims.UserID, id)
	if err != nil {
		return s.apiError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"ok": true})
}
