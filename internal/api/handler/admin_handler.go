package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/crud-app/records-api/internal/api/middleware"
	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

// AdminHandler serves the admin area. Every route sits behind middleware.AdminOnly.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func actorID(c echo.Context) (string, error) {
	admin := middleware.AdminUser(c)
	if admin == nil {
		return "", domain.ErrForbidden
	}
	return admin.ID, nil
}

// queryInt reads a positive integer query param; anything else yields 0 so
// the service default applies.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// Dashboard handles GET /admin.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	d, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(d))
}

// ListUsers handles GET /admin/users?page=&limit=.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Param        page   query     int  false  "Page (default 1)"
// @Param        limit  query     int  false  "Page size (default 10, max 100)"
// @Success      200    {object}  userListResponse
// @Failure      403    {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, err := h.service.ListUsers(c.Request().Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}
	users := page.Users
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, userListResponse{
		Users: users,
		Pagination: pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			TotalUsers: page.Total,
			TotalPages: page.TotalPages,
		},
	})
}

// UpdateUserRole handles PUT /admin/users/:userId/role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        userId  path      string       true  "User id"
// @Param        body    body      roleRequest  true  "user or admin"
// @Success      200     {object}  userResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /admin/users/{userId}/role [put]
func (h *AdminHandler) UpdateUserRole(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.UpdateUserRole(c.Request().Context(), actor, c.Param("userId"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Message: "User role updated successfully", User: user})
}

// SetUserStatus handles PUT /admin/users/:userId/status.
//
// @Summary      Activate or deactivate a user
// @Tags         admin
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        userId  path      string         true  "User id"
// @Param        body    body      statusRequest  true  "New status"
// @Success      200     {object}  userResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /admin/users/{userId}/status [put]
func (h *AdminHandler) SetUserStatus(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.IsActive == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "isActive must be a boolean")
	}

	user, err := h.service.SetUserStatus(c.Request().Context(), actor, c.Param("userId"), *req.IsActive)
	if err != nil {
		return err
	}
	msg := "User deactivated successfully"
	if user.IsActive {
		msg = "User activated successfully"
	}
	return c.JSON(http.StatusOK, userResponse{Message: msg, User: user})
}

// DeleteUser handles DELETE /admin/users/:userId. The user's records go with it.
//
// @Summary      Delete a user and their data
// @Tags         admin
// @Produce      json
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  messageResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.Request().Context(), actor, c.Param("userId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User and associated data deleted successfully"})
}

// Stats handles GET /admin/stats.
//
// @Summary      Site statistics
// @Tags         admin
// @Produce      json
// @Success      200  {object}  statsResponse
// @Router       /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	s, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{
		TotalUsers:       s.TotalUsers,
		ActiveUsers:      s.ActiveUsers,
		VerifiedUsers:    s.VerifiedUsers,
		AdminUsers:       s.AdminUsers,
		TotalRecords:     s.TotalRecords,
		UsersThisMonth:   s.UsersThisMonth,
		RecordsThisMonth: s.RecordsThisMonth,
	})
}

// UpdateRecord handles PUT /admin/data/:id without an ownership filter.
//
// @Summary      Update any record
// @Tags         admin
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path      string         true  "Record id"
// @Param        body  body      recordRequest  true  "Record fields"
// @Success      200   {object}  recordResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /admin/data/{id} [put]
func (h *AdminHandler) UpdateRecord(c echo.Context) error {
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	rec, err := h.service.UpdateAnyRecord(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recordResponse{Message: "Data updated successfully", Data: rec})
}

// DeleteRecord handles DELETE /admin/data/:id without an ownership filter.
//
// @Summary      Delete any record
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/data/{id} [delete]
func (h *AdminHandler) DeleteRecord(c echo.Context) error {
	if err := h.service.DeleteAnyRecord(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Data deleted successfully"})
}
