package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crud-app/records-api/internal/api/middleware"
	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

// RecordHandler serves the caller's own data records.
type RecordHandler struct {
	service ports.RecordService
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

func ownerID(c echo.Context) (string, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return "", domain.ErrUnauthenticated
	}
	return user.ID, nil
}

// Create handles POST /data.
//
// @Summary      Create a record
// @Tags         data
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      recordRequest  true  "Record fields"
// @Success      201   {object}  recordResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /data [post]
func (h *RecordHandler) Create(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	rec, err := h.service.Create(c.Request().Context(), owner, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, recordResponse{Message: "Data created successfully", Data: rec})
}

// List handles GET /data.
//
// @Summary      List own records
// @Tags         data
// @Produce      json
// @Success      200  {object}  recordListResponse
// @Failure      401  {object}  map[string]string
// @Router       /data [get]
func (h *RecordHandler) List(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	records, err := h.service.List(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*domain.Record{}
	}
	return c.JSON(http.StatusOK, recordListResponse{Data: records, Count: len(records)})
}

// Get handles GET /data/:id.
//
// @Summary      Get an own record
// @Tags         data
// @Produce      json
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  recordResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /data/{id} [get]
func (h *RecordHandler) Get(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	rec, err := h.service.Get(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recordResponse{Data: rec})
}

// Update handles PUT /data/:id.
//
// @Summary      Update an own record
// @Tags         data
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        id    path      string         true  "Record id"
// @Param        body  body      recordRequest  true  "Record fields"
// @Success      200   {object}  recordResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /data/{id} [put]
func (h *RecordHandler) Update(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}
	var req recordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	rec, err := h.service.Update(c.Request().Context(), owner, c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recordResponse{Message: "Data updated successfully", Data: rec})
}

// Delete handles DELETE /data/:id.
//
// @Summary      Delete an own record
// @Tags         data
// @Produce      json
// @Param        id   path      string  true  "Record id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /data/{id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), owner, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Data deleted successfully"})
}
