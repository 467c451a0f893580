package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grupo8/reparafacil/internal/contract"
	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
)

// HeaderIdempotencyKey deduplicates retried creations.
const HeaderIdempotencyKey = "Idempotency-Key"

// ServiceHandler handles HTTP requests for repair requests.
type ServiceHandler struct {
	service ports.ServiceRequestService
}

func NewServiceHandler(service ports.ServiceRequestService) *ServiceHandler {
	return &ServiceHandler{service: service}
}

// List handles GET /servicios. Clients see their own requests, technicians
// the ones assigned to them.
//
// @Summary      List repair requests
// @Tags         servicios
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   contract.Service
// @Failure      401  {object}  contract.ErrorResponse
// @Router       /servicios [get]
func (h *ServiceHandler) List(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract.FromServiceRequests(items))
}

// Create handles POST /servicios.
//
// @Summary      Raise a repair request
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                         false  "Deduplication key"
// @Param        body             body      contract.CreateServiceRequest  true   "Request details"
// @Success      201              {object}  contract.Service
// @Success      200              {object}  contract.Service  "Replayed Idempotency-Key"
// @Failure      400              {object}  contract.ErrorResponse
// @Failure      403              {object}  contract.ErrorResponse
// @Failure      409              {object}  contract.ErrorResponse
// @Router       /servicios [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req contract.CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.Create(c.Request().Context(), ports.CreateServiceInput{
		Caller:         caller,
		Type:           req.Type,
		Description:    req.Description,
		Address:        req.Address,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, contract.FromServiceRequest(res.Request))
}

// Get handles GET /servicios/:id.
//
// @Summary      Get a repair request
// @Tags         servicios
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Service id"
// @Success      200  {object}  contract.Service
// @Failure      403  {object}  contract.ErrorResponse
// @Failure      404  {object}  contract.ErrorResponse
// @Router       /servicios/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	req, err := h.service.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract.FromServiceRequest(req))
}

// Update handles PATCH /servicios/:id. Only the status can be changed;
// technicians are assigned by the server.
//
// @Summary      Advance a repair request
// @Tags         servicios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                            true  "Service id"
// @Param        body  body      contract.UpdateServiceRequest  true  "New status"
// @Success      200   {object}  contract.Service
// @Failure      400   {object}  contract.ErrorResponse
// @Failure      403   {object}  contract.ErrorResponse
// @Failure      422   {object}  contract.ErrorResponse
// @Router       /servicios/{id} [patch]
func (h *ServiceHandler) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req contract.UpdateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.TechnicianID != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "tecnicoId is assigned by the server")
	}
	status, ok := domain.ParseServiceStatus(req.Status)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "estado must be one of: asignado en_proceso completado")
	}

	updated, err := h.service.UpdateStatus(c.Request().Context(), ports.UpdateServiceInput{
		Caller: caller,
		ID:     id,
		Status: status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract.FromServiceRequest(updated))
}
