package handlers

import (
	"net/http"

	"transport_backend/internal/services"
	"transport_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	*BaseHandler
	vehicleService services.VehicleService
}

func NewVehicleHandler(base *BaseHandler, vehicleService services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		BaseHandler:    base,
		vehicleService: vehicleService,
	}
}

func (h *VehicleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/vehicles", h.ListVehicles)
	rg.POST("/vehicles", h.RegisterVehicle)
	rg.GET("/vehicle/:id", h.GetVehicle)
	rg.PUT("/vehicle/:id", h.UpdateVehicle)
	rg.DELETE("/vehicle/:id", h.DeleteVehicle)
}

func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	ownerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, err := h.vehicleService.ListVehicles(c.Request.Context(), h.GetDB(c), ownerID, ParsePagination(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondList(c, "Vehicles fetched successfully", page)
}

// RegisterVehicle godoc
// @Summary Зарегистрировать транспорт
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateVehicleRequest true "Транспорт"
// @Success 201 {object} object "{success, message, vehicle}"
// @Failure 409 {object} apperrors.ErrorResponse "RC номер уже зарегистрирован"
// @Router /api/vehicles [post]
func (h *VehicleHandler) RegisterVehicle(c *gin.Context) {
	ownerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateVehicleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vehicle, err := h.vehicleService.RegisterVehicle(c.Request.Context(), h.GetDB(c), ownerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Vehicle registered successfully",
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	ownerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicleService.GetVehicle(c.Request.Context(), h.GetDB(c), ownerID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Vehicle fetched successfully", vehicle)
}

func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	ownerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateVehicleRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), h.GetDB(c), ownerID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondData(c, http.StatusOK, "Vehicle updated successfully", vehicle)
}

func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	ownerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), h.GetDB(c), ownerID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	RespondMessage(c, http.StatusOK, "Vehicle deleted successfully")
}
