package handlers

import (
	"errors"
	"net/http"

	"medstock_backend/internal/services"
	"medstock_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// RegisterHospital handles hospital registration.
func (h *AuthHandler) RegisterHospital(c *gin.Context) {
	var req services.RegisterHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "RegisterHospital: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	authResp, err := h.authService.RegisterHospital(req)
	if err != nil {
		utils.LogError(err, "RegisterHospital: Error from authService.RegisterHospital")
		if errors.Is(err, services.ErrEmailExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to register hospital.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, authResp)
}

// LoginHospital handles hospital login.
func (h *AuthHandler) LoginHospital(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "LoginHospital: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	authResp, err := h.authService.LoginHospital(req)
	if err != nil {
		utils.LogError(err, "LoginHospital: Error from authService.LoginHospital")
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to login.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// GetCurrentHospital retrieves the profile of the authenticated hospital.
// A token whose hospital no longer exists is treated as unauthorized.
func (h *AuthHandler) GetCurrentHospital(c *gin.Context) {
	hospitalID, ok := HospitalIDFromContext(c)
	if !ok {
		return
	}

	hospital, err := h.authService.GetHospitalProfile(hospitalID)
	if err != nil {
		utils.LogError(err, "GetCurrentHospital: Error from authService.GetHospitalProfile for ID "+utils.Int64ToStr(hospitalID))
		if errors.Is(err, services.ErrHospitalNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve hospital profile.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, hospital)
}

// HospitalIDFromContext extracts the authenticated hospital ID set by the auth
// middleware. On failure it writes a 401 response and returns ok=false.
func HospitalIDFromContext(c *gin.Context) (int64, bool) {
	raw, exists := c.Get("hospitalID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Hospital not authenticated.", "Missing hospital ID in context"))
		return 0, false
	}
	hospitalID, ok := raw.(int64)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Hospital ID format incorrect.", "Invalid hospital ID format in context"))
		return 0, false
	}
	return hospitalID, true
}
