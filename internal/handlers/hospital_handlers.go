package handlers

import (
	"errors"
	"net/http"

	"medstock_backend/internal/services"
	"medstock_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// HospitalHandler holds the hospital service.
type HospitalHandler struct {
	hospitalService services.HospitalService
}

// NewHospitalHandler creates a new HospitalHandler.
func NewHospitalHandler(hs services.HospitalService) *HospitalHandler {
	return &HospitalHandler{hospitalService: hs}
}

// GetHospitals handles the public hospital directory listing.
func (h *HospitalHandler) GetHospitals(c *gin.Context) {
	hospitals, err := h.hospitalService.GetHospitals()
	if err != nil {
		utils.LogError(err, "GetHospitals: Error from hospitalService.GetHospitals")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch hospitals.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, hospitals)
}

// GetHospitalByID handles fetching a single hospital by ID.
func (h *HospitalHandler) GetHospitalByID(c *gin.Context) {
	hospitalID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid hospital ID format.", err.Error()))
		return
	}

	hospital, err := h.hospitalService.GetHospitalByID(hospitalID)
	if err != nil {
		utils.LogError(err, "GetHospitalByID: Error from hospitalService.GetHospitalByID for ID "+c.Param("id"))
		if errors.Is(err, services.ErrHospitalNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Hospital not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch hospital.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, hospital)
}

// ownHospitalID parses the path ID and verifies it matches the authenticated
// hospital. Profile edits, deletion, and stats never cross the tenant boundary.
func ownHospitalID(c *gin.Context) (int64, bool) {
	pathID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid hospital ID format.", err.Error()))
		return 0, false
	}
	authedID, ok := HospitalIDFromContext(c)
	if !ok {
		return 0, false
	}
	if pathID != authedID {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You may only act on your own hospital.", ""))
		return 0, false
	}
	return authedID, true
}

// UpdateHospital handles profile updates for the authenticated hospital.
func (h *HospitalHandler) UpdateHospital(c *gin.Context) {
	hospitalID, ok := ownHospitalID(c)
	if !ok {
		return
	}

	var req services.UpdateHospitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateHospital: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	hospital, err := h.hospitalService.UpdateHospital(hospitalID, req)
	if err != nil {
		utils.LogError(err, "UpdateHospital: Error from hospitalService.UpdateHospital")
		if errors.Is(err, services.ErrHospitalNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Hospital not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update hospital.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, hospital)
}

// DeleteHospital handles account deletion for the authenticated hospital.
func (h *HospitalHandler) DeleteHospital(c *gin.Context) {
	hospitalID, ok := ownHospitalID(c)
	if !ok {
		return
	}

	if err := h.hospitalService.DeleteHospital(hospitalID); err != nil {
		utils.LogError(err, "DeleteHospital: Error from hospitalService.DeleteHospital")
		if errors.Is(err, services.ErrHospitalNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Hospital not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete hospital.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Hospital and its records deleted successfully"})
}

// GetHospitalStats handles the per-hospital aggregate report.
func (h *HospitalHandler) GetHospitalStats(c *gin.Context) {
	hospitalID, ok := ownHospitalID(c)
	if !ok {
		return
	}

	stats, err := h.hospitalService.GetHospitalStats(hospitalID)
	if err != nil {
		utils.LogError(err, "GetHospitalStats: Error from hospitalService.GetHospitalStats")
		if errors.Is(err, services.ErrHospitalNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Hospital not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch hospital stats.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, stats)
}
