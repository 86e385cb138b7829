package services

import (
	"database/sql"
	"errors"
	"fmt"

	"medstock_backend/internal/models"
	"medstock_backend/internal/repositories"
)

// UpdateHospitalRequest carries editable profile fields. Email and password
// are not editable through this path.
type UpdateHospitalRequest struct {
	Name          string   `json:"name" binding:"required"`
	Address       string   `json:"address" binding:"required"`
	City          string   `json:"city" binding:"required"`
	State         string   `json:"state" binding:"required"`
	ZipCode       string   `json:"zip_code" binding:"required"`
	PhoneNumber   string   `json:"phone_number" binding:"required"`
	ContactPerson string   `json:"contact_person" binding:"required"`
	LicenseNumber string   `json:"license_number" binding:"required"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// --- HospitalService Interface ---
type HospitalService interface {
	GetHospitals() ([]models.Hospital, error)
	GetHospitalByID(hospitalID int64) (*models.Hospital, error)
	UpdateHospital(hospitalID int64, req UpdateHospitalRequest) (*models.Hospital, error)
	DeleteHospital(hospitalID int64) error
	GetHospitalStats(hospitalID int64) (*models.HospitalStats, error)
}

type hospitalService struct {
	hospitalRepo repositories.HospitalRepository
	db           *sql.DB
}

// NewHospitalService creates a new instance of HospitalService.
func NewHospitalService(hospitalRepo repositories.HospitalRepository, db *sql.DB) HospitalService {
	return &hospitalService{hospitalRepo: hospitalRepo, db: db}
}

func (s *hospitalService) GetHospitals() ([]models.Hospital, error) {
	hospitals, err := s.hospitalRepo.GetHospitals()
	if err != nil {
		return nil, fmt.Errorf("failed to get hospitals: %w", err)
	}
	return hospitals, nil
}

func (s *hospitalService) GetHospitalByID(hospitalID int64) (*models.Hospital, error) {
	hospital, err := s.hospitalRepo.FindHospitalByID(hospitalID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHospitalNotFound
		}
		return nil, fmt.Errorf("failed to get hospital by ID: %w", err)
	}
	return hospital, nil
}

func (s *hospitalService) UpdateHospital(hospitalID int64, req UpdateHospitalRequest) (*models.Hospital, error) {
	hospital := models.Hospital{
		ID:            hospitalID,
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		PhoneNumber:   req.PhoneNumber,
		ContactPerson: req.ContactPerson,
		LicenseNumber: req.LicenseNumber,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}

	if err := s.hospitalRepo.UpdateHospital(s.db, &hospital); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHospitalNotFound
		}
		return nil, fmt.Errorf("failed to update hospital: %w", err)
	}
	return s.GetHospitalByID(hospitalID)
}

// DeleteHospital removes the hospital account. Its inventory items and
// transactions are removed by the database cascade.
func (s *hospitalService) DeleteHospital(hospitalID int64) error {
	if err := s.hospitalRepo.DeleteHospital(s.db, hospitalID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrHospitalNotFound
		}
		return fmt.Errorf("failed to delete hospital: %w", err)
	}
	return nil
}

func (s *hospitalService) GetHospitalStats(hospitalID int64) (*models.HospitalStats, error) {
	if _, err := s.GetHospitalByID(hospitalID); err != nil {
		return nil, err
	}
	stats, err := s.hospitalRepo.GetHospitalStats(hospitalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hospital stats: %w", err)
	}
	return stats, nil
}
