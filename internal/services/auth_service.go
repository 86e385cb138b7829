package services

import (
	"database/sql"
	"errors"
	"fmt"

	"medstock_backend/internal/models"
	"medstock_backend/internal/repositories"
	"medstock_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Custom Service Errors ---
var (
	ErrHospitalNotFound   = errors.New("hospital not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// --- Data Transfer Objects (DTOs) ---

// RegisterHospitalRequest carries the registration payload.
type RegisterHospitalRequest struct {
	Name          string   `json:"name" binding:"required"`
	Address       string   `json:"address" binding:"required"`
	City          string   `json:"city" binding:"required"`
	State         string   `json:"state" binding:"required"`
	ZipCode       string   `json:"zip_code" binding:"required"`
	PhoneNumber   string   `json:"phone_number" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=8"`
	ContactPerson string   `json:"contact_person" binding:"required"`
	LicenseNumber string   `json:"license_number" binding:"required"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token    string           `json:"token"`
	Hospital *models.Hospital `json:"hospital"`
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterHospital(req RegisterHospitalRequest) (*AuthResponse, error)
	LoginHospital(req LoginRequest) (*AuthResponse, error)
	GetHospitalProfile(hospitalID int64) (*models.Hospital, error)
}

// --- authService Implementation ---
type authService struct {
	hospitalRepo repositories.HospitalRepository
	db           *sql.DB // Used as SQLExecutor for single repository calls
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(hospitalRepo repositories.HospitalRepository, db *sql.DB) AuthService {
	return &authService{
		hospitalRepo: hospitalRepo,
		db:           db,
	}
}

// minPasswordLength is also enforced by the request binding; the service keeps
// its own check so it holds for non-HTTP callers too.
const minPasswordLength = 8

// RegisterHospital hashes the password, persists the hospital, and issues a token.
func (s *authService) RegisterHospital(req RegisterHospitalRequest) (*AuthResponse, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: hospital name is required", ErrValidation)
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email address %q", ErrValidation, req.Email)
	}
	if !utils.IsValidPasswordLength(req.Password, minPasswordLength) {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hospital := models.Hospital{
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		PhoneNumber:   req.PhoneNumber,
		Email:         req.Email,
		ContactPerson: req.ContactPerson,
		LicenseNumber: req.LicenseNumber,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
	}

	hospitalID, err := s.hospitalRepo.CreateHospital(s.db, &hospital, string(hashedPasswordBytes))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to register hospital: %w", err)
	}

	registered, fetchErr := s.hospitalRepo.FindHospitalByID(hospitalID)
	if fetchErr != nil {
		// The hospital was created but fetching it back failed. Return at
		// least the ID so the caller is not left with nothing.
		hospital.ID = hospitalID
		registered = &hospital
	}

	token, err := utils.GenerateToken(registered.ID, registered.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	return &AuthResponse{Token: token, Hospital: registered}, nil
}

// LoginHospital verifies credentials and issues a token. The same error is
// returned whether the email is unknown or the password is wrong, so callers
// cannot probe for registered emails.
func (s *authService) LoginHospital(req LoginRequest) (*AuthResponse, error) {
	hospital, storedHash, err := s.hospitalRepo.FindHospitalByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(hospital.ID, hospital.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	hospital.PasswordHash = ""
	return &AuthResponse{Token: token, Hospital: hospital}, nil
}

// GetHospitalProfile retrieves a hospital's profile by its ID.
func (s *authService) GetHospitalProfile(hospitalID int64) (*models.Hospital, error) {
	hospital, err := s.hospitalRepo.FindHospitalByID(hospitalID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrHospitalNotFound
		}
		return nil, fmt.Errorf("failed to retrieve hospital profile: %w", err)
	}
	return hospital, nil
}
