package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medstock_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// HospitalRepository defines the interface for hospital-related database operations.
type HospitalRepository interface {
	CreateHospital(executor SQLExecutor, hospital *models.Hospital, hashedPassword string) (int64, error)
	FindHospitalByEmail(email string) (*models.Hospital, string, error) // Returns Hospital, HashedPassword, Error
	FindHospitalByID(hospitalID int64) (*models.Hospital, error)
	GetHospitals() ([]models.Hospital, error)
	UpdateHospital(executor SQLExecutor, hospital *models.Hospital) error
	DeleteHospital(executor SQLExecutor, hospitalID int64) error
	GetHospitalStats(hospitalID int64) (*models.HospitalStats, error)
}

type hospitalRepository struct {
	db *sql.DB
}

// NewHospitalRepository creates a new instance of HospitalRepository.
func NewHospitalRepository(db *sql.DB) HospitalRepository {
	return &hospitalRepository{db: db}
}

const hospitalColumns = `id, name, address, city, state, zip_code, phone_number, email,
	       contact_person, license_number, latitude, longitude, created_at, updated_at`

func scanHospital(row interface{ Scan(...interface{}) error }, h *models.Hospital) error {
	return row.Scan(
		&h.ID, &h.Name, &h.Address, &h.City, &h.State, &h.ZipCode, &h.PhoneNumber, &h.Email,
		&h.ContactPerson, &h.LicenseNumber, &h.Latitude, &h.Longitude, &h.CreatedAt, &h.UpdatedAt,
	)
}

// CreateHospital inserts a new hospital into the database.
// Email uniqueness is enforced by the hospitals_email_key constraint and
// surfaced as ErrDuplicateKey.
func (r *hospitalRepository) CreateHospital(executor SQLExecutor, hospital *models.Hospital, hashedPassword string) (int64, error) {
	query := `INSERT INTO hospitals
	            (name, address, city, state, zip_code, phone_number, email, password_hash,
	             contact_person, license_number, latitude, longitude, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`

	currentTime := time.Now()

	var hospitalID int64
	err := executor.QueryRow(
		query,
		hospital.Name, hospital.Address, hospital.City, hospital.State, hospital.ZipCode,
		hospital.PhoneNumber, hospital.Email, hashedPassword,
		hospital.ContactPerson, hospital.LicenseNumber, hospital.Latitude, hospital.Longitude,
		currentTime, currentTime,
	).Scan(&hospitalID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating hospital: %v", ErrDatabaseError, err)
	}
	return hospitalID, nil
}

// FindHospitalByEmail retrieves a hospital by email.
// It returns the hospital model, the stored password hash, and an error if any.
func (r *hospitalRepository) FindHospitalByEmail(email string) (*models.Hospital, string, error) {
	hospital := &models.Hospital{}
	var hashedPassword string
	query := `SELECT id, name, address, city, state, zip_code, phone_number, email, password_hash,
	                 contact_person, license_number, latitude, longitude, created_at, updated_at
	          FROM hospitals
	          WHERE email = $1`

	err := r.db.QueryRow(query, email).Scan(
		&hospital.ID, &hospital.Name, &hospital.Address, &hospital.City, &hospital.State,
		&hospital.ZipCode, &hospital.PhoneNumber, &hospital.Email, &hashedPassword,
		&hospital.ContactPerson, &hospital.LicenseNumber, &hospital.Latitude, &hospital.Longitude,
		&hospital.CreatedAt, &hospital.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding hospital by email: %v", ErrDatabaseError, err)
	}
	return hospital, hashedPassword, nil
}

// FindHospitalByID retrieves a hospital by its ID. The password hash is not
// populated; this method serves profile reads, not credential checks.
func (r *hospitalRepository) FindHospitalByID(hospitalID int64) (*models.Hospital, error) {
	hospital := &models.Hospital{}
	query := `SELECT ` + hospitalColumns + ` FROM hospitals WHERE id = $1`

	err := scanHospital(r.db.QueryRow(query, hospitalID), hospital)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding hospital by ID %d: %v", ErrDatabaseError, hospitalID, err)
	}
	return hospital, nil
}

// GetHospitals lists every registered hospital (public directory).
func (r *hospitalRepository) GetHospitals() ([]models.Hospital, error) {
	query := `SELECT ` + hospitalColumns + ` FROM hospitals ORDER BY name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying hospitals: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	hospitals := []models.Hospital{}
	for rows.Next() {
		var h models.Hospital
		if err := scanHospital(rows, &h); err != nil {
			return nil, fmt.Errorf("%w: scanning hospital: %v", ErrDatabaseError, err)
		}
		hospitals = append(hospitals, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating hospital rows: %v", ErrDatabaseError, err)
	}
	return hospitals, nil
}

// UpdateHospital updates the profile fields of an existing hospital.
// The email and password are not touched here.
func (r *hospitalRepository) UpdateHospital(executor SQLExecutor, hospital *models.Hospital) error {
	query := `UPDATE hospitals
	          SET name = $1, address = $2, city = $3, state = $4, zip_code = $5,
	              phone_number = $6, contact_person = $7, license_number = $8,
	              latitude = $9, longitude = $10, updated_at = $11
	          WHERE id = $12`
	result, err := executor.Exec(query,
		hospital.Name, hospital.Address, hospital.City, hospital.State, hospital.ZipCode,
		hospital.PhoneNumber, hospital.ContactPerson, hospital.LicenseNumber,
		hospital.Latitude, hospital.Longitude, time.Now(), hospital.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating hospital ID %d: %v", ErrDatabaseError, hospital.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for hospital update ID %d: %v", ErrDatabaseError, hospital.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteHospital removes a hospital. Inventory items and transactions cascade.
func (r *hospitalRepository) DeleteHospital(executor SQLExecutor, hospitalID int64) error {
	result, err := executor.Exec(`DELETE FROM hospitals WHERE id = $1`, hospitalID)
	if err != nil {
		return fmt.Errorf("%w: deleting hospital ID %d: %v", ErrDatabaseError, hospitalID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting hospital ID %d: %v", ErrDatabaseError, hospitalID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetHospitalStats aggregates inventory and sales figures for one hospital.
func (r *hospitalRepository) GetHospitalStats(hospitalID int64) (*models.HospitalStats, error) {
	stats := &models.HospitalStats{ItemsByCategory: []models.CategoryStat{}}

	query := `SELECT
	            (SELECT COUNT(*) FROM inventory_items WHERE hospital_id = $1),
	            (SELECT COALESCE(SUM(quantity), 0) FROM inventory_items WHERE hospital_id = $1),
	            (SELECT COUNT(*) FROM transactions WHERE hospital_id = $1),
	            (SELECT COALESCE(SUM(total_amount), 0) FROM transactions WHERE hospital_id = $1)`
	err := r.db.QueryRow(query, hospitalID).Scan(
		&stats.TotalItems, &stats.TotalQuantity, &stats.TotalTransactions, &stats.TotalSales,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregating stats for hospital ID %d: %v", ErrDatabaseError, hospitalID, err)
	}

	categoryQuery := `SELECT category, COUNT(*), COALESCE(SUM(quantity), 0)
	                  FROM inventory_items
	                  WHERE hospital_id = $1
	                  GROUP BY category
	                  ORDER BY category`
	rows, err := r.db.Query(categoryQuery, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying category stats for hospital ID %d: %v", ErrDatabaseError, hospitalID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cs models.CategoryStat
		if err := rows.Scan(&cs.Category, &cs.Count, &cs.TotalQuantity); err != nil {
			return nil, fmt.Errorf("%w: scanning category stat: %v", ErrDatabaseError, err)
		}
		stats.ItemsByCategory = append(stats.ItemsByCategory, cs)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating category stat rows: %v", ErrDatabaseError, err)
	}
	return stats, nil
}
