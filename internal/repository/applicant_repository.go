package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

type ApplicantRepository struct {
	db *gorm.DB
}

func NewApplicantRepository(db *gorm.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

func (r *ApplicantRepository) Create(ctx context.Context, applicant model.Applicant) (*model.Applicant, error) {
	var saved model.Applicant
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO applicant (
			name,
			national_registration_number,
			contact_code,
			application_date,
			application_type,
			status,
			listing_id
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING
			id,
			name,
			national_registration_number,
			contact_code,
			application_date,
			application_type,
			status,
			listing_id
	`,
		applicant.Name,
		applicant.NationalRegistrationNumber,
		applicant.ContactCode,
		applicant.ApplicationDate,
		applicant.ApplicationType,
		applicant.Status,
		applicant.ListingID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ApplicantRepository) GetByID(ctx context.Context, id int) (*model.Applicant, error) {
	var applicant model.Applicant
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			national_registration_number,
			contact_code,
			application_date,
			application_type,
			status,
			listing_id
		FROM applicant
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&applicant).Error
	if err != nil {
		return nil, err
	}
	if applicant.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &applicant, nil
}

func (r *ApplicantRepository) GetByListingID(ctx context.Context, listingID int) ([]model.Applicant, error) {
	var applicants []model.Applicant
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			national_registration_number,
			contact_code,
			application_date,
			application_type,
			status,
			listing_id
		FROM applicant
		WHERE listing_id = ?
		ORDER BY application_date ASC, id ASC
	`, listingID).Scan(&applicants).Error
	if err != nil {
		return nil, err
	}
	return applicants, nil
}

// UpdateStatus sets the applicant status. Passing a transaction handle scopes
// the write to that transaction.
func (r *ApplicantRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id int, status model.ApplicantStatus) error {
	result := conn(r.db, tx).WithContext(ctx).Exec(`
		UPDATE applicant SET status = ? WHERE id = ?
	`, status, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoRowsUpdated
	}
	return nil
}

// ApplicationExists reports whether the contact already applied for the
// listing.
func (r *ApplicantRepository) ApplicationExists(ctx context.Context, contactCode string, listingID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1) FROM applicant WHERE contact_code = ? AND listing_id = ?
	`, contactCode, listingID).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
