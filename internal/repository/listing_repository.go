package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, listing model.Listing) (*model.Listing, error) {
	var saved model.Listing
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO listing (
			rental_object_code,
			address,
			monthly_rent,
			district_code,
			district_caption,
			block_code,
			block_caption,
			object_type_code,
			object_type_caption,
			published_from,
			published_to,
			vacant_from,
			waiting_list_type,
			status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING
			id,
			rental_object_code,
			address,
			monthly_rent,
			district_code,
			district_caption,
			block_code,
			block_caption,
			object_type_code,
			object_type_caption,
			published_from,
			published_to,
			vacant_from,
			waiting_list_type,
			status,
			created_at
	`,
		listing.RentalObjectCode,
		listing.Address,
		listing.MonthlyRent,
		listing.DistrictCode,
		listing.DistrictCaption,
		listing.BlockCode,
		listing.BlockCaption,
		listing.ObjectTypeCode,
		listing.ObjectTypeCaption,
		listing.PublishedFrom,
		listing.PublishedTo,
		listing.VacantFrom,
		listing.WaitingListType,
		listing.Status,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id int) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			rental_object_code,
			address,
			monthly_rent,
			district_code,
			district_caption,
			block_code,
			block_caption,
			object_type_code,
			object_type_caption,
			published_from,
			published_to,
			vacant_from,
			waiting_list_type,
			status,
			created_at
		FROM listing
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&listing).Error
	if err != nil {
		return nil, err
	}
	if listing.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &listing, nil
}

// GetActiveByRentalObjectCode returns the single ACTIVE listing for a rental
// object, if one exists.
func (r *ListingRepository) GetActiveByRentalObjectCode(ctx context.Context, rentalObjectCode string) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			rental_object_code,
			address,
			monthly_rent,
			district_code,
			district_caption,
			block_code,
			block_caption,
			object_type_code,
			object_type_caption,
			published_from,
			published_to,
			vacant_from,
			waiting_list_type,
			status,
			created_at
		FROM listing
		WHERE rental_object_code = ? AND status = ?
		LIMIT 1
	`, rentalObjectCode, model.ListingStatusActive).Scan(&listing).Error
	if err != nil {
		return nil, err
	}
	if listing.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &listing, nil
}

// UpdateStatuses sets the status of every listed id. Passing a transaction
// handle scopes the write to that transaction.
func (r *ListingRepository) UpdateStatuses(ctx context.Context, tx *gorm.DB, ids []int, status model.ListingStatus) error {
	if len(ids) == 0 {
		return nil
	}
	result := conn(r.db, tx).WithContext(ctx).Exec(`
		UPDATE listing SET status = ? WHERE id IN ?
	`, status, ids)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoRowsUpdated
	}
	return nil
}

// ListActivePublishedBefore returns ACTIVE listings whose publish window has
// lapsed, for the expiry poller.
func (r *ListingRepository) ListActivePublishedBefore(ctx context.Context, cutoff time.Time) ([]model.Listing, error) {
	var listings []model.Listing
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			rental_object_code,
			address,
			monthly_rent,
			district_code,
			district_caption,
			block_code,
			block_caption,
			object_type_code,
			object_type_caption,
			published_from,
			published_to,
			vacant_from,
			waiting_list_type,
			status,
			created_at
		FROM listing
		WHERE status = ? AND published_to < ?
		ORDER BY published_to ASC
	`, model.ListingStatusActive, cutoff).Scan(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
