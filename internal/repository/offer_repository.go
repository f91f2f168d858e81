package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

type CreateOfferParams struct {
	ListingID          int
	ApplicantID        int
	SelectedApplicants []model.DetailedApplicant
	ExpiresAt          time.Time
	SentAt             *time.Time
}

// offerRow carries the raw selected_applicants column next to the scalar
// offer fields.
type offerRow struct {
	ID                 int
	ListingID          int
	ApplicantID        int
	SelectedApplicants []byte
	Status             model.OfferStatus
	ExpiresAt          time.Time
	SentAt             *time.Time
	AnsweredAt         *time.Time
	CreatedAt          time.Time
}

func (row offerRow) toOffer() (*model.Offer, error) {
	offer := &model.Offer{
		ID:                 row.ID,
		ListingID:          row.ListingID,
		OfferedApplicantID: row.ApplicantID,
		Status:             row.Status,
		ExpiresAt:          row.ExpiresAt,
		SentAt:             row.SentAt,
		AnsweredAt:         row.AnsweredAt,
		CreatedAt:          row.CreatedAt,
	}
	if len(row.SelectedApplicants) > 0 {
		if err := json.Unmarshal(row.SelectedApplicants, &offer.SelectedApplicants); err != nil {
			return nil, fmt.Errorf("decode selected applicants: %w", err)
		}
	}
	return offer, nil
}

// Create persists a new ACTIVE offer. The ranked applicant list is serialized
// once here and never rewritten: it is the audit snapshot of the ranking at
// offer creation.
func (r *OfferRepository) Create(ctx context.Context, params CreateOfferParams) (*model.Offer, error) {
	snapshot, err := json.Marshal(params.SelectedApplicants)
	if err != nil {
		return nil, fmt.Errorf("encode selected applicants: %w", err)
	}

	var row offerRow
	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO offer (
			listing_id,
			applicant_id,
			selected_applicants,
			status,
			expires_at,
			sent_at
		) VALUES (?, ?, ?, ?, ?, ?)
		RETURNING
			id,
			listing_id,
			applicant_id,
			selected_applicants,
			status,
			expires_at,
			sent_at,
			answered_at,
			created_at
	`,
		params.ListingID,
		params.ApplicantID,
		string(snapshot),
		model.OfferStatusActive,
		params.ExpiresAt,
		params.SentAt,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return row.toOffer()
}

func (r *OfferRepository) GetByID(ctx context.Context, id int) (*model.Offer, error) {
	var row offerRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			listing_id,
			applicant_id,
			selected_applicants,
			status,
			expires_at,
			sent_at,
			answered_at,
			created_at
		FROM offer
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return row.toOffer()
}

// UpdateStatus sets the offer status and answer timestamp. Passing a
// transaction handle scopes the write to that transaction.
func (r *OfferRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id int, status model.OfferStatus, answeredAt *time.Time) error {
	result := conn(r.db, tx).WithContext(ctx).Exec(`
		UPDATE offer SET status = ?, answered_at = ? WHERE id = ?
	`, status, answeredAt, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoRowsUpdated
	}
	return nil
}

// ListActiveExpiredBefore returns ACTIVE offers whose expiry passed, for the
// expiry poller.
func (r *OfferRepository) ListActiveExpiredBefore(ctx context.Context, cutoff time.Time) ([]model.Offer, error) {
	var rows []offerRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			id,
			listing_id,
			applicant_id,
			selected_applicants,
			status,
			expires_at,
			sent_at,
			answered_at,
			created_at
		FROM offer
		WHERE status = ? AND expires_at < ?
		ORDER BY expires_at ASC
	`, model.OfferStatusActive, cutoff).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	offers := make([]model.Offer, 0, len(rows))
	for _, row := range rows {
		offer, err := row.toOffer()
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}
	return offers, nil
}
