package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/repository"
)

// OfferService drives the offer state machine: ACTIVE is the only non-terminal
// status, and the accept/deny/expire transitions mutate listing, applicant and
// offer together through the Coordinator.
type OfferService struct {
	listings   *repository.ListingRepository
	applicants *repository.ApplicantRepository
	offers     *repository.OfferRepository
	tx         *Coordinator
	log        zerolog.Logger
}

func NewOfferService(
	listings *repository.ListingRepository,
	applicants *repository.ApplicantRepository,
	offers *repository.OfferRepository,
	tx *Coordinator,
	log zerolog.Logger,
) *OfferService {
	return &OfferService{
		listings:   listings,
		applicants: applicants,
		offers:     offers,
		tx:         tx,
		log:        log,
	}
}

type CreateOfferInput struct {
	ListingID          int
	ApplicantID        int
	SelectedApplicants []model.DetailedApplicant
	ExpiresAt          time.Time
}

// Create persists a new ACTIVE offer with the ranked list frozen in. Listing
// and applicant statuses are not touched until the applicant answers.
func (s *OfferService) Create(ctx context.Context, input CreateOfferInput) (*model.Offer, error) {
	listing, err := s.listings.GetByID(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %d", ErrNotFound, input.ListingID)
		}
		return nil, err
	}
	if listing.Status != model.ListingStatusActive {
		return nil, fmt.Errorf("%w: listing %d is %s", ErrInvalidState, listing.ID, listing.Status)
	}

	applicant, err := s.applicants.GetByID(ctx, input.ApplicantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: applicant %d", ErrNotFound, input.ApplicantID)
		}
		return nil, err
	}
	if applicant.ListingID != listing.ID {
		return nil, fmt.Errorf(
			"%w: applicant %d belongs to listing %d",
			ErrInvalidInput, applicant.ID, applicant.ListingID,
		)
	}
	if applicant.Status.Terminal() {
		return nil, fmt.Errorf("%w: applicant %d is %s", ErrInvalidState, applicant.ID, applicant.Status)
	}

	now := time.Now().UTC()
	offer, err := s.offers.Create(ctx, repository.CreateOfferParams{
		ListingID:          listing.ID,
		ApplicantID:        applicant.ID,
		SelectedApplicants: input.SelectedApplicants,
		ExpiresAt:          input.ExpiresAt,
		SentAt:             &now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("offer_id", offer.ID).
		Int("listing_id", listing.ID).
		Int("applicant_id", applicant.ID).
		Msg("offer created")
	return offer, nil
}

func (s *OfferService) Get(ctx context.Context, id int) (*model.Offer, error) {
	offer, err := s.offers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: offer %d", ErrNotFound, id)
		}
		return nil, err
	}
	return offer, nil
}

// Accept moves listing, applicant and offer to their accepted statuses in one
// transaction: the listing is assigned, the applicant recorded as accepting,
// the offer closed. Step order is fixed; a failing step rolls everything back.
func (s *OfferService) Accept(ctx context.Context, offerID int) error {
	offer, err := s.activeOffer(ctx, offerID)
	if err != nil {
		return err
	}

	answeredAt := time.Now().UTC()
	return s.tx.Run(ctx, []TxStep{
		{Name: StepUpdateListing, Run: func(tx *gorm.DB) error {
			return s.listings.UpdateStatuses(ctx, tx, []int{offer.ListingID}, model.ListingStatusAssigned)
		}},
		{Name: StepUpdateApplicant, Run: func(tx *gorm.DB) error {
			return s.applicants.UpdateStatus(ctx, tx, offer.OfferedApplicantID, model.ApplicantStatusOfferAccepted)
		}},
		{Name: StepUpdateOffer, Run: func(tx *gorm.DB) error {
			return s.offers.UpdateStatus(ctx, tx, offer.ID, model.OfferStatusAccepted, &answeredAt)
		}},
	})
}

// Deny records the applicant's refusal. The listing is left untouched and
// returns to circulation implicitly.
func (s *OfferService) Deny(ctx context.Context, offerID int) error {
	offer, err := s.activeOffer(ctx, offerID)
	if err != nil {
		return err
	}

	answeredAt := time.Now().UTC()
	return s.tx.Run(ctx, []TxStep{
		{Name: StepUpdateApplicant, Run: func(tx *gorm.DB) error {
			return s.applicants.UpdateStatus(ctx, tx, offer.OfferedApplicantID, model.ApplicantStatusOfferDeclined)
		}},
		{Name: StepUpdateOffer, Run: func(tx *gorm.DB) error {
			return s.offers.UpdateStatus(ctx, tx, offer.ID, model.OfferStatusDeclined, &answeredAt)
		}},
	})
}

// ExpireDue closes every ACTIVE offer whose expiry has passed and puts the
// applicant back into a non-terminal status. Called by the expiry poller.
func (s *OfferService) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.offers.ListActiveExpiredBefore(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, offer := range due {
		err := s.tx.Run(ctx, []TxStep{
			{Name: StepUpdateApplicant, Run: func(tx *gorm.DB) error {
				return s.applicants.UpdateStatus(ctx, tx, offer.OfferedApplicantID, model.ApplicantStatusOfferExpired)
			}},
			{Name: StepUpdateOffer, Run: func(tx *gorm.DB) error {
				return s.offers.UpdateStatus(ctx, tx, offer.ID, model.OfferStatusExpired, nil)
			}},
		})
		if err != nil {
			s.log.Error().Err(err).Int("offer_id", offer.ID).Msg("expire offer failed")
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *OfferService) activeOffer(ctx context.Context, offerID int) (*model.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: offer %d", ErrNotFound, offerID)
		}
		return nil, err
	}
	if offer.Status.Terminal() {
		return nil, fmt.Errorf("%w: offer %d is %s", ErrInvalidState, offer.ID, offer.Status)
	}
	return offer, nil
}
