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
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/rules"
)

// LeasingService owns listings and applications: publishing, applying under
// the rental rules, and producing the ranked applicant list an offer is based
// on.
type LeasingService struct {
	listings   *repository.ListingRepository
	applicants *repository.ApplicantRepository
	engine     *rules.Engine
	contacts   ContactDirectory
	estates    EstateCodeLookup
	areas      ResidentialAreaLookup
	log        zerolog.Logger
}

func NewLeasingService(
	listings *repository.ListingRepository,
	applicants *repository.ApplicantRepository,
	engine *rules.Engine,
	contacts ContactDirectory,
	estates EstateCodeLookup,
	areas ResidentialAreaLookup,
	log zerolog.Logger,
) *LeasingService {
	return &LeasingService{
		listings:   listings,
		applicants: applicants,
		engine:     engine,
		contacts:   contacts,
		estates:    estates,
		areas:      areas,
		log:        log,
	}
}

// CreateListing publishes a vacant parking space. Only one ACTIVE listing may
// exist per rental object code; the partial unique index backs this up under
// concurrency.
func (s *LeasingService) CreateListing(ctx context.Context, listing model.Listing) (*model.Listing, error) {
	if listing.RentalObjectCode == "" {
		return nil, fmt.Errorf("%w: rental object code is required", ErrInvalidInput)
	}
	if listing.Status == "" {
		listing.Status = model.ListingStatusActive
	}

	if listing.Status == model.ListingStatusActive {
		_, err := s.listings.GetActiveByRentalObjectCode(ctx, listing.RentalObjectCode)
		if err == nil {
			return nil, fmt.Errorf("%w: active listing for %s already exists", ErrConflict, listing.RentalObjectCode)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	saved, err := s.listings.Create(ctx, listing)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: active listing for %s already exists", ErrConflict, listing.RentalObjectCode)
		}
		return nil, err
	}
	return saved, nil
}

func (s *LeasingService) GetListing(ctx context.Context, id int) (*model.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %d", ErrNotFound, id)
		}
		return nil, err
	}
	return listing, nil
}

// DetermineApplicationType runs the rental rules for a contact against a
// rental object. Property-level rules are authoritative when the estate is
// configured; otherwise the area rules run against the active listing's
// district. Ineligibility comes back as a value, not an error.
func (s *LeasingService) DetermineApplicationType(ctx context.Context, contactCode, rentalObjectCode string) (rules.Eligibility, error) {
	estate, err := s.estates.ResolveEstateCode(ctx, rentalObjectCode)
	if err != nil {
		return rules.Eligibility{}, fmt.Errorf("resolve estate code for %s: %w", rentalObjectCode, err)
	}
	if estate == nil {
		return rules.Eligibility{}, fmt.Errorf("%w: rental object %s", ErrNotFound, rentalObjectCode)
	}

	applicant, err := s.detailedFromDirectory(ctx, contactCode)
	if err != nil {
		return rules.Eligibility{}, err
	}

	if s.engine.PropertyHasSpecificRules(estate.EstateCode) {
		contractEstateCodes, err := s.resolveContractEstateCodes(ctx, applicant)
		if err != nil {
			return rules.Eligibility{}, err
		}
		return s.engine.EvaluatePropertyRules(estate.EstateCode, applicant, contractEstateCodes), nil
	}

	listing, err := s.listings.GetActiveByRentalObjectCode(ctx, rentalObjectCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rules.Eligibility{}, fmt.Errorf("%w: no active listing for %s", ErrNotFound, rentalObjectCode)
		}
		return rules.Eligibility{}, err
	}
	return s.engine.EvaluateAreaRules(listing.DistrictCode, applicant), nil
}

type ApplyInput struct {
	ListingID   int
	ContactCode string
}

// Apply submits a contact's application for a listing. Duplicate applications
// conflict; ineligible contacts are rejected with the business reason.
func (s *LeasingService) Apply(ctx context.Context, input ApplyInput) (*model.Applicant, error) {
	if input.ContactCode == "" {
		return nil, fmt.Errorf("%w: contact code is required", ErrInvalidInput)
	}

	listing, err := s.GetListing(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != model.ListingStatusActive {
		return nil, fmt.Errorf("%w: listing %d is %s", ErrInvalidState, listing.ID, listing.Status)
	}

	exists, err := s.applicants.ApplicationExists(ctx, input.ContactCode, listing.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s already applied for listing %d", ErrConflict, input.ContactCode, listing.ID)
	}

	eligibility, err := s.DetermineApplicationType(ctx, input.ContactCode, listing.RentalObjectCode)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		return nil, fmt.Errorf("%w: %s", ErrIneligible, eligibility.Reason)
	}

	contact, err := s.contacts.GetContact(ctx, input.ContactCode)
	if err != nil {
		return nil, fmt.Errorf("get contact %s: %w", input.ContactCode, err)
	}
	if contact == nil {
		return nil, fmt.Errorf("%w: contact %s", ErrNotFound, input.ContactCode)
	}

	applicant, err := s.applicants.Create(ctx, model.Applicant{
		Name:                       contact.FullName,
		NationalRegistrationNumber: contact.NationalRegistrationNumber,
		ContactCode:                input.ContactCode,
		ApplicationDate:            time.Now().UTC(),
		ApplicationType:            eligibility.ApplicationType,
		Status:                     model.ApplicantStatusActive,
		ListingID:                  listing.ID,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s already applied for listing %d", ErrConflict, input.ContactCode, listing.ID)
		}
		return nil, err
	}

	s.log.Info().
		Int("applicant_id", applicant.ID).
		Int("listing_id", listing.ID).
		Str("application_type", string(applicant.ApplicationType)).
		Msg("application submitted")
	return applicant, nil
}

// GetApplicantsWithPriority enriches every applicant of a listing with
// directory data, assigns priority tiers and returns the ranked list.
func (s *LeasingService) GetApplicantsWithPriority(ctx context.Context, listingID int) (*model.Listing, []model.DetailedApplicant, error) {
	listing, err := s.GetListing(ctx, listingID)
	if err != nil {
		return nil, nil, err
	}

	applicants, err := s.applicants.GetByListingID(ctx, listing.ID)
	if err != nil {
		return nil, nil, err
	}

	detailed := make([]model.DetailedApplicant, 0, len(applicants))
	for _, applicant := range applicants {
		enriched, err := s.enrichApplicant(ctx, applicant)
		if err != nil {
			return nil, nil, err
		}
		detailed = append(detailed, enriched)
	}

	prioritized, err := rules.AddPriorityToApplicants(*listing, detailed)
	if err != nil {
		return nil, nil, err
	}
	return listing, rules.SortApplicants(prioritized), nil
}

// Withdraw takes an applicant out of the running. Terminal applicants are
// never touched again.
func (s *LeasingService) Withdraw(ctx context.Context, applicantID int, byAdmin bool) error {
	applicant, err := s.applicants.GetByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: applicant %d", ErrNotFound, applicantID)
		}
		return err
	}
	if applicant.Status.Terminal() {
		return fmt.Errorf("%w: applicant %d is %s", ErrInvalidState, applicant.ID, applicant.Status)
	}

	status := model.ApplicantStatusWithdrawnByUser
	if byAdmin {
		status = model.ApplicantStatusWithdrawnByAdmin
	}
	return s.applicants.UpdateStatus(ctx, nil, applicant.ID, status)
}

// ExpireListings closes ACTIVE listings whose publish window has lapsed.
// Called by the expiry poller.
func (s *LeasingService) ExpireListings(ctx context.Context, now time.Time) (int, error) {
	lapsed, err := s.listings.ListActivePublishedBefore(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(lapsed) == 0 {
		return 0, nil
	}

	ids := make([]int, 0, len(lapsed))
	for _, listing := range lapsed {
		ids = append(ids, listing.ID)
	}
	if err := s.listings.UpdateStatuses(ctx, nil, ids, model.ListingStatusExpired); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *LeasingService) detailedFromDirectory(ctx context.Context, contactCode string) (model.DetailedApplicant, error) {
	var detailed model.DetailedApplicant
	detailed.ContactCode = contactCode

	current, upcoming, err := s.contacts.GetHousingContracts(ctx, contactCode)
	if err != nil {
		return detailed, fmt.Errorf("get housing contracts for %s: %w", contactCode, err)
	}
	parking, err := s.contacts.GetParkingSpaceContracts(ctx, contactCode)
	if err != nil {
		return detailed, fmt.Errorf("get parking contracts for %s: %w", contactCode, err)
	}

	detailed.CurrentHousingContract = current
	detailed.UpcomingHousingContract = upcoming
	detailed.ParkingSpaceContracts = parking

	if err := s.resolveLeaseAreas(ctx, &detailed); err != nil {
		return detailed, err
	}
	return detailed, nil
}

func (s *LeasingService) enrichApplicant(ctx context.Context, applicant model.Applicant) (model.DetailedApplicant, error) {
	detailed, err := s.detailedFromDirectory(ctx, applicant.ContactCode)
	if err != nil {
		return detailed, err
	}
	detailed.Applicant = applicant

	contact, err := s.contacts.GetContact(ctx, applicant.ContactCode)
	if err != nil {
		return detailed, fmt.Errorf("get contact %s: %w", applicant.ContactCode, err)
	}
	if contact != nil {
		detailed.Address = contact.Address
	}

	points, err := s.contacts.GetQueuePoints(ctx, applicant.ContactCode)
	if err != nil {
		return detailed, fmt.Errorf("get queue points for %s: %w", applicant.ContactCode, err)
	}
	detailed.QueuePoints = points
	return detailed, nil
}

// resolveLeaseAreas fills in residential areas the directory left out, using
// the area lookup keyed by rental property id.
func (s *LeasingService) resolveLeaseAreas(ctx context.Context, applicant *model.DetailedApplicant) error {
	resolve := func(lease *model.Lease) error {
		if lease == nil || lease.ResidentialArea != nil || lease.RentalPropertyID == "" {
			return nil
		}
		area, err := s.areas.ResolveResidentialArea(ctx, lease.RentalPropertyID)
		if err != nil {
			return fmt.Errorf("resolve residential area for %s: %w", lease.RentalPropertyID, err)
		}
		lease.ResidentialArea = area
		return nil
	}

	if err := resolve(applicant.CurrentHousingContract); err != nil {
		return err
	}
	if err := resolve(applicant.UpcomingHousingContract); err != nil {
		return err
	}
	for i := range applicant.ParkingSpaceContracts {
		if err := resolve(&applicant.ParkingSpaceContracts[i]); err != nil {
			return err
		}
	}
	return nil
}

// resolveContractEstateCodes maps each of the applicant's contracts to its
// estate code for the property-level rules.
func (s *LeasingService) resolveContractEstateCodes(ctx context.Context, applicant model.DetailedApplicant) (map[string]string, error) {
	codes := make(map[string]string)

	add := func(rentalObjectCode string) error {
		if rentalObjectCode == "" {
			return nil
		}
		if _, done := codes[rentalObjectCode]; done {
			return nil
		}
		estate, err := s.estates.ResolveEstateCode(ctx, rentalObjectCode)
		if err != nil {
			return fmt.Errorf("resolve estate code for %s: %w", rentalObjectCode, err)
		}
		if estate != nil {
			codes[rentalObjectCode] = estate.EstateCode
		}
		return nil
	}

	for _, lease := range applicant.HousingContracts() {
		if err := add(lease.RentalObjectCode); err != nil {
			return nil, err
		}
	}
	for _, lease := range applicant.ParkingSpaceContracts {
		if err := add(lease.RentalObjectCode); err != nil {
			return nil, err
		}
	}
	return codes, nil
}
