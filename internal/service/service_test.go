package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/repository"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/rules"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/service"
)

var testSchema = []string{
	`CREATE TABLE listing (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		rental_object_code TEXT NOT NULL,
		address TEXT,
		monthly_rent REAL NOT NULL DEFAULT 0,
		district_code TEXT,
		district_caption TEXT,
		block_code TEXT,
		block_caption TEXT,
		object_type_code TEXT,
		object_type_caption TEXT,
		published_from DATETIME NOT NULL,
		published_to DATETIME NOT NULL,
		vacant_from DATETIME,
		waiting_list_type TEXT,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE UNIQUE INDEX uq_listing_active_rental_object
		ON listing (rental_object_code) WHERE status = 'ACTIVE';`,
	`CREATE TABLE applicant (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		national_registration_number TEXT,
		contact_code TEXT NOT NULL,
		application_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		application_type TEXT,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		listing_id INTEGER NOT NULL REFERENCES listing(id)
	);`,
	`CREATE UNIQUE INDEX uq_applicant_contact_listing
		ON applicant (contact_code, listing_id);`,
	`CREATE TABLE offer (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		listing_id INTEGER NOT NULL REFERENCES listing(id),
		applicant_id INTEGER NOT NULL REFERENCES applicant(id),
		selected_applicants TEXT NOT NULL DEFAULT '[]',
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		expires_at DATETIME NOT NULL,
		sent_at DATETIME,
		answered_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// fakeDirectory is an in-memory stand-in for the property-management system,
// covering all three lookup interfaces.
type fakeDirectory struct {
	contacts map[string]model.Contact
	current  map[string]*model.Lease
	upcoming map[string]*model.Lease
	parking  map[string][]model.Lease
	points   map[string]int
	estates  map[string]model.Estate
	areas    map[string]model.ResidentialArea
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		contacts: map[string]model.Contact{},
		current:  map[string]*model.Lease{},
		upcoming: map[string]*model.Lease{},
		parking:  map[string][]model.Lease{},
		points:   map[string]int{},
		estates:  map[string]model.Estate{},
		areas:    map[string]model.ResidentialArea{},
	}
}

func (d *fakeDirectory) addContact(code, name string, points int) {
	d.contacts[code] = model.Contact{
		ContactCode: code,
		FullName:    name,
		Address:     "Teststigen 1",
	}
	d.points[code] = points
}

func (d *fakeDirectory) GetContact(_ context.Context, contactCode string) (*model.Contact, error) {
	contact, ok := d.contacts[contactCode]
	if !ok {
		return nil, nil
	}
	return &contact, nil
}

func (d *fakeDirectory) GetHousingContracts(_ context.Context, contactCode string) (current, upcoming *model.Lease, err error) {
	return d.current[contactCode], d.upcoming[contactCode], nil
}

func (d *fakeDirectory) GetParkingSpaceContracts(_ context.Context, contactCode string) ([]model.Lease, error) {
	return d.parking[contactCode], nil
}

func (d *fakeDirectory) GetQueuePoints(_ context.Context, contactCode string) (int, error) {
	return d.points[contactCode], nil
}

func (d *fakeDirectory) ResolveEstateCode(_ context.Context, rentalObjectCode string) (*model.Estate, error) {
	estate, ok := d.estates[rentalObjectCode]
	if !ok {
		return nil, nil
	}
	return &estate, nil
}

func (d *fakeDirectory) ResolveResidentialArea(_ context.Context, rentalPropertyID string) (*model.ResidentialArea, error) {
	area, ok := d.areas[rentalPropertyID]
	if !ok {
		return nil, nil
	}
	return &area, nil
}

func housingLease(district string) *model.Lease {
	return &model.Lease{
		LeaseID:          "H-" + district,
		Type:             "housingContract",
		RentalObjectCode: "HOME-" + district,
		Status:           "current",
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ResidentialArea:  &model.ResidentialArea{Code: district},
	}
}

func parkingLease(id, district string) model.Lease {
	return model.Lease{
		LeaseID:          id,
		Type:             "parkingSpaceContract",
		RentalObjectCode: id,
		Status:           "current",
		StartDate:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ResidentialArea:  &model.ResidentialArea{Code: district},
	}
}

func testListing(code string) model.Listing {
	return model.Listing{
		RentalObjectCode: code,
		Address:          "Gryta 12",
		MonthlyRent:      450,
		DistrictCode:     "OXB",
		DistrictCaption:  "Oxbacken",
		PublishedFrom:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		PublishedTo:      time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		VacantFrom:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		WaitingListType:  "parkingSpace",
		Status:           model.ListingStatusActive,
	}
}

type fixture struct {
	db         *gorm.DB
	listings   *repository.ListingRepository
	applicants *repository.ApplicantRepository
	offers     *repository.OfferRepository
	directory  *fakeDirectory
	leasing    *service.LeasingService
	offerSvc   *service.OfferService
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	listings := repository.NewListingRepository(db)
	applicants := repository.NewApplicantRepository(db)
	offers := repository.NewOfferRepository(db)
	directory := newFakeDirectory()
	engine := rules.NewEngine(rules.Config{
		PropertiesWithSpecificRules: []string{"EST-001"},
		AreasWithSpecificRules:      []string{"OXB"},
	})
	log := zerolog.Nop()

	return &fixture{
		db:         db,
		listings:   listings,
		applicants: applicants,
		offers:     offers,
		directory:  directory,
		leasing:    service.NewLeasingService(listings, applicants, engine, directory, directory, directory, log),
		offerSvc:   service.NewOfferService(listings, applicants, offers, service.NewCoordinator(db), log),
	}
}

func (f *fixture) createListing(t *testing.T, code string) *model.Listing {
	t.Helper()
	listing, err := f.listings.Create(context.Background(), testListing(code))
	require.NoError(t, err)
	return listing
}

func (f *fixture) createApplicant(t *testing.T, contactCode string, listingID int) *model.Applicant {
	t.Helper()
	applicant, err := f.applicants.Create(context.Background(), model.Applicant{
		Name:            "Test Applicant",
		ContactCode:     contactCode,
		ApplicationDate: time.Date(2026, 8, 5, 12, 0, 0, 0, time.UTC),
		ApplicationType: model.ApplicationTypeAdditional,
		Status:          model.ApplicantStatusActive,
		ListingID:       listingID,
	})
	require.NoError(t, err)
	return applicant
}

func (f *fixture) createOffer(t *testing.T, listingID, applicantID int) *model.Offer {
	t.Helper()
	offer, err := f.offerSvc.Create(context.Background(), service.CreateOfferInput{
		ListingID:   listingID,
		ApplicantID: applicantID,
		ExpiresAt:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return offer
}
