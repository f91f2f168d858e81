package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/model"
	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/repository"
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

func createListing(t *testing.T, repo *repository.ListingRepository, code string) *model.Listing {
	t.Helper()
	listing, err := repo.Create(context.Background(), testListing(code))
	require.NoError(t, err)
	return listing
}

func createApplicant(t *testing.T, repo *repository.ApplicantRepository, contactCode string, listingID int) *model.Applicant {
	t.Helper()
	applicant, err := repo.Create(context.Background(), model.Applicant{
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
