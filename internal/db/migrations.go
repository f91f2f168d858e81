package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'listing_status') THEN
			CREATE TYPE listing_status AS ENUM ('ACTIVE', 'ASSIGNED', 'EXPIRED', 'CLOSED');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'applicant_status') THEN
			CREATE TYPE applicant_status AS ENUM (
				'ACTIVE', 'ASSIGNED', 'OFFER_ACCEPTED', 'OFFER_DECLINED',
				'OFFER_EXPIRED', 'WITHDRAWN_BY_USER', 'WITHDRAWN_BY_ADMIN'
			);
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'offer_status') THEN
			CREATE TYPE offer_status AS ENUM ('ACTIVE', 'ACCEPTED', 'DECLINED', 'EXPIRED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS listing (
		id SERIAL PRIMARY KEY,
		rental_object_code VARCHAR(32) NOT NULL,
		address VARCHAR(255),
		monthly_rent NUMERIC(12,2) NOT NULL DEFAULT 0,
		district_code VARCHAR(32),
		district_caption VARCHAR(255),
		block_code VARCHAR(32),
		block_caption VARCHAR(255),
		object_type_code VARCHAR(32),
		object_type_caption VARCHAR(255),
		published_from TIMESTAMPTZ NOT NULL,
		published_to TIMESTAMPTZ NOT NULL,
		vacant_from TIMESTAMPTZ,
		waiting_list_type VARCHAR(64),
		status listing_status NOT NULL DEFAULT 'ACTIVE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_listing_active_rental_object
		ON listing (rental_object_code) WHERE status = 'ACTIVE';`,
	`CREATE TABLE IF NOT EXISTS applicant (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255),
		national_registration_number VARCHAR(32),
		contact_code VARCHAR(32) NOT NULL,
		application_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		application_type VARCHAR(16),
		status applicant_status NOT NULL DEFAULT 'ACTIVE',
		listing_id INTEGER NOT NULL REFERENCES listing(id)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_applicant_contact_listing
		ON applicant (contact_code, listing_id);`,
	`CREATE INDEX IF NOT EXISTS idx_applicant_listing_id ON applicant (listing_id);`,
	`CREATE TABLE IF NOT EXISTS offer (
		id SERIAL PRIMARY KEY,
		listing_id INTEGER NOT NULL REFERENCES listing(id),
		applicant_id INTEGER NOT NULL REFERENCES applicant(id),
		selected_applicants JSONB NOT NULL DEFAULT '[]',
		status offer_status NOT NULL DEFAULT 'ACTIVE',
		expires_at TIMESTAMPTZ NOT NULL,
		sent_at TIMESTAMPTZ,
		answered_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_offer_listing_id ON offer (listing_id);`,
	`CREATE INDEX IF NOT EXISTS idx_offer_status ON offer (status);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
