package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Bostads-AB-Mimer/onecore-leasing/internal/service"
)

// Scheduler runs the expiry poller: offers past their expiry and listings
// past their publish window are closed on a cron schedule. Expiry is enforced
// here, outside the lifecycle engine, which only stores the timestamps.
type Scheduler struct {
	cron    *cron.Cron
	leasing *service.LeasingService
	offers  *service.OfferService
	log     zerolog.Logger
}

func New(leasing *service.LeasingService, offers *service.OfferService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		leasing: leasing,
		offers:  offers,
		log:     log,
	}
}

// Start registers the expiry job and launches the cron loop.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runExpiry); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", schedule).Msg("expiry poller started")
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runExpiry() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	now := time.Now().UTC()

	expiredOffers, err := s.offers.ExpireDue(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("expire offers failed")
	} else if expiredOffers > 0 {
		s.log.Info().Int("count", expiredOffers).Msg("offers expired")
	}

	expiredListings, err := s.leasing.ExpireListings(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("expire listings failed")
	} else if expiredListings > 0 {
		s.log.Info().Int("count", expiredListings).Msg("listings expired")
	}
}
