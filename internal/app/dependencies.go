package app

import (
	"github.com/improneuf/bookingcal/internal/config"
	"github.com/improneuf/bookingcal/internal/utils"
	"github.com/improneuf/bookingcal/pkg/booking"
	"github.com/improneuf/bookingcal/pkg/calendar"
	"github.com/improneuf/bookingcal/pkg/yesplan"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	YesPlanClient yesplan.Client

	BookingService *booking.Service
	BookingHandler *booking.Handler

	CalendarHandler *calendar.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and
// handlers. A missing YesPlan API key fails here, before the server
// starts.
func BuildDependencies(cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	client, err := yesplan.NewClient(cfg.YesPlan)
	if err != nil {
		return nil, err
	}
	deps.YesPlanClient = client

	deps.Clock = utils.SystemClock{}

	deps.BookingService = booking.NewService(deps.YesPlanClient, cfg.Calendar)
	deps.BookingHandler = booking.NewHandler(deps.BookingService)

	deps.CalendarHandler = calendar.NewHandler(deps.BookingService, deps.Clock)

	return deps, nil
}
