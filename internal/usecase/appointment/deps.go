package appointment

import (
	"time"

	"go.opentelemetry.io/otel"

	"github.com/BruksfildServices01/horacerta/internal/audit"
	"github.com/BruksfildServices01/horacerta/internal/metrics"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

var tracer = otel.Tracer("horacerta.internal.usecase.appointment")

// Deps carries the collaborators shared by the appointment use cases. Zero
// values are replaced with working defaults.
type Deps struct {
	Audit   *audit.Dispatcher
	Metrics *metrics.BookingMetrics
	Logger  *logging.Logger

	// Location is used when a shop has no timezone of its own.
	Location *time.Location
	// WeeksToSchedule is used when a shop has no booking window set.
	WeeksToSchedule int
	Now             func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.WeeksToSchedule <= 0 {
		d.WeeksToSchedule = 2
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}
