package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics counts booking outcomes. A nil receiver is a no-op.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	cancellationsTotal prometheus.Counter
	materializedTotal  *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horacerta",
			Subsystem: "booking",
			Name:      "appointments_total",
			Help:      "Appointment creation attempts by result",
		}, []string{"source", "result"}),
		cancellationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "horacerta",
			Subsystem: "booking",
			Name:      "cancellations_total",
			Help:      "Cancelled appointments",
		}),
		materializedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horacerta",
			Subsystem: "booking",
			Name:      "subscription_runs_total",
			Help:      "Subscription materialization outcomes",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.cancellationsTotal, m.materializedTotal)
	return m
}

func (m *BookingMetrics) ObserveBooking(source, result string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(source, result).Inc()
}

func (m *BookingMetrics) ObserveCancellation() {
	if m == nil {
		return
	}
	m.cancellationsTotal.Inc()
}

func (m *BookingMetrics) ObserveMaterialized(result string) {
	if m == nil {
		return
	}
	m.materializedTotal.WithLabelValues(result).Inc()
}

// ChatMetrics tracks the conversation engine.
type ChatMetrics struct {
	eventsTotal  *prometheus.CounterVec
	stepsPerTurn prometheus.Histogram
	latency      prometheus.Histogram
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "horacerta",
			Subsystem: "chat",
			Name:      "events_total",
			Help:      "Inbound chat events by final state",
		}, []string{"state"}),
		stepsPerTurn: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "horacerta",
			Subsystem: "chat",
			Name:      "steps_per_event",
			Help:      "Engine steps executed for one inbound event",
			Buckets:   []float64{1, 2, 4, 8, 16, 32},
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "horacerta",
			Subsystem: "chat",
			Name:      "event_latency_seconds",
			Help:      "Time spent handling one inbound event",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.eventsTotal, m.stepsPerTurn, m.latency)
	return m
}

func (m *ChatMetrics) ObserveEvent(state string, steps int, seconds float64) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(state).Inc()
	m.stepsPerTurn.Observe(float64(steps))
	m.latency.Observe(seconds)
}
