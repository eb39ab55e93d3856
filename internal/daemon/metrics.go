package daemon

import (
	"github.com/theirongolddev/blossom/internal/model"

	"github.com/prometheus/client_golang/prometheus"
)

type collectors struct {
	totalRaised    prometheus.Gauge
	thisMonth      prometheus.Gauge
	gifts          prometheus.Gauge
	recurringGifts prometheus.Gauge
	byFocusArea    *prometheus.GaugeVec

	polls          prometheus.Counter
	pollErrors     prometheus.Counter
	intakeAccepted prometheus.Counter
	intakeRejected prometheus.Counter
	events         *prometheus.CounterVec
}

func newCollectors(reg prometheus.Registerer) *collectors {
	c := &collectors{
		totalRaised: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blossom_total_raised_dollars",
			Help: "Sum of every gift in the ledger.",
		}),
		thisMonth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blossom_this_month_dollars",
			Help: "Sum of gifts dated in the current UTC month.",
		}),
		gifts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blossom_gifts",
			Help: "Number of gifts in the ledger.",
		}),
		recurringGifts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blossom_recurring_gifts",
			Help: "Number of monthly or quarterly gifts in the ledger.",
		}),
		byFocusArea: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "blossom_focus_area_dollars",
			Help: "Sum of gifts per focus area.",
		}, []string{"focus_area"}),
		polls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blossom_polls_total",
			Help: "Ledger polls run by the daemon.",
		}),
		pollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blossom_poll_errors_total",
			Help: "Ledger polls that failed to read the slot.",
		}),
		intakeAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blossom_intake_accepted_total",
			Help: "Gifts recorded over HTTP.",
		}),
		intakeRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blossom_intake_rejected_total",
			Help: "HTTP submissions dropped by validation.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blossom_events_total",
			Help: "Events published to subscribers, by type.",
		}, []string{"type"}),
	}

	reg.MustRegister(
		c.totalRaised, c.thisMonth, c.gifts, c.recurringGifts, c.byFocusArea,
		c.polls, c.pollErrors, c.intakeAccepted, c.intakeRejected, c.events,
	)
	return c
}

func (c *collectors) set(s Snapshot) {
	c.totalRaised.Set(s.TotalRaised.InexactFloat64())
	c.thisMonth.Set(s.ThisMonth.InexactFloat64())
	c.gifts.Set(float64(s.Gifts))
	c.recurringGifts.Set(float64(s.RecurringGifts))
	for _, a := range model.FocusAreas() {
		c.byFocusArea.WithLabelValues(a.Slug()).Set(s.ByFocusArea[a.Slug()].InexactFloat64())
	}
}
