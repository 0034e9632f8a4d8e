package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SourceDev     = "dev"
	SourcePayment = "payment"
)

var (
	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instapic_tickets_issued_total",
			Help: "Tickets issued, by issuance path",
		},
		[]string{"source"},
	)

	issuanceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instapic_ticket_issuance_failures_total",
			Help: "Rejected or failed issuances, by reason",
		},
		[]string{"reason"},
	)

	codeCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "instapic_ticket_code_collisions_total",
			Help: "Drawn codes found taken, by the existence check or the unique ticket_code index",
		},
	)

	redeemChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instapic_redeem_checks_total",
			Help: "Mirror redeem checks, by result",
		},
		[]string{"result"},
	)

	publishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "instapic_ticket_event_publish_failures_total",
			Help: "Ticket events that could not be delivered to Kafka, by topic",
		},
		[]string{"topic"},
	)

	sessionsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "instapic_sessions_completed_total",
			Help: "Session-complete calls applied to a ticket",
		},
	)
)

func RecordTicketIssued(source string) {
	ticketsIssued.WithLabelValues(source).Inc()
}

func RecordIssuanceFailure(reason string) {
	issuanceFailures.WithLabelValues(reason).Inc()
}

func RecordCodeCollision() {
	codeCollisions.Inc()
}

// RecordRedeemCheck takes "valid" or one of the Mirror reason codes.
func RecordRedeemCheck(result string) {
	redeemChecks.WithLabelValues(result).Inc()
}

func RecordPublishFailure(topic string) {
	publishFailures.WithLabelValues(topic).Inc()
}

func RecordSessionCompleted() {
	sessionsCompleted.Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
