package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for room activity, exposed on /metrics by the API
// server.
var (
	participantsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "plaza",
		Name:      "participants",
		Help:      "Number of participants currently joined.",
	})

	gamesActiveGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "plaza",
		Name:      "games_active",
		Help:      "Number of active paired game sessions.",
	})

	chatMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "plaza",
		Name:      "chat_messages_total",
		Help:      "Broadcast chat messages routed.",
	})

	privateMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "plaza",
		Name:      "private_messages_total",
		Help:      "Private messages delivered to a sender/target pair.",
	})

	privateMessageErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "plaza",
		Name:      "private_message_errors_total",
		Help:      "Private messages addressed to a name with no live match.",
	})

	gamesStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "plaza",
		Name:      "games_started_total",
		Help:      "Paired game sessions created by invites.",
	})

	gamesEndedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plaza",
		Name:      "games_ended_total",
		Help:      "Paired game sessions terminated, by result.",
	}, []string{"result"})
)
