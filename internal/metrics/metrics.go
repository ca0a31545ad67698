package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

var (
	relationMetricsOnce sync.Once

	friendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_requests_total",
			Help: "Total number of friend request attempts",
		},
		[]string{"status"},
	)

	friendResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_responses_total",
			Help: "Total number of friend request accept/reject attempts",
		},
		[]string{"decision", "status"},
	)

	unfriendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unfriends_total",
			Help: "Total number of unfriend attempts",
		},
		[]string{"status"},
	)

	followsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "follows_total",
			Help: "Total number of follow/unfollow/block attempts",
		},
		[]string{"action", "status"},
	)

	counterSyncTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "counter_sync_events_total",
			Help: "Total number of counter synchronization events processed",
		},
		[]string{"routing_key", "status"},
	)
)

func RegisterRelationMetrics() {
	relationMetricsOnce.Do(func() {
		prometheus.MustRegister(friendRequestsTotal, friendResponsesTotal, unfriendsTotal, followsTotal, counterSyncTotal)
	})
}

func IncFriendRequest(status string) {
	RegisterRelationMetrics()
	friendRequestsTotal.WithLabelValues(status).Inc()
}

func IncFriendResponse(decision, status string) {
	RegisterRelationMetrics()
	friendResponsesTotal.WithLabelValues(decision, status).Inc()
}

func IncUnfriend(status string) {
	RegisterRelationMetrics()
	unfriendsTotal.WithLabelValues(status).Inc()
}

func IncFollow(action, status string) {
	RegisterRelationMetrics()
	followsTotal.WithLabelValues(action, status).Inc()
}

func IncCounterSync(routingKey, status string) {
	RegisterRelationMetrics()
	counterSyncTotal.WithLabelValues(routingKey, status).Inc()
}
