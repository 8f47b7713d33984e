package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PostsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "quill", Name: "posts_created_total", Help: "Number of posts inserted into the store."},
	)
	PostsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "quill", Name: "posts_updated_total", Help: "Number of post updates applied."},
	)
	PostsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "quill", Name: "posts_deleted_total", Help: "Number of posts removed from the store."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quill", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quill", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(PostsCreated)
	reg.MustRegister(PostsUpdated)
	reg.MustRegister(PostsDeleted)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
