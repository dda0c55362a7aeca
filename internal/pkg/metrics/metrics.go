// Package metrics defines and registers all custom Prometheus metrics of the
// catalog API. It is the single source of truth for metric names, labels and
// help strings. Metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bilemo"

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheRequestsTotal counts response cache lookups.
// Labels:
//   - resource: key family (e.g. "product-index", "user-detail")
//   - result: "hit", "miss" or "error" (store failure, treated as a miss)
var CacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of response cache lookups, by key family and result.",
	},
	[]string{"resource", "result"},
)

// CacheInvalidationsTotal counts cache key invalidations.
// Label:
//   - result: "ok", "queued" (handed to the retry queue), "dropped" or "failed"
var CacheInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Total number of cache key invalidations, by result.",
	},
	[]string{"result"},
)

// InvalidationQueueDepth tracks keys waiting for a retried delete in each worker channel.
var InvalidationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "invalidation_queue_depth",
		Help:      "Current number of cache keys pending in each invalidation worker channel.",
	},
	[]string{"worker_id"},
)

// ── User directory metrics ────────────────────────────────────────────────────

var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of simple users created by customers.",
	},
)

var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted.",
	},
)

// QuotaRejectionsTotal counts user creations refused because the owner reached its quota.
var QuotaRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quota_rejections_total",
		Help:      "Total number of user creations rejected by the owned users quota.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// OwnerLockWaitDuration measures how long user creation waits for its owner lock.
var OwnerLockWaitDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "owner_lock_wait_seconds",
		Help:      "Time spent acquiring the per-owner user creation lock.",
		Buckets:   prometheus.DefBuckets,
	},
)
