package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "murmur_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ScheduledPostsPublished counts scheduled posts published by the worker.
	ScheduledPostsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "murmur_scheduled_posts_published_total",
		Help: "Total number of scheduled posts successfully published",
	})

	// ScheduledPostsFailed counts scheduled posts that failed terminally, by reason.
	ScheduledPostsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "murmur_scheduled_posts_failed_total",
		Help: "Total number of scheduled posts that failed to publish",
	}, []string{"reason"})

	// ScheduledPostsRequeued counts stale processing rows returned to the queue.
	ScheduledPostsRequeued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "murmur_scheduled_posts_requeued_total",
		Help: "Total number of stale scheduled posts requeued after a worker stall",
	})

	// PublishDelay records the gap between the requested publish time and the
	// actual publish time.
	PublishDelay = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "murmur_scheduled_post_publish_delay_seconds",
		Help:    "Delay between requested and actual publication of scheduled posts",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 300},
	})
)

// ObserveDBQuery records the latency of a traced SQL statement, labeled by
// the statement verb and target table.
func ObserveDBQuery(sql string, elapsed time.Duration) {
	operation, table := queryLabels(sql)
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// queryLabels derives low-cardinality metric labels from a SQL statement.
func queryLabels(sql string) (operation, table string) {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "other", "unknown"
	}

	operation = strings.ToLower(fields[0])
	switch operation {
	case "select", "delete":
		table = tokenAfter(fields, "from")
	case "insert":
		table = tokenAfter(fields, "into")
	case "update":
		if len(fields) > 1 {
			table = trimIdentifier(fields[1])
		}
	default:
		operation = "other"
	}
	if table == "" {
		table = "unknown"
	}
	return operation, table
}

func tokenAfter(fields []string, keyword string) string {
	for i, f := range fields {
		if strings.EqualFold(f, keyword) && i+1 < len(fields) {
			return trimIdentifier(fields[i+1])
		}
	}
	return ""
}

func trimIdentifier(s string) string {
	return strings.Trim(s, "\"`(,;")
}
