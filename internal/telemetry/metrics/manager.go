package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterFoodEntries         *prometheus.CounterVec
	CounterWorkouts            *prometheus.CounterVec
	CounterDietPlans           *prometheus.CounterVec
	CounterGenerationRequests  *prometheus.CounterVec
	CounterNutritionCacheHits  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter

	// gauges
	GaugeDietPlans       prometheus.Gauge
	GaugeLastRunUnixTime prometheus.Gauge

	// histograms
	HistGenerationDuration *prometheus.HistogramVec
	HistCommandDuration    *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fitdiet", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitdiet", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterFoodEntries := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "food_entries",
		Help:      "The total number of logged food entries",
	}, []string{"meal", "source"})
	counterWorkouts := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts",
		Help:      "The total number of workout ledger changes",
	}, []string{"action"})
	counterDietPlans := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "diet_plans",
		Help:      "The total number of diet plan store changes",
	}, []string{"action"})
	counterGenerationRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "generation_requests",
		Help:      "The total number of generation API requests",
	}, []string{"operation", "result"})
	counterNutritionCacheHits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "nutrition_cache_hits",
		Help:      "Nutrition lookups served from the local cache",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of generation requests denied by the rate limiter",
	})

	gaugeDietPlans := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "saved_diet_plans",
		Help:      "Current number of saved diet plans",
	})
	gaugeLastRunUnixTime := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "last_run_unix_time",
		Help:      "Unix time of the last command run",
	})

	histGenerationDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "generation_duration_seconds",
		Help:      "Histogram of generation API call durations in seconds",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 40, 60},
	}, []string{"operation"})
	histCommandDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "command_duration_seconds",
		Help:      "Histogram of CLI command durations in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 60},
	}, []string{"command", "status"})

	return &Manager{
		CounterFoodEntries:         counterFoodEntries,
		CounterWorkouts:            counterWorkouts,
		CounterDietPlans:           counterDietPlans,
		CounterGenerationRequests:  counterGenerationRequests,
		CounterNutritionCacheHits:  counterNutritionCacheHits,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		GaugeDietPlans:             gaugeDietPlans,
		GaugeLastRunUnixTime:       gaugeLastRunUnixTime,
		HistGenerationDuration:     histGenerationDuration,
		HistCommandDuration:        histCommandDuration,
	}
}
