package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fitdiet/internal/profile"
	"github.com/2beens/fitdiet/internal/telemetry/metrics"
	"github.com/2beens/fitdiet/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis_rate/v9"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	OpDietPlan  = "diet_plan"
	OpNutrition = "nutrition"

	rateLimitKey     = "fitdiet::generation"
	maxResponseBytes = 1 << 20
	megabyte         = 1024 * 1024
)

var (
	ErrMissingAPIKey = errors.New("generation api key not set")
	// caller input errors, returned before any request is built
	ErrEmptyQuery = errors.New("food query is empty")
	ErrNoProfile  = errors.New("a profile is required to generate a diet plan")
)

// RequestRateLimiter is satisfied by *redis_rate.Limiter.
type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

type ClientParams struct {
	APIURL          string
	APIKey          string
	Timeout         time.Duration
	CacheSizeMB     int
	CacheTTLSeconds int
	// RateLimiter is optional; RatePerMinute <= 0 disables limiting.
	RateLimiter    RequestRateLimiter
	RatePerMinute  int
	MetricsManager *metrics.Manager
	// HTTPClient overrides the default otelhttp client, mostly for tests.
	HTTPClient *http.Client
}

type Client struct {
	apiURL          string
	apiKey          string
	httpClient      *http.Client
	cache           *freecache.Cache
	cacheTTLSeconds int
	rateLimiter     RequestRateLimiter
	ratePerMinute   int
	metricsManager  *metrics.Manager
}

func NewClient(params ClientParams) (*Client, error) {
	if params.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if params.APIURL == "" {
		return nil, errors.New("generation api url not set")
	}
	if params.MetricsManager == nil {
		return nil, errors.New("metrics manager is nil")
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   params.Timeout,
		}
	}

	cacheSizeMB := params.CacheSizeMB
	if cacheSizeMB <= 0 {
		cacheSizeMB = 1
	}

	return &Client{
		apiURL:          params.APIURL,
		apiKey:          params.APIKey,
		httpClient:      httpClient,
		cache:           freecache.NewCache(cacheSizeMB * megabyte),
		cacheTTLSeconds: params.CacheTTLSeconds,
		rateLimiter:     params.RateLimiter,
		ratePerMinute:   params.RatePerMinute,
		metricsManager:  params.MetricsManager,
	}, nil
}

// GenerateDietPlan asks the model for a plan built around the profile.
func (c *Client) GenerateDietPlan(ctx context.Context, p *profile.UserProfile) (_ *PlanContent, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "generation.generateDietPlan")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if p == nil {
		return nil, ErrNoProfile
	}

	defer func() { c.observe(OpDietPlan, err) }()

	text, err := c.generate(ctx, OpDietPlan, dietPlanPrompt(p), DietPlanConfig)
	if err != nil {
		return nil, err
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, invalidStructure(OpDietPlan, err, "extract diet plan")
	}

	plan, problems, err := parsePlanContent(raw)
	if err != nil {
		return nil, invalidStructure(OpDietPlan, err, "parse diet plan")
	}
	if len(problems) > 0 {
		return nil, invalidStructure(OpDietPlan, nil, "diet plan: %s", strings.Join(problems, "; "))
	}

	return plan, nil
}

// GetFoodNutrition looks up per-100g nutrition values for a free-text food
// description. Successful lookups are cached by normalized query.
func (c *Client) GetFoodNutrition(ctx context.Context, query string) (_ *NutritionRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "generation.getFoodNutrition")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	query = strings.TrimSpace(query)
	span.SetAttributes(attribute.String("query", query))
	if query == "" {
		return nil, ErrEmptyQuery
	}

	cacheKey := nutritionCacheKey(query)
	if cachedBytes, cacheErr := c.cache.Get(cacheKey); cacheErr == nil {
		rec := &NutritionRecord{}
		if cacheErr = json.Unmarshal(cachedBytes, rec); cacheErr == nil {
			log.Tracef("found nutrition info for %q in cache", query)
			c.metricsManager.CounterNutritionCacheHits.Inc()
			return rec, nil
		}
		log.Errorf("unmarshal cached nutrition for %q: %s", query, cacheErr)
	}

	defer func() { c.observe(OpNutrition, err) }()

	text, err := c.generate(ctx, OpNutrition, nutritionPrompt(query), NutritionConfig)
	if err != nil {
		return nil, err
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return nil, invalidStructure(OpNutrition, err, "extract nutrition info")
	}

	rec, problems, err := parseNutritionRecord(raw)
	if err != nil {
		return nil, invalidStructure(OpNutrition, err, "parse nutrition info")
	}
	if len(problems) > 0 {
		return nil, invalidStructure(OpNutrition, nil, "nutrition info: %s", strings.Join(problems, "; "))
	}

	if recBytes, marshalErr := json.Marshal(rec); marshalErr == nil {
		if setErr := c.cache.Set(cacheKey, recBytes, c.cacheTTLSeconds); setErr != nil {
			log.Errorf("set nutrition cache for %q: %s", query, setErr)
		}
	}

	return rec, nil
}

// generate sends one prompt and returns the text of the first candidate.
func (c *Client) generate(ctx context.Context, op, prompt string, cfg GenerationConfig) (string, error) {
	if err := c.checkRateLimit(ctx, op); err != nil {
		return "", err
	}

	reqBody, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", requestFailed(op, err, "marshal request")
	}

	reqURL, err := url.Parse(c.apiURL)
	if err != nil {
		return "", requestFailed(op, err, "parse api url")
	}
	q := reqURL.Query()
	q.Set("key", c.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(reqBody))
	if err != nil {
		return "", requestFailed(op, err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metricsManager.HistGenerationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		// the url carries the api key, keep it out of logs and errors
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", requestFailed(op, err, "http client do")
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", requestFailed(op, err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiMsg := gjson.GetBytes(respBytes, "error.message").String()
		log.Debugf("generation api [%s] responded %d: %s", op, resp.StatusCode, apiMsg)
		if apiMsg != "" {
			return "", requestFailed(op, nil, "api status %d: %s", resp.StatusCode, apiMsg)
		}
		return "", requestFailed(op, nil, "api status %d", resp.StatusCode)
	}

	return candidateText(op, respBytes)
}

func candidateText(op string, respBytes []byte) (string, error) {
	if !gjson.ValidBytes(respBytes) {
		return "", invalidResponseFormat(op, nil, "response is not JSON")
	}

	candidates := gjson.GetBytes(respBytes, "candidates")
	if !candidates.IsArray() || len(candidates.Array()) == 0 {
		return "", invalidResponseFormat(op, nil, "no candidates")
	}

	parts := candidates.Get("0.content.parts")
	if !parts.IsArray() || len(parts.Array()) == 0 {
		return "", invalidResponseFormat(op, nil, "first candidate has no content parts")
	}

	text := parts.Get("0.text")
	if text.Type != gjson.String {
		return "", invalidResponseFormat(op, nil, "first part has no text")
	}

	return text.String(), nil
}

func (c *Client) checkRateLimit(ctx context.Context, op string) error {
	if c.rateLimiter == nil || c.ratePerMinute <= 0 {
		return nil
	}

	res, err := c.rateLimiter.Allow(ctx, rateLimitKey, redis_rate.PerMinute(c.ratePerMinute))
	if err != nil {
		return requestFailed(op, err, "rate limiter")
	}
	if res.Allowed <= 0 {
		c.metricsManager.CounterRateLimitedRequests.Inc()
		return requestFailed(op, nil, "rate limited, retry after %s", res.RetryAfter.Round(time.Second))
	}

	return nil
}

func (c *Client) observe(op string, err error) {
	result := "ok"
	if err != nil {
		if kind := KindOf(err); kind != 0 {
			result = kind.String()
		} else {
			result = "error"
		}
	}
	c.metricsManager.CounterGenerationRequests.WithLabelValues(op, result).Inc()
}

func nutritionCacheKey(query string) []byte {
	return []byte(fmt.Sprintf("nutrition::%s", strings.Join(strings.Fields(strings.ToLower(query)), " ")))
}
