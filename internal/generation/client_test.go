package generation_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2beens/fitdiet/internal/generation"
	"github.com/2beens/fitdiet/internal/profile"
	"github.com/2beens/fitdiet/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"
)

const testAPIKey = "test-key"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

type testRequestRateLimiter struct {
	allowed int
	err     error
	calls   int
	lastKey string
}

func (l *testRequestRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.calls++
	l.lastKey = key
	if l.err != nil {
		return nil, l.err
	}
	return &redis_rate.Result{
		Limit:      limit,
		Allowed:    l.allowed,
		RetryAfter: 30 * time.Second,
	}, nil
}

func envelope(t *testing.T, text string) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	})
	require.NoError(t, err)
	return b
}

type apiServer struct {
	*httptest.Server
	hits     atomic.Int32
	lastBody atomic.Value
}

func newAPIServer(t *testing.T, status int, body []byte) *apiServer {
	t.Helper()
	s := &apiServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		reqBody, _ := io.ReadAll(r.Body)
		s.lastBody.Store(reqBody)
		if r.Method != http.MethodPost || r.URL.Query().Get("key") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) requestBody() gjson.Result {
	b, _ := s.lastBody.Load().([]byte)
	return gjson.ParseBytes(b)
}

func newTestClient(t *testing.T, srv *apiServer, limiter generation.RequestRateLimiter) (*generation.Client, *metrics.Manager) {
	t.Helper()
	metricsManager := metrics.NewTestManager()
	client, err := generation.NewClient(generation.ClientParams{
		APIURL:          srv.URL + "/v1beta/models/test:generateContent",
		APIKey:          testAPIKey,
		Timeout:         5 * time.Second,
		CacheSizeMB:     1,
		CacheTTLSeconds: 60,
		RateLimiter:     limiter,
		RatePerMinute:   10,
		MetricsManager:  metricsManager,
		HTTPClient:      srv.Client(),
	})
	require.NoError(t, err)
	return client, metricsManager
}

func testProfile() *profile.UserProfile {
	return &profile.UserProfile{
		Name:         "Asha",
		Height:       "170",
		HeightUnit:   profile.HeightCm,
		Weight:       "143",
		WeightUnit:   profile.WeightLbs,
		Age:          "29",
		WorkoutLevel: profile.WorkoutLevel3To4,
		FitnessGoal:  profile.GoalLoseWeight,
	}
}

const planJSON = `{
  "breakfast": "Poha with peanuts and a glass of buttermilk",
  "lunch": "2 rotis, moong dal, mixed veg sabzi, salad",
  "dinner": "Grilled paneer tikka with sauteed vegetables",
  "snacks": "Roasted chana, fruit",
  "tips": ["Drink 3 litres of water", "Avoid fried snacks", "Eat dinner before 8 pm"]
}`

func TestNewClient(t *testing.T) {
	_, err := generation.NewClient(generation.ClientParams{
		APIURL:         "http://localhost",
		MetricsManager: metrics.NewTestManager(),
	})
	assert.ErrorIs(t, err, generation.ErrMissingAPIKey)

	_, err = generation.NewClient(generation.ClientParams{APIURL: "http://localhost", APIKey: "k"})
	assert.Error(t, err)

	client, err := generation.NewClient(generation.ClientParams{
		APIURL:         "http://localhost",
		APIKey:         "k",
		MetricsManager: metrics.NewTestManager(),
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClient_GenerateDietPlan(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, envelope(t, "Sure! Here is your plan:\n```json\n"+planJSON+"\n```"))
	client, metricsManager := newTestClient(t, srv, nil)

	plan, err := client.GenerateDietPlan(context.Background(), testProfile())
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, "Poha with peanuts and a glass of buttermilk", plan.Breakfast)
	assert.Equal(t, "Roasted chana, fruit", plan.Snacks)
	assert.Len(t, plan.Tips, 3)

	reqBody := srv.requestBody()
	prompt := reqBody.Get("contents.0.parts.0.text").String()
	assert.Contains(t, prompt, "Create a personalized Indian diet plan for:")
	assert.Contains(t, prompt, "- Age: 29")
	assert.Contains(t, prompt, "- Height: 170 cm")
	assert.Contains(t, prompt, "- Weight: 64.9 kg")
	assert.Contains(t, prompt, "- Workout frequency: 3-4 times per week")
	assert.Contains(t, prompt, "- Fitness goal: Lose Weight")
	assert.Equal(t, 0.7, reqBody.Get("generationConfig.temperature").Float())
	assert.Equal(t, int64(40), reqBody.Get("generationConfig.topK").Int())
	assert.Equal(t, 0.95, reqBody.Get("generationConfig.topP").Float())
	assert.Equal(t, int64(1024), reqBody.Get("generationConfig.maxOutputTokens").Int())

	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterGenerationRequests.WithLabelValues(generation.OpDietPlan, "ok")))
}

func TestClient_GenerateDietPlan_ActivityLevelProfile(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, envelope(t, planJSON))
	client, _ := newTestClient(t, srv, nil)

	p := testProfile()
	p.WorkoutLevel = profile.ActivityVeryActive
	_, err := client.GenerateDietPlan(context.Background(), p)
	require.NoError(t, err)

	prompt := srv.requestBody().Get("contents.0.parts.0.text").String()
	assert.Contains(t, prompt, "- Activity level: Very Active")
	assert.NotContains(t, prompt, "Workout frequency")
}

func TestClient_GenerateDietPlan_InvalidStructure(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{name: "no json", text: "I am unable to create a plan."},
		{name: "missing tips", text: `{"breakfast":"a","lunch":"b","dinner":"c","snacks":"d"}`},
		{name: "tips not array", text: `{"breakfast":"a","lunch":"b","dinner":"c","snacks":"d","tips":"eat well"}`},
		{name: "empty dinner", text: `{"breakfast":"a","lunch":"b","dinner":"  ","snacks":"d","tips":[]}`},
		{name: "numeric lunch", text: `{"breakfast":"a","lunch":5,"dinner":"c","snacks":"d","tips":[]}`},
		{name: "malformed", text: `{"breakfast":"a" "lunch":"b"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newAPIServer(t, http.StatusOK, envelope(t, tc.text))
			client, metricsManager := newTestClient(t, srv, nil)

			plan, err := client.GenerateDietPlan(context.Background(), testProfile())
			assert.Nil(t, plan)
			require.ErrorIs(t, err, generation.ErrInvalidStructure)
			assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterGenerationRequests.WithLabelValues(generation.OpDietPlan, "invalid_structure")))
		})
	}
}

func TestClient_InvalidResponseFormat(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>oops</html>"},
		{name: "no candidates", body: `{"candidates": []}`},
		{name: "candidates missing", body: `{"promptFeedback": {"blockReason": "SAFETY"}}`},
		{name: "no parts", body: `{"candidates": [{"content": {"parts": []}}]}`},
		{name: "no content", body: `{"candidates": [{"finishReason": "SAFETY"}]}`},
		{name: "text not string", body: `{"candidates": [{"content": {"parts": [{"text": 12}]}}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newAPIServer(t, http.StatusOK, []byte(tc.body))
			client, _ := newTestClient(t, srv, nil)

			rec, err := client.GetFoodNutrition(context.Background(), "idli")
			assert.Nil(t, rec)
			require.ErrorIs(t, err, generation.ErrInvalidResponseFormat)
		})
	}
}

func TestClient_RequestFailed(t *testing.T) {
	srv := newAPIServer(t, http.StatusServiceUnavailable, []byte(`{"error": {"code": 503, "message": "model overloaded"}}`))
	client, metricsManager := newTestClient(t, srv, nil)

	plan, err := client.GenerateDietPlan(context.Background(), testProfile())
	assert.Nil(t, plan)
	require.ErrorIs(t, err, generation.ErrRequestFailed)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model overloaded")
	assert.NotContains(t, err.Error(), testAPIKey)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterGenerationRequests.WithLabelValues(generation.OpDietPlan, "request_failed")))
}

func TestClient_RequestFailed_CanceledContext(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, envelope(t, planJSON))
	client, _ := newTestClient(t, srv, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GenerateDietPlan(ctx, testProfile())
	require.ErrorIs(t, err, generation.ErrRequestFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, err.Error(), testAPIKey)
	assert.Equal(t, int32(0), srv.hits.Load())
}

func TestClient_GetFoodNutrition_Cached(t *testing.T) {
	text := `{"name": "Masala Dosa", "calories": 168, "protein": 3.9, "carbs": 29.1, "fat": 3.7, "fiber": 2.1, "serving_size": "100g"}`
	srv := newAPIServer(t, http.StatusOK, envelope(t, text))
	client, metricsManager := newTestClient(t, srv, nil)

	rec, err := client.GetFoodNutrition(context.Background(), "Masala Dosa")
	require.NoError(t, err)
	assert.Equal(t, &generation.NutritionRecord{
		Name:        "Masala Dosa",
		Calories:    168,
		Protein:     3.9,
		Carbs:       29.1,
		Fat:         3.7,
		Fiber:       2.1,
		ServingSize: "100g",
	}, rec)

	reqBody := srv.requestBody()
	assert.Contains(t, reqBody.Get("contents.0.parts.0.text").String(), `Provide detailed nutritional information for: "Masala Dosa"`)
	assert.Equal(t, 0.3, reqBody.Get("generationConfig.temperature").Float())
	assert.Equal(t, int64(20), reqBody.Get("generationConfig.topK").Int())
	assert.Equal(t, 0.8, reqBody.Get("generationConfig.topP").Float())
	assert.Equal(t, int64(512), reqBody.Get("generationConfig.maxOutputTokens").Int())

	// same food, different spelling of whitespace and case
	cached, err := client.GetFoodNutrition(context.Background(), "  masala   DOSA ")
	require.NoError(t, err)
	assert.Equal(t, rec, cached)
	assert.Equal(t, int32(1), srv.hits.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterNutritionCacheHits))
}

func TestClient_GetFoodNutrition_OptionalFields(t *testing.T) {
	text := `{"name": "Banana", "calories": 89, "protein": 1.1, "carbs": 22.8, "fat": 0.3, "fiber": null}`
	srv := newAPIServer(t, http.StatusOK, envelope(t, text))
	client, _ := newTestClient(t, srv, nil)

	rec, err := client.GetFoodNutrition(context.Background(), "banana")
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.Fiber)
	assert.Empty(t, rec.ServingSize)
}

func TestClient_GetFoodNutrition_InvalidStructure(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{name: "calories as string", text: `{"name": "x", "calories": "100 kcal", "protein": 1, "carbs": 1, "fat": 1}`},
		{name: "missing fat", text: `{"name": "x", "calories": 100, "protein": 1, "carbs": 1}`},
		{name: "negative protein", text: `{"name": "x", "calories": 100, "protein": -1, "carbs": 1, "fat": 1}`},
		{name: "missing name", text: `{"calories": 100, "protein": 1, "carbs": 1, "fat": 1}`},
		{name: "fiber not number", text: `{"name": "x", "calories": 100, "protein": 1, "carbs": 1, "fat": 1, "fiber": "lots"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newAPIServer(t, http.StatusOK, envelope(t, tc.text))
			client, metricsManager := newTestClient(t, srv, nil)

			rec, err := client.GetFoodNutrition(context.Background(), "x")
			assert.Nil(t, rec)
			require.ErrorIs(t, err, generation.ErrInvalidStructure)
			assert.Equal(t, 0.0, testutil.ToFloat64(metricsManager.CounterNutritionCacheHits))
		})
	}
}

func TestClient_GetFoodNutrition_EmptyQuery(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, envelope(t, "{}"))
	client, metricsManager := newTestClient(t, srv, nil)

	_, err := client.GetFoodNutrition(context.Background(), "   ")
	require.ErrorIs(t, err, generation.ErrEmptyQuery)
	assert.NotErrorIs(t, err, generation.ErrRequestFailed)
	assert.Equal(t, generation.Kind(0), generation.KindOf(err))
	assert.Equal(t, int32(0), srv.hits.Load())
	assert.Equal(t, 0, testutil.CollectAndCount(metricsManager.CounterGenerationRequests))
}

func TestClient_GenerateDietPlan_NilProfile(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, envelope(t, planJSON))
	client, metricsManager := newTestClient(t, srv, nil)

	plan, err := client.GenerateDietPlan(context.Background(), nil)
	assert.Nil(t, plan)
	require.ErrorIs(t, err, generation.ErrNoProfile)
	assert.NotErrorIs(t, err, generation.ErrRequestFailed)
	assert.Equal(t, int32(0), srv.hits.Load())
	assert.Equal(t, 0, testutil.CollectAndCount(metricsManager.CounterGenerationRequests))
}

func TestClient_RateLimited(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, envelope(t, planJSON))

	t.Run("denied", func(t *testing.T) {
		limiter := &testRequestRateLimiter{allowed: 0}
		client, metricsManager := newTestClient(t, srv, limiter)

		_, err := client.GenerateDietPlan(context.Background(), testProfile())
		require.ErrorIs(t, err, generation.ErrRequestFailed)
		assert.Contains(t, err.Error(), "rate limited")
		assert.Equal(t, 1, limiter.calls)
		assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
		assert.Equal(t, int32(0), srv.hits.Load())
	})

	t.Run("limiter error", func(t *testing.T) {
		limiterErr := errors.New("redis down")
		limiter := &testRequestRateLimiter{err: limiterErr}
		client, _ := newTestClient(t, srv, limiter)

		_, err := client.GenerateDietPlan(context.Background(), testProfile())
		require.ErrorIs(t, err, generation.ErrRequestFailed)
		assert.ErrorIs(t, err, limiterErr)
		assert.Equal(t, int32(0), srv.hits.Load())
	})

	t.Run("allowed", func(t *testing.T) {
		limiter := &testRequestRateLimiter{allowed: 1}
		client, _ := newTestClient(t, srv, limiter)

		plan, err := client.GenerateDietPlan(context.Background(), testProfile())
		require.NoError(t, err)
		assert.NotNil(t, plan)
		assert.Equal(t, "fitdiet::generation", limiter.lastKey)
		assert.Equal(t, int32(1), srv.hits.Load())
	})
}

func TestClient_DefaultTransport(t *testing.T) {
	srv := newAPIServer(t, http.StatusOK, envelope(t, planJSON))
	client, err := generation.NewClient(generation.ClientParams{
		APIURL:         srv.URL,
		APIKey:         testAPIKey,
		Timeout:        5 * time.Second,
		MetricsManager: metrics.NewTestManager(),
	})
	require.NoError(t, err)

	plan, err := client.GenerateDietPlan(context.Background(), testProfile())
	require.NoError(t, err)
	assert.Len(t, plan.Tips, 3)
}
