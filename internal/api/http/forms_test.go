package httpapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderForm(t *testing.T) {
	tests := []struct {
		name           string
		values         url.Values
		expectedIDs    []int
		expectedCounts []int
		expectedErrors []string
	}{
		{
			name:           "parallel_counts",
			values:         url.Values{"dishes": {"1", "2"}, "counts": {"2", "3"}},
			expectedIDs:    []int{1, 2},
			expectedCounts: []int{2, 3},
		},
		{
			name:           "per_dish_counts",
			values:         url.Values{"dishes": {"1", "2"}, "count_1": {"4"}, "count_2": {"0"}},
			expectedIDs:    []int{1, 2},
			expectedCounts: []int{4, 0},
		},
		{
			name:           "blank_or_missing_count_means_one",
			values:         url.Values{"dishes": {"1", "2"}, "counts": {" "}},
			expectedIDs:    []int{1, 2},
			expectedCounts: []int{1, 1},
		},
		{
			name:           "non_integer_count",
			values:         url.Values{"dishes": {"1"}, "count_1": {"two"}},
			expectedIDs:    []int{1},
			expectedCounts: []int{0},
			expectedErrors: []string{"counts"},
		},
		{
			name:           "invalid_dish_id_keeps_counts_aligned",
			values:         url.Values{"dishes": {"x", "2"}, "counts": {"5", "3"}},
			expectedIDs:    []int{2},
			expectedCounts: []int{3},
			expectedErrors: []string{"dishes"},
		},
		{
			name:   "nothing_selected_is_allowed",
			values: url.Values{"customer_name": {"Jan"}},
		},
		{
			name:           "positional_counts",
			values:         url.Values{"dishes": {"3", "1"}, "counts_0": {"2"}, "counts_1": {"5"}},
			expectedIDs:    []int{3, 1},
			expectedCounts: []int{2, 5},
		},
		{
			name:           "per_dish_count_wins_over_positional",
			values:         url.Values{"dishes": {"1", "2"}, "count_1": {"4"}, "counts_1": {"6"}},
			expectedIDs:    []int{1, 2},
			expectedCounts: []int{4, 6},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			form := parseOrderForm(testCase.values)
			assert.Equal(t, testCase.expectedIDs, form.Submission.DishIDs)
			assert.Equal(t, testCase.expectedCounts, form.Submission.Counts)
			assert.Len(t, form.Errors.Fields, len(testCase.expectedErrors))
			for _, field := range testCase.expectedErrors {
				assert.NotEmpty(t, form.Errors.For(field))
			}
		})
	}
}

func TestOrderFormRedisplay(t *testing.T) {
	form := parseOrderForm(url.Values{"dishes": {"2"}, "count_2": {"3"}})
	assert.True(t, form.IsSelected(2))
	assert.False(t, form.IsSelected(1))
	assert.Equal(t, "3", form.CountFor(2))
	assert.Equal(t, "1", form.CountFor(1))
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next     string
		expected string
	}{
		{next: "", expected: "/"},
		{next: "/order_history/?page=2", expected: "/order_history/?page=2"},
		{next: "https://evil.example.com", expected: "/"},
		{next: "//evil.example.com", expected: "/"},
		{next: `/\evil.example.com`, expected: "/"},
	}

	for _, testCase := range tests {
		t.Run(testCase.next, func(t *testing.T) {
			assert.Equal(t, testCase.expected, safeNext(testCase.next))
		})
	}
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	var seen string
	handler := requestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", recorder.Header().Get(requestIDHeader))
	assert.Equal(t, http.StatusTeapot, recorder.Code)
}
