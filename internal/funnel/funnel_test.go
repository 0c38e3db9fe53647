package funnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bearcart/pkg/contracts/domain"
)

// TestAggregate tests per-session funnel collapsing
func TestAggregate(t *testing.T) {
	pageviews := []domain.Pageview{
		{SessionID: 2, URL: "/home"},
		{SessionID: 1, URL: "/home"},
		{SessionID: 1, URL: "/the-original-mr-fuzzy"},
		{SessionID: 1, URL: "/cart"},
		{SessionID: 1, URL: "/shipping"},
		{SessionID: 1, URL: "/billing"},
		{SessionID: 1, URL: "/thank-you-for-your-order"},
		{SessionID: 2, URL: "/products"},
		{SessionID: 2, URL: "/home"},
	}

	funnels := Aggregate(pageviews)
	require.Len(t, funnels, 2)

	full := funnels[0]
	assert.Equal(t, int64(1), full.SessionID, "output ordered by session id")
	assert.Equal(t, 6, full.TotalPageviews)
	assert.Equal(t, 1, full.StepHome)
	assert.Equal(t, 1, full.StepProduct)
	assert.Equal(t, 1, full.StepCart)
	assert.Equal(t, 1, full.StepShipping)
	assert.Equal(t, 1, full.StepBilling)
	assert.Equal(t, 1, full.StepThankYou)

	browser := funnels[1]
	assert.Equal(t, int64(2), browser.SessionID)
	assert.Equal(t, 3, browser.TotalPageviews, "repeat views counted, flags capped at one")
	assert.Equal(t, 1, browser.StepHome)
	assert.Equal(t, 1, browser.StepProduct)
	assert.Equal(t, 0, browser.StepCart)
	assert.Equal(t, 0, browser.StepThankYou)
}

// TestAggregateProductPages tests product-step URL matching
func TestAggregateProductPages(t *testing.T) {
	tests := []struct {
		name string
		url  string
		step int
	}{
		{"listing page", "/products", 1},
		{"mr fuzzy detail page", "/the-original-mr-fuzzy", 1},
		{"love bear detail page", "/the-forever-love-bear", 1},
		{"sugar panda detail page", "/the-birthday-sugar-panda", 1},
		{"mini bear detail page", "/the-hudson-river-mini-bear", 1},
		{"unrelated page", "/lander-1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			funnels := Aggregate([]domain.Pageview{{SessionID: 1, URL: tt.url}})
			require.Len(t, funnels, 1)
			assert.Equal(t, tt.step, funnels[0].StepProduct)
			assert.Equal(t, 1, funnels[0].TotalPageviews)
		})
	}
}

// TestAggregateEmpty tests the no-pageviews case
func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
