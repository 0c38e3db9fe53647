// Package funnel collapses page-level events into one checkout-funnel vector
// per session.
package funnel

import (
	"sort"
	"strings"

	"bearcart/pkg/contracts/domain"
)

// Checkout page URLs. Steps are matched exactly except the product step,
// which also matches individual product-detail pages.
const (
	homeURL     = "/home"
	productsURL = "/products"
	cartURL     = "/cart"
	shippingURL = "/shipping"
	billingURL  = "/billing"
	thankYouURL = "/thank-you-for-your-order"
)

// productPaths are the catalog product-detail slugs treated as product
// browsing alongside the listing page.
var productPaths = []string{
	"/the-original-mr-fuzzy",
	"/the-forever-love-bear",
	"/the-birthday-sugar-panda",
	"/the-hudson-river-mini-bear",
}

// isProductPage reports whether the URL is the product listing or one of the
// product-detail pages.
func isProductPage(url string) bool {
	if strings.Contains(url, productsURL) {
		return true
	}
	for _, p := range productPaths {
		if strings.Contains(url, p) {
			return true
		}
	}
	return false
}

// Aggregate groups pageviews by session and takes the max of each step flag
// and the count of total views. A session reaching a step at any point counts
// as having reached it; the flags are not mutually exclusive. Output is one
// row per session appearing in the log, ordered by session id.
func Aggregate(pageviews []domain.Pageview) []domain.SessionFunnel {
	bySession := make(map[int64]*domain.SessionFunnel)

	for _, pv := range pageviews {
		f, ok := bySession[pv.SessionID]
		if !ok {
			f = &domain.SessionFunnel{SessionID: pv.SessionID}
			bySession[pv.SessionID] = f
		}

		f.TotalPageviews++

		switch {
		case pv.URL == homeURL:
			f.StepHome = 1
		case pv.URL == cartURL:
			f.StepCart = 1
		case pv.URL == shippingURL:
			f.StepShipping = 1
		case pv.URL == billingURL:
			f.StepBilling = 1
		case pv.URL == thankYouURL:
			f.StepThankYou = 1
		case isProductPage(pv.URL):
			f.StepProduct = 1
		}
	}

	funnels := make([]domain.SessionFunnel, 0, len(bySession))
	for _, f := range bySession {
		funnels = append(funnels, *f)
	}
	sort.Slice(funnels, func(i, j int) bool {
		return funnels[i].SessionID < funnels[j].SessionID
	})

	return funnels
}
