// Package channel derives the marketing-attribution channel for a session
// from its raw UTM and referrer fields. One canonical ruleset is applied by
// both the cleaning and the feature-engineering stages.
package channel

import (
	"strings"

	"bearcart/pkg/contracts/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// selfHost marks first-party referrers; traffic referred by our own domain is
// not an external referral.
const selfHost = "bearcart"

var (
	paidSearchSources = map[string]bool{
		"gsearch": true,
		"bing":    true,
	}
	socialSources = map[string]bool{
		"facebook": true,
		"twitter":  true,
	}
	titleCaser = cases.Title(language.English)
)

// Classify maps raw attribution fields to a Channel. Precedence, first match
// wins:
//
//  1. utm_source gsearch/bing          -> Paid Search
//  2. utm_source email                 -> Email
//  3. utm_source facebook/twitter      -> Social
//  4. no utm_source, external referrer -> Referral
//  5. no utm_source, no referrer       -> Direct
//  6. unrecognized source with a brand or nonbrand campaign -> Paid Search
//  7. anything else -> title-cased source, Other when that is empty
func Classify(utmSource, utmCampaign, httpReferer string) domain.Channel {
	source := strings.ToLower(strings.TrimSpace(utmSource))
	campaign := strings.ToLower(strings.TrimSpace(utmCampaign))
	referer := strings.TrimSpace(httpReferer)

	switch {
	case paidSearchSources[source]:
		return domain.ChannelPaidSearch
	case source == "email":
		return domain.ChannelEmail
	case socialSources[source]:
		return domain.ChannelSocial
	}

	if source == "" || source == "direct" {
		if referer != "" && !strings.Contains(referer, selfHost) {
			return domain.ChannelReferral
		}
		return domain.ChannelDirect
	}

	// Unrecognized paid sources still tag their campaigns brand/nonbrand.
	if strings.Contains(campaign, "nonbrand") || strings.Contains(campaign, "brand") {
		return domain.ChannelPaidSearch
	}

	if source == "organic" {
		return domain.ChannelOrganicSearch
	}

	if titled := titleCaser.String(source); titled != "" {
		return domain.Channel(titled)
	}
	return domain.ChannelOther
}
