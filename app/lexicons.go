package app

import (
	"strings"
	"time"
)

// Keyword lexicons driving the rule evaluators. The exact contents are
// product behavior: changing them changes which alerts fire.

// rainKeywords match products whose demand spikes when rain is predicted.
var rainKeywords = []string{"umbrella", "raincoat", "rain", "waterproof", "boots"}

// hotKeywords match products whose demand rises in hot weather.
var hotKeywords = []string{"cold drink", "ice cream", "fan", "ac", "cooler", "summer"}

// eventKeywords match products that spike around local events.
var eventKeywords = []string{"snacks", "beverages", "drinks", "food", "party"}

// festivalKeywords maps a festival-name fragment to the product lexicon it
// boosts. Matching is by substring against the holiday name.
var festivalKeywords = map[string][]string{
	"diwali":    {"lights", "candles", "sweets", "gifts", "clothes"},
	"holi":      {"colors", "water guns", "clothes", "sweets"},
	"eid":       {"clothes", "food", "gifts"},
	"christmas": {"gifts", "decorations", "clothes", "toys"},
	"new year":  {"party", "clothes", "gifts", "decorations"},
}

// industryKeywords maps a market category to the keywords scanned for
// industry trend alerts.
var industryKeywords = map[string][]string{
	"electronics": {
		"smartphone", "laptop", "tablet", "headphones", "earbuds",
		"smartwatch", "camera", "tv", "speaker", "charger",
		"power bank", "gaming", "console", "monitor", "keyboard",
	},
	"clothes": {
		"t-shirt", "shirt", "jeans", "dress", "jacket", "hoodie",
		"sweater", "shorts", "pants", "shoes", "sneakers", "boots",
		"saree", "kurta", "lehenga", "suit", "blazer", "coat",
	},
	"food": {
		"pizza", "burger", "coffee", "tea", "snacks", "chocolate",
		"ice cream", "cold drink", "juice", "biscuit", "cake",
	},
	"beauty": {
		"lipstick", "foundation", "skincare", "shampoo", "soap",
		"perfume", "makeup", "cream", "lotion", "serum",
	},
	"home": {
		"furniture", "sofa", "bed", "table", "chair", "lamp",
		"curtains", "carpet", "decor", "kitchen", "appliance",
	},
	"sports": {
		"cricket", "football", "basketball", "tennis", "gym",
		"yoga", "fitness", "sports shoes", "equipment",
	},
}

// seasonalClothingKeywords lists seasonal clothing items by Indian season.
var seasonalClothingKeywords = map[string][]string{
	"summer":   {"t-shirt", "shorts", "sunglasses", "sandals", "summer dress", "hat"},
	"winter":   {"sweater", "jacket", "coat", "boots", "scarf", "gloves", "winter wear"},
	"monsoon":  {"raincoat", "umbrella", "waterproof", "gumboots", "rain jacket"},
	"festival": {"saree", "kurta", "lehenga", "suit", "traditional", "ethnic wear"},
}

// seasonForMonth maps a calendar month to the dominant retail season.
// October-November carries the festival cluster.
func seasonForMonth(month int) string {
	switch {
	case month == 12 || month <= 2:
		return "winter"
	case month <= 5:
		return "summer"
	case month <= 9:
		return "monsoon"
	default:
		return "festival"
	}
}

// currentSeason returns the season for the current month.
func currentSeason() string {
	return seasonForMonth(int(time.Now().Month()))
}

// matchesAny reports whether keyword contains any entry of the lexicon.
func matchesAny(keyword string, lexicon []string) bool {
	lower := strings.ToLower(keyword)
	for _, entry := range lexicon {
		if strings.Contains(lower, entry) {
			return true
		}
	}
	return false
}

// anyKeywordMatches reports whether any tracked keyword contains any entry
// of the lexicon.
func anyKeywordMatches(keywords []string, lexicon []string) bool {
	for _, kw := range keywords {
		if matchesAny(kw, lexicon) {
			return true
		}
	}
	return false
}

// festivalFor returns the festival lexicon whose name fragment occurs in
// the holiday name.
func festivalFor(holidayName string) (string, []string, bool) {
	lower := strings.ToLower(holidayName)
	for festival, lexicon := range festivalKeywords {
		if strings.Contains(lower, festival) {
			return festival, lexicon, true
		}
	}
	return "", nil, false
}
