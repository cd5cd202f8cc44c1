// Package canned provides the rule-based fallback responder used when the
// live model is not configured or a remote call fails. Matching is plain
// keyword containment over the lower-cased message; the first rule declared
// wins, so order the list from specific greetings down to broad topics.
package canned

import "strings"

// Rule maps a set of trigger keywords to a pre-written response.
type Rule struct {
	Keywords []string
	Response string
}

// DefaultResponse is returned when no rule keyword appears in the message.
const DefaultResponse = "*kzzzt* Heavy interference on this frequency... I couldn't decode that transmission. Try asking me about tickets, the lineup, the venue, or camping."

var rules = []Rule{
	{
		Keywords: []string{"hello", "hey", "greetings", "good morning", "good evening"},
		Response: "Signal received, traveler! This is MC Nova broadcasting live from the Nightwave command deck. What do you want to know about the festival?",
	},
	{
		Keywords: []string{"ticket", "price", "cost", "how much", "pass"},
		Response: "Orbit Passes start at 89 credits for a single day, 199 for the full three-night voyage. VIP Stardeck access is 349 and includes the zero-gravity lounge. All tiers are on sale now at the Nightwave portal.",
	},
	{
		Keywords: []string{"lineup", "line-up", "artist", "who is playing", "headliner", "act"},
		Response: "This cycle's transmission features Stellar Drift headlining the Pulsar Stage, with Ion Cascade, The Solar Flares, and Nebula Nine across the weekend. Full lineup is posted on the signals board.",
	},
	{
		Keywords: []string{"when", "date", "schedule", "what time"},
		Response: "Nightwave lights up August 14 through 16, gates opening at 1400 hours each day. The final transmission ends Sunday at 0200.",
	},
	{
		Keywords: []string{"where", "location", "venue", "address", "get there"},
		Response: "We touch down at Meridian Flats, 40 klicks east of the city. Shuttle buses run from Central Station every 20 minutes during gate hours.",
	},
	{
		Keywords: []string{"camp", "tent", "sleep", "stay", "accommodation"},
		Response: "The Crater Camp opens Thursday noon for full-voyage pass holders. Bring your own tent or rent a pre-pitched pod; showers and charging docks are on site.",
	},
	{
		Keywords: []string{"food", "drink", "eat", "vegan", "bar"},
		Response: "The Fuel Bay runs 20 food stations, plenty of vegan and gluten-free options included. Outside drinks stay outside, but free water refill points orbit every stage.",
	},
	{
		Keywords: []string{"weather", "rain", "pack", "bring"},
		Response: "Meridian Flats runs hot by day and cold after dark, so pack layers. A little rain never stopped a transmission; ponchos are sold at the supply depot.",
	},
}

// Match returns the canned response for the first rule whose keyword occurs
// in the message, or DefaultResponse when nothing matches. It is pure and
// never returns an empty string.
func Match(message string) string {
	normalized := strings.ToLower(message)
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(normalized, keyword) {
				return rule.Response
			}
		}
	}
	return DefaultResponse
}

// Rules exposes the declaration-ordered rule list for introspection.
func Rules() []Rule {
	return append([]Rule(nil), rules...)
}
