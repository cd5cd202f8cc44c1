package lineup

// Stage describes one of the festival's stage channels exposed to the frontend.
type Stage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Vibe        string `json:"vibe"`
	OpeningLine string `json:"openingLine"`
	Description string `json:"description,omitempty"`
	Acts        []Act  `json:"acts,omitempty"`
}

// Act is a single slot on a stage schedule.
type Act struct {
	Name string `json:"name"`
	Day  string `json:"day"`
	Time string `json:"time"`
}

// Seed provides the default Nightwave stages published on the website.
func Seed() []Stage {
	return []Stage{
		{
			ID:          "pulsar",
			Name:        "Pulsar Stage",
			Vibe:        "peak-time techno under the main array",
			OpeningLine: "You are tuned to the Pulsar Stage frequency. The main array goes loud at 1400 every day.",
			Description: "Nightwave's main stage, built around a 40-metre light array in the centre of Meridian Flats.",
			Acts: []Act{
				{Name: "Stellar Drift", Day: "Saturday", Time: "23:00"},
				{Name: "Ion Cascade", Day: "Friday", Time: "22:00"},
				{Name: "Nebula Nine", Day: "Sunday", Time: "21:30"},
			},
		},
		{
			ID:          "solar-flare",
			Name:        "Solar Flare Dome",
			Vibe:        "sunrise house and disco in the geodesic dome",
			OpeningLine: "Solar Flare Dome channel open. We keep the lights warm until sunrise here.",
			Description: "A covered geodesic dome on the east ridge, programmed from dusk until the final transmission.",
			Acts: []Act{
				{Name: "The Solar Flares", Day: "Saturday", Time: "04:00"},
				{Name: "Heliotrope", Day: "Friday", Time: "23:30"},
			},
		},
		{
			ID:          "driftwood",
			Name:        "Driftwood Hollow",
			Vibe:        "ambient sets and acoustic sessions by the creek",
			OpeningLine: "Driftwood Hollow here, the quiet end of the spectrum. Ask away.",
			Description: "The festival's low-key stage, tucked into the tree line for afternoon ambient sessions.",
			Acts: []Act{
				{Name: "Low Orbit Choir", Day: "Sunday", Time: "16:00"},
			},
		},
	}
}
