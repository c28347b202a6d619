package zmanim

// Response models the upstream zmanim API's JSON payload. Times maps marker
// names (e.g. "sunrise", "sofZmanTfilla") to ISO-8601 timestamps; markers the
// service cannot compute for a date/location are simply absent.
type Response struct {
	Date     string `json:"date"`
	Location struct {
		Tzid string `json:"tzid"`
	} `json:"location"`
	Times map[string]string `json:"times"`
}

// Window is a prayer-time window in minutes of day. End may exceed 1440 when
// the window crosses midnight.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Windows holds the resolved window for each of the three daily services.
type Windows struct {
	Shacharis Window `json:"shacharis"`
	Mincha    Window `json:"mincha"`
	Maariv    Window `json:"maariv"`
}
