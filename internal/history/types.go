package history

// Row is one historical observation of a metric for a chapter month.
// Rows are loaded once per session and never mutated. Duplicate
// (region, chapter, metric, month, year) rows are legal and all of them
// participate in aggregates.
type Row struct {
	Region    string  `json:"region"`
	Chapter   string  `json:"chapter"`
	MetricKey string  `json:"metric_key"`
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	Value     float64 `json:"value"`
}

// Event annotates a chapter month with a notable occurrence. Events are
// optional context data; their absence is tolerated everywhere.
type Event struct {
	Region    string  `json:"region"`
	Chapter   string  `json:"chapter"`
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	EventName string  `json:"event_name"`
	MetricKey string  `json:"metric_key"`
	Value     float64 `json:"value"`
}
