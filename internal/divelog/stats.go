package divelog

// Stats summarises a log.
type Stats struct {
	Dives        int     `json:"dives"`
	MaxDepth     float64 `json:"maxDepth"`
	TotalMinutes int     `json:"totalMinutes"`
	DeepestSite  string  `json:"deepestSite,omitempty"`
	LastDiveDate string  `json:"lastDiveDate,omitempty"`
}

// Stats computes totals over the current entries.
func (l *Log) Stats() Stats {
	return Summarize(l.Entries())
}

// Summarize computes totals over entries.
func Summarize(entries []Entry) Stats {
	var s Stats
	for _, e := range entries {
		s.Dives++
		s.TotalMinutes += e.Duration
		if s.DeepestSite == "" || e.Depth > s.MaxDepth {
			s.MaxDepth = e.Depth
			s.DeepestSite = e.Location
		}
		// YYYY-MM-DD sorts lexically.
		if e.Date > s.LastDiveDate {
			s.LastDiveDate = e.Date
		}
	}
	return s
}
