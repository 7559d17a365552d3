package model

import "time"

// Marker is the persisted novelty cursor: the most recent recall that was
// successfully delivered. A nil *Marker means no run has ever completed.
type Marker struct {
	ID         string    `json:"id"`
	ReportDate time.Time `json:"report_date"`
	AdvancedAt time.Time `json:"advanced_at"`
}

// MarkerFromRecord builds the marker value that record r advances to.
func MarkerFromRecord(r *RecallRecord, now time.Time) *Marker {
	return &Marker{ID: r.ID, ReportDate: r.ReportDate, AdvancedAt: now}
}

// Equal compares cursor position only; AdvancedAt is bookkeeping.
func (m *Marker) Equal(other *Marker) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.ID == other.ID && m.ReportDate.Equal(other.ReportDate)
}
