package model

import (
	"time"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
)

// ReportDateLayout is the date layout used by the openFDA enforcement feed.
const ReportDateLayout = "20060102"

// RecallRecord is a single published enforcement report. ID and ReportDate
// are required for ordering and dedup; every other field may be empty.
type RecallRecord struct {
	ID                  string // recall number, e.g. "F-0123-2025"
	ReportDate          time.Time
	ProductDescription  string
	ReasonForRecall     string
	RecallingFirm       string
	DistributionPattern string
	Classification      string // "Class I" .. "Class III"
	Status              string // e.g. "Ongoing", "Terminated"
	City                string
	State               string
}

// NewRecallRecord validates the required identity fields and parses the
// feed's YYYYMMDD report date.
func NewRecallRecord(id, reportDate string) (*RecallRecord, error) {
	if id == "" || reportDate == "" {
		return nil, domain.ErrInvalidArgument
	}
	d, err := time.Parse(ReportDateLayout, reportDate)
	if err != nil {
		return nil, domain.ErrInvalidArgument
	}
	return &RecallRecord{ID: id, ReportDate: d}, nil
}

// NewerThan reports whether the record is strictly newer than the marker.
// Report date decides; identical dates fall back to lexicographic ID order,
// so a record equal to the marker is never newer.
func (r *RecallRecord) NewerThan(m *Marker) bool {
	if m == nil {
		return true
	}
	if r.ReportDate.After(m.ReportDate) {
		return true
	}
	if r.ReportDate.Equal(m.ReportDate) {
		return r.ID > m.ID
	}
	return false
}
