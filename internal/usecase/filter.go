package usecase

import (
	"sort"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/model"
)

// SelectNew keeps the records strictly newer than marker and returns them in
// chronological order, oldest first, ready for dispatch. The input is a feed
// page as served (newest first, but order is not trusted). Duplicate IDs
// within one page are dropped; the first occurrence wins.
func SelectNew(records []*model.RecallRecord, marker *model.Marker) []*model.RecallRecord {
	seen := make(map[string]struct{}, len(records))
	picked := make([]*model.RecallRecord, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		if r.NewerThan(marker) {
			picked = append(picked, r)
		}
	}
	sort.Slice(picked, func(i, j int) bool {
		if picked[i].ReportDate.Equal(picked[j].ReportDate) {
			return picked[i].ID < picked[j].ID
		}
		return picked[i].ReportDate.Before(picked[j].ReportDate)
	})
	return picked
}

// NewestRecord returns the most recent record of a page, or nil for an empty
// page. Same ordering rule as the novelty comparison: report date first,
// then ID.
func NewestRecord(records []*model.RecallRecord) *model.RecallRecord {
	var newest *model.RecallRecord
	for _, r := range records {
		if r == nil {
			continue
		}
		if newest == nil {
			newest = r
			continue
		}
		if r.ReportDate.After(newest.ReportDate) ||
			(r.ReportDate.Equal(newest.ReportDate) && r.ID > newest.ID) {
			newest = r
		}
	}
	return newest
}
