//go:build !integration

package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
)

// --- RecallRecord Model Tests ---

func TestNewRecallRecord(t *testing.T) {
	t.Run("should create a record with a parsed report date", func(t *testing.T) {
		rec, err := NewRecallRecord("F-0123-2025", "20250812")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if rec == nil {
			t.Fatal("expected record to be non-nil, but got nil")
		}
		if rec.ID != "F-0123-2025" {
			t.Errorf("expected ID to be 'F-0123-2025', but got %s", rec.ID)
		}
		want := time.Date(2025, time.August, 12, 0, 0, 0, 0, time.UTC)
		if !rec.ReportDate.Equal(want) {
			t.Errorf("expected report date %v, but got %v", want, rec.ReportDate)
		}
	})

	t.Run("should fail with invalid arguments", func(t *testing.T) {
		testCases := []struct {
			name       string
			id         string
			reportDate string
		}{
			{"empty id", "", "20250812"},
			{"empty date", "F-0123-2025", ""},
			{"garbage date", "F-0123-2025", "last tuesday"},
			{"month out of range", "F-0123-2025", "20251301"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				rec, err := NewRecallRecord(tc.id, tc.reportDate)
				if err == nil {
					t.Fatalf("expected an error for %s, but got nil", tc.name)
				}
				if rec != nil {
					t.Errorf("expected record to be nil on error, but it was not")
				}
				if !errors.Is(err, domain.ErrInvalidArgument) {
					t.Errorf("expected error to be ErrInvalidArgument, but got %T", err)
				}
			})
		}
	})
}

func TestRecallRecordNewerThan(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.August, d, 0, 0, 0, 0, time.UTC)
	}
	marker := &Marker{ID: "F-0100-2025", ReportDate: day(10)}

	testCases := []struct {
		name   string
		record RecallRecord
		marker *Marker
		want   bool
	}{
		{"later date is newer", RecallRecord{ID: "F-0050-2025", ReportDate: day(11)}, marker, true},
		{"earlier date is not newer", RecallRecord{ID: "F-0999-2025", ReportDate: day(9)}, marker, false},
		{"same date greater id breaks tie", RecallRecord{ID: "F-0101-2025", ReportDate: day(10)}, marker, true},
		{"same date smaller id is not newer", RecallRecord{ID: "F-0099-2025", ReportDate: day(10)}, marker, false},
		{"the marker record itself is not newer", RecallRecord{ID: "F-0100-2025", ReportDate: day(10)}, marker, false},
		{"nil marker means everything is newer", RecallRecord{ID: "F-0001-2025", ReportDate: day(1)}, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.record.NewerThan(tc.marker); got != tc.want {
				t.Errorf("NewerThan() = %v, want %v", got, tc.want)
			}
		})
	}
}

// --- Marker Model Tests ---

func TestMarker(t *testing.T) {
	t.Run("MarkerFromRecord should copy the cursor fields", func(t *testing.T) {
		rec, err := NewRecallRecord("F-0123-2025", "20250812")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		now := time.Now()

		m := MarkerFromRecord(rec, now)
		if m.ID != rec.ID {
			t.Errorf("expected marker ID %s, but got %s", rec.ID, m.ID)
		}
		if !m.ReportDate.Equal(rec.ReportDate) {
			t.Errorf("expected marker date %v, but got %v", rec.ReportDate, m.ReportDate)
		}
		if !m.AdvancedAt.Equal(now) {
			t.Errorf("expected AdvancedAt %v, but got %v", now, m.AdvancedAt)
		}
	})

	t.Run("Equal should ignore AdvancedAt", func(t *testing.T) {
		d := time.Date(2025, time.August, 12, 0, 0, 0, 0, time.UTC)
		a := &Marker{ID: "F-0123-2025", ReportDate: d, AdvancedAt: time.Now()}
		b := &Marker{ID: "F-0123-2025", ReportDate: d, AdvancedAt: time.Now().Add(time.Hour)}

		if !a.Equal(b) {
			t.Error("expected markers with the same cursor to be equal")
		}
		if a.Equal(&Marker{ID: "F-0124-2025", ReportDate: d}) {
			t.Error("expected markers with different IDs to differ")
		}
		if a.Equal(nil) {
			t.Error("expected non-nil marker to differ from nil")
		}
		var c *Marker
		if !c.Equal(nil) {
			t.Error("expected nil markers to be equal")
		}
	})
}

// --- NotificationMessage Tests ---

func TestFormatRecall(t *testing.T) {
	t.Run("should render every populated field", func(t *testing.T) {
		rec := &RecallRecord{
			ID:                  "F-0123-2025",
			ReportDate:          time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
			ProductDescription:  "Frozen blueberries, 5 lb bag",
			ReasonForRecall:     "Potential Listeria contamination",
			RecallingFirm:       "Berry Farms Inc",
			DistributionPattern: "Nationwide",
		}

		msg := FormatRecall(rec)
		if msg.RecallID != "F-0123-2025" {
			t.Errorf("expected recall ID to be carried, but got %s", msg.RecallID)
		}
		for _, want := range []string{
			"🚨 *FDA Recall Alert* 🚨",
			"*Product:* Frozen blueberries, 5 lb bag",
			"*Reason:* Potential Listeria contamination",
			"*Company:* Berry Farms Inc",
			"*Distribution:* Nationwide",
			"*Recall Date:* March 5, 2025",
			"[More Info](" + RecallsPageURL + ")",
		} {
			if !strings.Contains(msg.Text, want) {
				t.Errorf("expected message to contain %q, full text:\n%s", want, msg.Text)
			}
		}
	})

	t.Run("should render empty optional fields as n/a", func(t *testing.T) {
		rec := &RecallRecord{
			ID:         "F-0123-2025",
			ReportDate: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		}

		msg := FormatRecall(rec)
		if !strings.Contains(msg.Text, "*Product:* n/a") {
			t.Errorf("expected empty product to render as n/a, full text:\n%s", msg.Text)
		}
		if !strings.Contains(msg.Text, "*Distribution:* n/a") {
			t.Errorf("expected empty distribution to render as n/a, full text:\n%s", msg.Text)
		}
	})
}
