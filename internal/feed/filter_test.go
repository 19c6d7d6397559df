package feed

import (
	"testing"

	"btto/internal/model"
)

func strPtr(s string) *string { return &s }

func TestFilterByStatus(t *testing.T) {
	items := []model.AgendaItem{
		{ID: 1, Status: strPtr("in Beratung, erledigt")},
		{ID: 2, Status: strPtr("in Beratung")},
		{ID: 3, Status: nil},
		{ID: 4, Status: strPtr("")},
		{ID: 5, Status: strPtr("erledigt")},
	}

	tests := []struct {
		name    string
		substr  string
		wantIDs []int64
	}{
		{
			name:    "empty filter keeps everything",
			substr:  "",
			wantIDs: []int64{1, 2, 3, 4, 5},
		},
		{
			// The status column informally packs several values
			// into one string; matching is substring, not
			// equality.
			name:    "substring match inside packed value",
			substr:  "erledigt",
			wantIDs: []int64{1, 5},
		},
		{
			name:    "no match",
			substr:  "abgesetzt",
			wantIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByStatus(items, tt.substr)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.wantIDs))
			}
			for i, item := range got {
				if item.ID != tt.wantIDs[i] {
					t.Errorf("item %d: got id %d, want %d", i, item.ID, tt.wantIDs[i])
				}
			}
		})
	}
}
