package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"btto/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "agenda.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func seedItem(year, week int, start, end, thema string) model.AgendaItem {
	return model.AgendaItem{
		Year:         year,
		Week:         week,
		Start:        start,
		End:          end,
		Thema:        thema,
		Beschreibung: "Beratung",
		UID:          thema + "-uid",
		DTStamp:      "20240110T120000Z",
	}
}

func TestInsertAndFetchRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	item := seedItem(2024, 3, "2024-01-15T10:00", "2024-01-15T11:00", "Haushaltsgesetz")
	item.TOP = strPtr("TOP 4")
	item.URL = strPtr("https://bundestag.de/to/4")
	item.NamedVote = true

	id, err := s.Insert(ctx, item)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id == 0 {
		t.Fatal("Insert returned zero row id")
	}

	items, err := s.ItemsForWindow(ctx, model.Window{Year: 2024})
	if err != nil {
		t.Fatalf("ItemsForWindow: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	got := items[0]
	if got.ID != id {
		t.Errorf("ID = %d, want %d", got.ID, id)
	}
	if got.TOP == nil || *got.TOP != "TOP 4" {
		t.Errorf("TOP = %v", got.TOP)
	}
	if got.Status != nil {
		t.Errorf("Status = %v, want nil", got.Status)
	}
	if !got.NamedVote {
		t.Error("NamedVote not persisted")
	}
	if got.Start != item.Start || got.End != item.End {
		t.Errorf("timestamps = %q/%q", got.Start, got.End)
	}
}

func TestItemsForWindowSelectors(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seeds := []model.AgendaItem{
		seedItem(2024, 3, "2024-01-15T10:00", "2024-01-15T11:00", "Januar KW3"),
		seedItem(2024, 10, "2024-03-05T09:00", "2024-03-05T10:00", "März"),
		seedItem(2024, 28, "2024-07-15T09:00", "2024-07-15T10:00", "Juli 15."),
		seedItem(2023, 45, "2023-11-08T09:00", "2023-11-08T10:00", "Altjahr"),
	}
	for _, item := range seeds {
		if _, err := s.Insert(ctx, item); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	themen := func(items []model.AgendaItem) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.Thema
		}
		return out
	}

	tests := []struct {
		name string
		win  model.Window
		want []string
	}{
		{"whole year", model.Window{Year: 2024}, []string{"Januar KW3", "März", "Juli 15."}},
		{"week", model.Window{Year: 2024, Week: intPtr(10)}, []string{"März"}},
		{"month", model.Window{Year: 2024, Month: intPtr(3)}, []string{"März"}},
		{"month and day", model.Window{Year: 2024, Month: intPtr(7), Day: intPtr(15)}, []string{"Juli 15."}},
		// A bare day selector matches that day of every month.
		{"day across months", model.Window{Year: 2024, Day: intPtr(15)}, []string{"Januar KW3", "Juli 15."}},
		// Week wins over month when both are set.
		{"week beats month", model.Window{Year: 2024, Week: intPtr(3), Month: intPtr(7)}, []string{"Januar KW3"}},
		{"other year", model.Window{Year: 2023}, []string{"Altjahr"}},
		{"no matches", model.Window{Year: 2022}, []string{}},
	}
	for _, tt := range tests {
		items, err := s.ItemsForWindow(ctx, tt.win)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got := themen(items); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestItemsForWindowOrderedByStart(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Insert out of chronological order.
	for _, item := range []model.AgendaItem{
		seedItem(2024, 3, "2024-01-15T15:00", "2024-01-15T16:00", "Nachmittag"),
		seedItem(2024, 3, "2024-01-15T09:00", "2024-01-15T10:00", "Morgen"),
		seedItem(2024, 3, "2024-01-16T09:00", "2024-01-16T10:00", "Dienstag"),
	} {
		if _, err := s.Insert(ctx, item); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	items, err := s.ItemsForWindow(ctx, model.Window{Year: 2024, Week: intPtr(3)})
	if err != nil {
		t.Fatalf("ItemsForWindow: %v", err)
	}
	want := []string{"Morgen", "Nachmittag", "Dienstag"}
	for i, w := range want {
		if items[i].Thema != w {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Thema, w)
		}
	}
}

func TestDataList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, item := range []model.AgendaItem{
		seedItem(2023, 45, "2023-11-08T09:00", "2023-11-08T10:00", "a"),
		seedItem(2024, 3, "2024-01-15T09:00", "2024-01-15T10:00", "b"),
		seedItem(2024, 3, "2024-01-16T09:00", "2024-01-16T10:00", "c"),
		seedItem(2024, 4, "2024-01-22T09:00", "2024-01-22T10:00", "d"),
	} {
		if _, err := s.Insert(ctx, item); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	list, err := s.DataList(ctx)
	if err != nil {
		t.Fatalf("DataList: %v", err)
	}
	want := []YearWeeks{
		{Year: 2024, Weeks: []int{4, 3}},
		{Year: 2023, Weeks: []int{45}},
	}
	if !reflect.DeepEqual(list, want) {
		t.Errorf("DataList = %v, want %v", list, want)
	}
}

func TestDataListEmpty(t *testing.T) {
	s := openTestStore(t)

	list, err := s.DataList(context.Background())
	if err != nil {
		t.Fatalf("DataList: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("DataList on empty store = %v", list)
	}
}

func TestPurge(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		item := seedItem(2024, 3, "2024-01-15T09:00", "2024-01-15T10:00", "x")
		if _, err := s.Insert(ctx, item); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	n, err := s.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 3 {
		t.Errorf("Purge deleted %d rows, want 3", n)
	}

	items, err := s.ItemsForWindow(ctx, model.Window{Year: 2024})
	if err != nil {
		t.Fatalf("ItemsForWindow: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("%d items survived the purge", len(items))
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenda.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Insert(ctx, seedItem(2024, 3, "2024-01-15T09:00", "2024-01-15T10:00", "bleibt")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	items, err := s2.ItemsForWindow(ctx, model.Window{Year: 2024})
	if err != nil {
		t.Fatalf("ItemsForWindow: %v", err)
	}
	if len(items) != 1 || items[0].Thema != "bleibt" {
		t.Errorf("data lost across reopen: %v", items)
	}
}

func TestOptimize(t *testing.T) {
	s := openTestStore(t)
	if err := s.Optimize(context.Background()); err != nil {
		t.Errorf("Optimize: %v", err)
	}
}
