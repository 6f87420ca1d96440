package models

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   Category
		wantOK bool
	}{
		{"food", CategoryFood, true},
		{"  Travel ", CategoryTravel, true},
		{"ENTERTAINMENT", CategoryEntertainment, true},
		{"misc", CategoryMisc, true},
		{"electronics", CategoryMisc, false},
		{"", CategoryMisc, false},
		{"food and drinks", CategoryMisc, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseCategory(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCategoriesAreClosedSet(t *testing.T) {
	want := []string{
		"food", "groceries", "travel", "stays", "bills", "subscription", "shopping",
		"gifts", "drinks", "fuels", "debt", "health", "entertainment", "misc",
	}
	got := CategoryNames()
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d = %q, want %q", i, got[i], want[i])
		}
		if !Category(want[i]).Valid() {
			t.Errorf("%q should be valid", want[i])
		}
	}
	if Category("uncategorized").Valid() {
		t.Error("uncategorized should not be valid")
	}
}
