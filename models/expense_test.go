package models

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestSplitShare(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		contacts int
		want     float64
	}{
		{"no contacts keeps full amount", 250, 0, 250},
		{"two contacts splits in three", 300, 2, 100},
		{"zero amount", 0, 4, 0},
		{"decimal amount", 10.5, 1, 5.25},
		{"uneven split", 100, 2, 100.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitShare(tt.amount, tt.contacts); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SplitShare(%v, %d) = %v, want %v", tt.amount, tt.contacts, got, tt.want)
			}
		})
	}
}

func TestAddExpenseRequestContactList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"empty array", `[]`, []string{}, false},
		{"strings", `["Asha - 9876543210", "Ben"]`, []string{"Asha - 9876543210", "Ben"}, false},
		{"duplicates kept in order", `["B","A","B"]`, []string{"B", "A", "B"}, false},
		{"missing", ``, nil, true},
		{"null", `null`, nil, true},
		{"string instead of array", `"Ben"`, nil, true},
		{"object", `{"name":"Ben"}`, nil, true},
		{"number element", `["Ben", 42]`, nil, true},
		{"null element", `[null]`, nil, true},
		{"nested array", `[["Ben"]]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := AddExpenseRequest{UserID: "u1", Brief: "b", Contacts: []byte(tt.raw)}
			got, err := req.ContactList()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidContacts) {
					t.Fatalf("expected ErrInvalidContacts, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ContactList() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
