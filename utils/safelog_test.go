package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"reflect"
	"testing"
)

func withProduction(t *testing.T, prod bool) {
	t.Helper()
	prev := IsProduction
	IsProduction = prod
	t.Cleanup(func() { IsProduction = prev })
}

func TestMaskingInProduction(t *testing.T) {
	withProduction(t, true)

	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"email", MaskString, "paid by asha@example.com", "paid by ***@***.***"},
		{"phone", MaskString, "call +91 98765 43210 later", "call *** later"},
		{"uuid", MaskString, "expense 3f2b8c1e-9d4a-4c6b-8e2f-1a2b3c4d5e6f", "expense 3f2b8c1e..."},
		{"plain text untouched", MaskString, "coffee 300", "coffee 300"},
		{"long id", MaskID, "user-1234567890", "user-123..."},
		{"short id", MaskID, "u1", "***"},
		{"contact with phone", MaskContact, "Asha - 9876543210", "Asha - ***"},
		{"contact name only", MaskContact, "Ben", "Ben"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaskingDisabledInDevelopment(t *testing.T) {
	withProduction(t, false)

	if got := MaskContact("Asha - 9876543210"); got != "Asha - 9876543210" {
		t.Errorf("MaskContact() = %q", got)
	}
	if got := MaskID("u1"); got != "u1" {
		t.Errorf("MaskID() = %q", got)
	}
	if GetEnvMode() != "development" {
		t.Errorf("GetEnvMode() = %q", GetEnvMode())
	}
}

func TestMaskContacts(t *testing.T) {
	withProduction(t, true)

	got := MaskContacts([]string{"A - 1234567", "B"})
	want := []string{"A - ***", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MaskContacts() = %v, want %v", got, want)
	}
	if got := MaskContacts(nil); len(got) != 0 {
		t.Errorf("MaskContacts(nil) = %v", got)
	}
}

func TestLogExpenseAction(t *testing.T) {
	withProduction(t, true)

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(NewJSONLogger(&buf, slog.LevelInfo))
	t.Cleanup(func() { slog.SetDefault(prev) })

	LogExpenseAction("Expense added", "user-1234567890", "e-1", "category", "food")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "[Ledger] Expense added" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["user_id"] != "user-123..." || entry["expense_id"] != "e-1" || entry["category"] != "food" {
		t.Errorf("entry = %v", entry)
	}
}
