package controllers

import (
	"net/http/httptest"
	"testing"
)

func TestFilterClause(t *testing.T) {
	f := &Filter{}
	if f.Clause() != "" {
		t.Errorf("empty filter should produce no clause, got %q", f.Clause())
	}

	f.Equals("p.participant_id", 7)
	f.Search("Ana", []string{"p.first_name", "p.email"})

	want := " WHERE p.participant_id = ? AND (LOWER(p.first_name) LIKE ? OR LOWER(p.email) LIKE ?)"
	if f.Clause() != want {
		t.Errorf("clause = %q, want %q", f.Clause(), want)
	}

	args := f.Args()
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	if args[0] != 7 {
		t.Errorf("args[0] = %v, want 7", args[0])
	}
	if args[1] != "%ana%" || args[2] != "%ana%" {
		t.Errorf("search args = %v %v, want lowercased %%ana%%", args[1], args[2])
	}
}

func TestFilterSearchExact(t *testing.T) {
	f := &Filter{}
	f.Search("50", []string{"CAST(d.donation_amount AS CHAR)"}, "d.donation_amount")

	want := " WHERE (LOWER(CAST(d.donation_amount AS CHAR)) LIKE ? OR d.donation_amount = ?)"
	if f.Clause() != want {
		t.Errorf("clause = %q, want %q", f.Clause(), want)
	}
	args := f.Args()
	if args[0] != "%50%" || args[1] != "50" {
		t.Errorf("args = %v, want [%%50%% 50]", args)
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		totalRows      int
		wantNumber     int
		wantTotalPages int
		wantOffset     int
	}{
		{"defaults", "/participants", 250, 1, 3, 0},
		{"last partial page", "/participants?page=3", 250, 3, 3, 200},
		{"exact multiple", "/participants?page=2", 200, 2, 2, 100},
		{"empty table", "/participants", 0, 1, 0, 0},
		{"garbage page param", "/participants?page=zero", 42, 1, 1, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page := newPage(httptest.NewRequest("GET", tc.url, nil), tc.totalRows)
			if page.Number != tc.wantNumber {
				t.Errorf("Number = %d, want %d", page.Number, tc.wantNumber)
			}
			if page.TotalPages != tc.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", page.TotalPages, tc.wantTotalPages)
			}
			if page.Offset != tc.wantOffset {
				t.Errorf("Offset = %d, want %d", page.Offset, tc.wantOffset)
			}
			if page.Size != pageSize {
				t.Errorf("Size = %d, want %d", page.Size, pageSize)
			}
		})
	}
}
