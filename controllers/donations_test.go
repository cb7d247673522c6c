package controllers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"outreach-portal/middleware"
)

func TestDonationSearchNumericMatchesAmountExactly(t *testing.T) {
	db := newTestDB(t)
	p1 := insertParticipant(t, db, "Mira", "Okafor", "mira@example.org")
	p2 := insertParticipant(t, db, "Ana", "Pérez", "ana@example.org")
	if _, err := db.Exec("INSERT INTO donations (participant_id, donation_amount, donation_date) VALUES (?, 50.00, '2026-01-15'), (?, 120.00, '2026-02-15')", p1, p2); err != nil {
		t.Fatalf("seed donations: %v", err)
	}

	dc := DonationController{}
	w := doGet(t, dc.List(db), managerIdentity(), "/donations?q=50")

	body := w.Body.String()
	if !strings.Contains(body, "Mira") {
		t.Error("donation of 50 not matched by numeric search")
	}
	if strings.Contains(body, "Ana") {
		t.Error("unrelated donation matched numeric search")
	}
}

func TestDonationListScopedToOwnParticipant(t *testing.T) {
	db := newTestDB(t)
	mine := insertParticipant(t, db, "Mira", "Okafor", "mira@example.org")
	other := insertParticipant(t, db, "Ana", "Pérez", "ana@example.org")
	if _, err := db.Exec("INSERT INTO donations (participant_id, donation_amount, donation_date) VALUES (?, 50.00, '2026-01-15'), (?, 120.00, '2026-02-15')", mine, other); err != nil {
		t.Fatalf("seed donations: %v", err)
	}

	dc := DonationController{}
	w := doGet(t, dc.List(db), userIdentity(4, mine), "/donations")

	body := w.Body.String()
	if !strings.Contains(body, "50.00") {
		t.Error("own donation missing from scoped listing")
	}
	if strings.Contains(body, "120.00") {
		t.Error("foreign donation leaked into scoped listing")
	}
}

func TestPublicDonateReusesParticipantByEmail(t *testing.T) {
	db := newTestDB(t)
	dc := DonateController{}

	form := url.Values{
		"email":           {"donor@example.org"},
		"first_name":      {"Sam"},
		"last_name":       {"Donor"},
		"donation_amount": {"30"},
	}
	for i := 0; i < 2; i++ {
		w := doPost(t, dc.Submit(db), middleware.Identity{}, "/donate", form, nil)
		if w.Code != http.StatusSeeOther {
			t.Fatalf("submit %d status = %d, want 303", i, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/donate/thanks" {
			t.Errorf("redirect = %q, want /donate/thanks", loc)
		}
	}

	if n := countTable(t, db, "participants"); n != 1 {
		t.Errorf("participants = %d, want a single reused donor", n)
	}
	if n := countTable(t, db, "donations"); n != 2 {
		t.Errorf("donations = %d, want 2", n)
	}
}

func TestPublicDonateRedirectsAuthenticated(t *testing.T) {
	_ = newTestDB(t)
	dc := DonateController{}

	w := doGet(t, dc.Form(), userIdentity(3, 7), "/donate")
	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/donations" {
		t.Errorf("redirect = %q, want /donations", loc)
	}
}

func TestPublicDonateRejectsBadAmount(t *testing.T) {
	db := newTestDB(t)
	dc := DonateController{}

	form := url.Values{"email": {"donor@example.org"}, "donation_amount": {"-5"}}
	w := doPost(t, dc.Submit(db), middleware.Identity{}, "/donate", form, nil)

	if !strings.Contains(w.Body.String(), "A valid email and donation amount are required.") {
		t.Error("validation message missing")
	}
	if n := countTable(t, db, "donations"); n != 0 {
		t.Errorf("donations = %d, want none recorded", n)
	}
}
