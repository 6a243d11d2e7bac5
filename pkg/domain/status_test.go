package domain

import "testing"

func TestParseInquiryStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    InquiryStatus
		wantErr bool
	}{
		{"Pending", StatusPending, false},
		{"pending", StatusPending, false},
		{"  in progress ", StatusInProgress, false},
		{"In Progress", StatusInProgress, false},
		{"resolved", StatusResolved, false},
		{"responded", StatusResolved, false},
		{"Responded", StatusResolved, false},
		{"closed", StatusClosed, false},
		{"archived", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := ParseInquiryStatus(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseInquiryStatus(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseInquiryStatus(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseInquiryStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStatusPriorityOrder(t *testing.T) {
	order := []InquiryStatus{StatusPending, StatusInProgress, StatusResolved, StatusClosed}
	for i := 1; i < len(order); i++ {
		if order[i-1].Priority() >= order[i].Priority() {
			t.Fatalf("priority of %q (%d) should precede %q (%d)",
				order[i-1], order[i-1].Priority(), order[i], order[i].Priority())
		}
	}
	if InquiryStatus("bogus").Priority() <= StatusClosed.Priority() {
		t.Fatalf("unknown status should sort after Closed")
	}
}

func TestCanRespond(t *testing.T) {
	for _, s := range []InquiryStatus{StatusPending, StatusInProgress, StatusResolved} {
		if !CanRespond(s, false) {
			t.Fatalf("expected respond allowed from %q", s)
		}
	}
	if CanRespond(StatusClosed, false) {
		t.Fatalf("respond must not resurrect a closed inquiry by default")
	}
	if !CanRespond(StatusClosed, true) {
		t.Fatalf("allowResolveClosed should permit responding to a closed inquiry")
	}
	if CanRespond(InquiryStatus("bogus"), false) {
		t.Fatalf("respond must reject unknown status")
	}
}
