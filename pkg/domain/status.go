package domain

import (
	"fmt"
	"strings"
)

type InquiryStatus string

const (
	StatusPending    InquiryStatus = "Pending"
	StatusInProgress InquiryStatus = "In Progress"
	StatusResolved   InquiryStatus = "Resolved"
	StatusClosed     InquiryStatus = "Closed"
)

// ParseInquiryStatus normalizes a free-form status string to a canonical
// value. Matching is case-insensitive and "responded" is accepted as an alias
// for Resolved. Unrecognized input is an error; it never reaches storage.
func ParseInquiryStatus(raw string) (InquiryStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return StatusPending, nil
	case "in progress":
		return StatusInProgress, nil
	case "resolved", "responded":
		return StatusResolved, nil
	case "closed":
		return StatusClosed, nil
	default:
		return "", fmt.Errorf("unrecognized inquiry status %q", raw)
	}
}

// Valid reports whether s is one of the four canonical values.
func (s InquiryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Priority returns the fixed inbox sort ordinal. Lower sorts first.
func (s InquiryStatus) Priority() int {
	switch s {
	case StatusPending:
		return 1
	case StatusInProgress:
		return 2
	case StatusResolved:
		return 3
	case StatusClosed:
		return 4
	default:
		return 5
	}
}

// CanRespond reports whether recording a response may move an inquiry in
// status s to Resolved. Closed inquiries stay closed unless the operator
// explicitly allows resurrecting them.
func CanRespond(s InquiryStatus, allowResolveClosed bool) bool {
	if s == StatusClosed {
		return allowResolveClosed
	}
	return s.Valid()
}
