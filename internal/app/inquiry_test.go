package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"dealerhub/internal/notify"
	"dealerhub/internal/store"
	"dealerhub/internal/validate"
	"dealerhub/pkg/domain"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotifier) Publish(_ context.Context, evt notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recordingNotifier) Close() error { return nil }

func (r *recordingNotifier) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, evt := range r.events {
		out[i] = evt.Type
	}
	return out
}

type testEnv struct {
	app      *App
	store    *store.MemoryStore
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T, allowResolveClosed bool) *testEnv {
	t.Helper()
	memStore := store.NewMemoryStore()
	notifier := &recordingNotifier{}
	a, err := New(Config{
		Store:              memStore,
		Sessions:           store.NewMemorySessionStore(),
		Notifier:           notifier,
		AllowResolveClosed: allowResolveClosed,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testEnv{app: a, store: memStore, notifier: notifier}
}

func (e *testEnv) addVehicle(t *testing.T) domain.Vehicle {
	t.Helper()
	cls, err := e.app.AddClassification("Sedan")
	if err != nil {
		t.Fatalf("AddClassification: %v", err)
	}
	v, err := e.app.AddVehicle(validate.VehicleInput{
		ClassificationID: cls.ID,
		Make:             "Toyota",
		Model:            "Camry",
		Year:             2021,
		Description:      "Clean one-owner sedan",
		Price:            18999,
		Miles:            42000,
		Color:            "Blue",
	})
	if err != nil {
		t.Fatalf("AddVehicle: %v", err)
	}
	return v
}

func (e *testEnv) registerClient(t *testing.T, email string) domain.Account {
	t.Helper()
	acct, err := e.app.Register(validate.RegistrationInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "a-long-enough-password",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return acct
}

func (e *testEnv) submit(t *testing.T, accountID, vehicleID string) domain.Inquiry {
	t.Helper()
	inq, err := e.app.SubmitInquiry(context.Background(), accountID, validate.InquiryInput{
		VehicleID: vehicleID,
		Subject:   "Test drive?",
		Message:   "Can I test drive this weekend?",
	})
	if err != nil {
		t.Fatalf("SubmitInquiry: %v", err)
	}
	return inq
}

func TestSubmitInquiryStartsPending(t *testing.T) {
	env := newTestEnv(t, false)
	vehicle := env.addVehicle(t)
	client := env.registerClient(t, "client@example.com")

	inq := env.submit(t, client.ID, vehicle.ID)
	if inq.Status != domain.StatusPending {
		t.Fatalf("expected Pending, got %q", inq.Status)
	}
	if inq.ID == "" {
		t.Fatal("expected generated ID")
	}

	got := env.notifier.types()
	if len(got) != 1 || got[0] != notify.EventInquiryCreated {
		t.Fatalf("expected one %s event, got %v", notify.EventInquiryCreated, got)
	}
}

func TestSubmitInquiryUnknownVehicle(t *testing.T) {
	env := newTestEnv(t, false)
	client := env.registerClient(t, "client@example.com")

	_, err := env.app.SubmitInquiry(context.Background(), client.ID, validate.InquiryInput{
		VehicleID: "no-such-vehicle",
		Subject:   "Test drive?",
		Message:   "Can I test drive this weekend?",
	})
	if !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
	if len(env.notifier.types()) != 0 {
		t.Fatal("expected no event for rejected submission")
	}
}

func TestInquiryDetailOwnership(t *testing.T) {
	env := newTestEnv(t, false)
	vehicle := env.addVehicle(t)
	owner := env.registerClient(t, "owner@example.com")
	other := env.registerClient(t, "other@example.com")
	inq := env.submit(t, owner.ID, vehicle.ID)

	if _, err := env.app.InquiryDetail(inq.ID, owner); err != nil {
		t.Fatalf("owner should see own inquiry: %v", err)
	}
	if _, err := env.app.InquiryDetail(inq.ID, other); !errors.Is(err, ErrInquiryForbidden) {
		t.Fatalf("expected ErrInquiryForbidden for another client, got %v", err)
	}

	staff := other
	staff.Role = domain.RoleEmployee
	view, err := env.app.InquiryDetail(inq.ID, staff)
	if err != nil {
		t.Fatalf("employee should see any inquiry: %v", err)
	}
	if view.VehicleMake != vehicle.Make || view.SubmitterEmail != owner.Email {
		t.Fatalf("expected joined fields, got %+v", view)
	}

	if _, err := env.app.InquiryDetail("missing", staff); !errors.Is(err, ErrInquiryNotFound) {
		t.Fatalf("expected ErrInquiryNotFound, got %v", err)
	}
}

func TestRespondResolvesInquiry(t *testing.T) {
	env := newTestEnv(t, false)
	vehicle := env.addVehicle(t)
	client := env.registerClient(t, "client@example.com")
	staff := env.registerClient(t, "staff@example.com")
	inq := env.submit(t, client.ID, vehicle.ID)

	view, err := env.app.Respond(context.Background(), staff.ID, validate.ResponseInput{
		InquiryID: inq.ID,
		Message:   "Yes, Saturday at 10am works.",
	})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if view.Status != domain.StatusResolved {
		t.Fatalf("expected Resolved after response, got %q", view.Status)
	}
	if view.ResponseMessage == "" || view.RespondedAt == nil || view.RespondedBy != staff.ID {
		t.Fatalf("expected response fields recorded, got %+v", view)
	}

	got := env.notifier.types()
	if len(got) != 2 || got[1] != notify.EventInquiryResponded {
		t.Fatalf("expected %s event, got %v", notify.EventInquiryResponded, got)
	}
}

func TestRespondClosedInquiryRejected(t *testing.T) {
	env := newTestEnv(t, false)
	vehicle := env.addVehicle(t)
	client := env.registerClient(t, "client@example.com")
	staff := env.registerClient(t, "staff@example.com")
	inq := env.submit(t, client.ID, vehicle.ID)

	if _, err := env.app.UpdateInquiryStatus(inq.ID, "Closed"); err != nil {
		t.Fatalf("UpdateInquiryStatus: %v", err)
	}
	_, err := env.app.Respond(context.Background(), staff.ID, validate.ResponseInput{
		InquiryID: inq.ID,
		Message:   "Too late, but here is an answer.",
	})
	if !errors.Is(err, ErrInquiryClosed) {
		t.Fatalf("expected ErrInquiryClosed, got %v", err)
	}
}

func TestRespondClosedInquiryAllowedByPolicy(t *testing.T) {
	env := newTestEnv(t, true)
	vehicle := env.addVehicle(t)
	client := env.registerClient(t, "client@example.com")
	staff := env.registerClient(t, "staff@example.com")
	inq := env.submit(t, client.ID, vehicle.ID)

	if _, err := env.app.UpdateInquiryStatus(inq.ID, "Closed"); err != nil {
		t.Fatalf("UpdateInquiryStatus: %v", err)
	}
	view, err := env.app.Respond(context.Background(), staff.ID, validate.ResponseInput{
		InquiryID: inq.ID,
		Message:   "Reopening this one with an answer.",
	})
	if err != nil {
		t.Fatalf("Respond with resolve-closed policy: %v", err)
	}
	if view.Status != domain.StatusResolved {
		t.Fatalf("expected Resolved, got %q", view.Status)
	}
}

func TestUpdateInquiryStatusRejectsUnknown(t *testing.T) {
	env := newTestEnv(t, false)
	vehicle := env.addVehicle(t)
	client := env.registerClient(t, "client@example.com")
	inq := env.submit(t, client.ID, vehicle.ID)

	if _, err := env.app.UpdateInquiryStatus(inq.ID, "Archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	view, err := env.app.InquiryDetail(inq.ID, client)
	if err != nil {
		t.Fatalf("InquiryDetail: %v", err)
	}
	if view.Status != domain.StatusPending {
		t.Fatalf("status changed after rejected update: %q", view.Status)
	}

	updated, err := env.app.UpdateInquiryStatus(inq.ID, "in progress")
	if err != nil {
		t.Fatalf("UpdateInquiryStatus: %v", err)
	}
	if updated.Status != domain.StatusInProgress {
		t.Fatalf("expected In Progress, got %q", updated.Status)
	}
}

func TestInquiryInboxBuckets(t *testing.T) {
	env := newTestEnv(t, false)
	vehicle := env.addVehicle(t)
	client := env.registerClient(t, "client@example.com")
	staff := env.registerClient(t, "staff@example.com")

	pending := env.submit(t, client.ID, vehicle.ID)
	resolved := env.submit(t, client.ID, vehicle.ID)
	inProgress := env.submit(t, client.ID, vehicle.ID)
	closed := env.submit(t, client.ID, vehicle.ID)

	if _, err := env.app.Respond(context.Background(), staff.ID, validate.ResponseInput{InquiryID: resolved.ID, Message: "Answered in full here."}); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if _, err := env.app.UpdateInquiryStatus(inProgress.ID, "In Progress"); err != nil {
		t.Fatalf("UpdateInquiryStatus: %v", err)
	}
	if _, err := env.app.UpdateInquiryStatus(closed.ID, "Closed"); err != nil {
		t.Fatalf("UpdateInquiryStatus: %v", err)
	}

	inbox, err := env.app.InquiryInbox()
	if err != nil {
		t.Fatalf("InquiryInbox: %v", err)
	}
	if len(inbox.Pending) != 1 || inbox.Pending[0].ID != pending.ID {
		t.Fatalf("expected one pending inquiry, got %+v", inbox.Pending)
	}
	if len(inbox.Responded) != 2 {
		t.Fatalf("expected Resolved and In Progress in responded bucket, got %d", len(inbox.Responded))
	}
	if len(inbox.Closed) != 1 || inbox.Closed[0].ID != closed.ID {
		t.Fatalf("expected one closed inquiry, got %+v", inbox.Closed)
	}
	if inbox.PendingCount != 1 {
		t.Fatalf("expected pending count 1, got %d", inbox.PendingCount)
	}
	if len(inbox.All) != 4 {
		t.Fatalf("expected 4 inquiries total, got %d", len(inbox.All))
	}
	if inbox.All[0].Status != domain.StatusPending || inbox.All[len(inbox.All)-1].Status != domain.StatusClosed {
		t.Fatalf("expected pending first and closed last, got %q .. %q", inbox.All[0].Status, inbox.All[len(inbox.All)-1].Status)
	}

	count, err := env.app.PendingInquiryCount()
	if err != nil {
		t.Fatalf("PendingInquiryCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected pending count 1, got %d", count)
	}
}

func TestMyInquiriesScopedToAccount(t *testing.T) {
	env := newTestEnv(t, false)
	vehicle := env.addVehicle(t)
	first := env.registerClient(t, "first@example.com")
	second := env.registerClient(t, "second@example.com")

	env.submit(t, first.ID, vehicle.ID)
	env.submit(t, first.ID, vehicle.ID)
	env.submit(t, second.ID, vehicle.ID)

	mine, err := env.app.MyInquiries(first.ID)
	if err != nil {
		t.Fatalf("MyInquiries: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 inquiries, got %d", len(mine))
	}
	for _, item := range mine {
		if item.AccountID != first.ID {
			t.Fatalf("inquiry from another account leaked: %+v", item)
		}
	}
}

func TestDeleteInquiry(t *testing.T) {
	env := newTestEnv(t, false)
	vehicle := env.addVehicle(t)
	client := env.registerClient(t, "client@example.com")
	inq := env.submit(t, client.ID, vehicle.ID)

	if err := env.app.DeleteInquiry(inq.ID); err != nil {
		t.Fatalf("DeleteInquiry: %v", err)
	}
	if err := env.app.DeleteInquiry(inq.ID); !errors.Is(err, ErrInquiryNotFound) {
		t.Fatalf("expected ErrInquiryNotFound on second delete, got %v", err)
	}
}

func TestInquiryForResponse(t *testing.T) {
	env := newTestEnv(t, false)
	vehicle := env.addVehicle(t)
	client := env.registerClient(t, "client@example.com")
	inq := env.submit(t, client.ID, vehicle.ID)

	view, canRespond, err := env.app.InquiryForResponse(inq.ID)
	if err != nil {
		t.Fatalf("InquiryForResponse: %v", err)
	}
	if !canRespond {
		t.Fatal("expected pending inquiry to accept responses")
	}
	if view.ID != inq.ID {
		t.Fatalf("expected inquiry %s, got %s", inq.ID, view.ID)
	}

	if _, err := env.app.UpdateInquiryStatus(inq.ID, "Closed"); err != nil {
		t.Fatalf("UpdateInquiryStatus: %v", err)
	}
	_, canRespond, err = env.app.InquiryForResponse(inq.ID)
	if err != nil {
		t.Fatalf("InquiryForResponse: %v", err)
	}
	if canRespond {
		t.Fatal("expected closed inquiry to refuse responses")
	}
}
