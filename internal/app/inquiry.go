package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dealerhub/internal/notify"
	"dealerhub/internal/util"
	"dealerhub/internal/validate"
	"dealerhub/pkg/domain"
)

// Inbox groups every inquiry into the three back-office display buckets.
// Responded holds both Resolved and In Progress inquiries.
type Inbox struct {
	Pending      []domain.InquiryView `json:"pending"`
	Responded    []domain.InquiryView `json:"responded"`
	Closed       []domain.InquiryView `json:"closed"`
	All          []domain.InquiryView `json:"all"`
	PendingCount int                  `json:"pendingCount"`
}

// InquiryFormVehicle loads the vehicle an inquiry form is being prepared
// for, so the caller can show make, model, and year next to the form.
func (a *App) InquiryFormVehicle(id string) (domain.Vehicle, error) {
	vehicle, ok, err := a.store.GetVehicle(id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("load vehicle: %w", err)
	}
	if !ok {
		return domain.Vehicle{}, ErrVehicleNotFound
	}
	return vehicle, nil
}

// SubmitInquiry records a new customer inquiry against a vehicle. The
// inquiry always starts Pending regardless of what the caller sends.
func (a *App) SubmitInquiry(ctx context.Context, accountID string, in validate.InquiryInput) (domain.Inquiry, error) {
	if _, ok, err := a.store.GetVehicle(in.VehicleID); err != nil {
		return domain.Inquiry{}, fmt.Errorf("load vehicle: %w", err)
	} else if !ok {
		return domain.Inquiry{}, ErrVehicleNotFound
	}
	inquiry, err := a.store.CreateInquiry(domain.Inquiry{
		ID:        util.NewID(),
		VehicleID: in.VehicleID,
		AccountID: accountID,
		Subject:   in.Subject,
		Message:   in.Message,
	})
	if err != nil {
		return domain.Inquiry{}, fmt.Errorf("create inquiry: %w", err)
	}
	a.publish(ctx, notify.Event{
		Type:      notify.EventInquiryCreated,
		InquiryID: inquiry.ID,
		VehicleID: inquiry.VehicleID,
		AccountID: inquiry.AccountID,
		Status:    string(inquiry.Status),
	})
	return inquiry, nil
}

// MyInquiries lists the inquiries submitted by one account, newest first
// within each status.
func (a *App) MyInquiries(accountID string) ([]domain.InquiryView, error) {
	items, err := a.store.ListInquiriesByAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return items, nil
}

// InquiryDetail returns one inquiry. Clients may only see their own;
// employees and admins may see any.
func (a *App) InquiryDetail(id string, viewer domain.Account) (domain.InquiryView, error) {
	view, ok, err := a.store.GetInquiry(id)
	if err != nil {
		return domain.InquiryView{}, fmt.Errorf("load inquiry: %w", err)
	}
	if !ok {
		return domain.InquiryView{}, ErrInquiryNotFound
	}
	if !viewer.Role.CanManage() && view.AccountID != viewer.ID {
		return domain.InquiryView{}, ErrInquiryForbidden
	}
	return view, nil
}

// InquiryInbox returns every inquiry bucketed for the back-office view.
func (a *App) InquiryInbox() (Inbox, error) {
	items, err := a.store.ListInquiries()
	if err != nil {
		return Inbox{}, fmt.Errorf("list inquiries: %w", err)
	}
	inbox := Inbox{
		Pending:   []domain.InquiryView{},
		Responded: []domain.InquiryView{},
		Closed:    []domain.InquiryView{},
		All:       items,
	}
	for _, item := range items {
		switch item.Status {
		case domain.StatusPending:
			inbox.Pending = append(inbox.Pending, item)
			inbox.PendingCount++
		case domain.StatusResolved, domain.StatusInProgress:
			inbox.Responded = append(inbox.Responded, item)
		case domain.StatusClosed:
			inbox.Closed = append(inbox.Closed, item)
		}
	}
	return inbox, nil
}

// InquiryForResponse loads an inquiry for the response form and reports
// whether responding is currently allowed under the status rules.
func (a *App) InquiryForResponse(id string) (domain.InquiryView, bool, error) {
	view, ok, err := a.store.GetInquiry(id)
	if err != nil {
		return domain.InquiryView{}, false, fmt.Errorf("load inquiry: %w", err)
	}
	if !ok {
		return domain.InquiryView{}, false, ErrInquiryNotFound
	}
	return view, domain.CanRespond(view.Status, a.allowResolveClosed), nil
}

// Respond records an employee response. The status moves to Resolved in the
// same update that stores the response text. Closed inquiries reject the
// response unless the resolve-closed policy is on.
func (a *App) Respond(ctx context.Context, responderID string, in validate.ResponseInput) (domain.InquiryView, error) {
	view, ok, err := a.store.GetInquiry(in.InquiryID)
	if err != nil {
		return domain.InquiryView{}, fmt.Errorf("load inquiry: %w", err)
	}
	if !ok {
		return domain.InquiryView{}, ErrInquiryNotFound
	}
	if !domain.CanRespond(view.Status, a.allowResolveClosed) {
		return domain.InquiryView{}, ErrInquiryClosed
	}
	updated, err := a.store.RespondInquiry(in.InquiryID, in.Message, responderID)
	if err != nil {
		return domain.InquiryView{}, fmt.Errorf("record response: %w", err)
	}
	if !updated {
		return domain.InquiryView{}, ErrInquiryNotFound
	}
	view, ok, err = a.store.GetInquiry(in.InquiryID)
	if err != nil {
		return domain.InquiryView{}, fmt.Errorf("reload inquiry: %w", err)
	}
	if !ok {
		return domain.InquiryView{}, ErrInquiryNotFound
	}
	a.publish(ctx, notify.Event{
		Type:      notify.EventInquiryResponded,
		InquiryID: view.ID,
		VehicleID: view.VehicleID,
		AccountID: view.AccountID,
		Status:    string(view.Status),
	})
	return view, nil
}

// UpdateInquiryStatus sets an inquiry's status from a raw string. Unknown
// statuses fail closed before any storage write.
func (a *App) UpdateInquiryStatus(id, rawStatus string) (domain.InquiryView, error) {
	status, err := domain.ParseInquiryStatus(rawStatus)
	if err != nil {
		return domain.InquiryView{}, fmt.Errorf("%w: %q", ErrInvalidStatus, rawStatus)
	}
	updated, err := a.store.UpdateInquiryStatus(id, status)
	if err != nil {
		return domain.InquiryView{}, fmt.Errorf("update status: %w", err)
	}
	if !updated {
		return domain.InquiryView{}, ErrInquiryNotFound
	}
	view, ok, err := a.store.GetInquiry(id)
	if err != nil {
		return domain.InquiryView{}, fmt.Errorf("reload inquiry: %w", err)
	}
	if !ok {
		return domain.InquiryView{}, ErrInquiryNotFound
	}
	return view, nil
}

// DeleteInquiry removes an inquiry.
func (a *App) DeleteInquiry(id string) error {
	deleted, err := a.store.DeleteInquiry(id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if !deleted {
		return ErrInquiryNotFound
	}
	return nil
}

// PendingInquiryCount returns the number of Pending inquiries, used for the
// back-office badge.
func (a *App) PendingInquiryCount() (int, error) {
	count, err := a.store.CountPendingInquiries()
	if err != nil {
		return 0, fmt.Errorf("count pending inquiries: %w", err)
	}
	return count, nil
}

// publish sends a notification event. Delivery failures are logged and do
// not fail the originating request.
func (a *App) publish(ctx context.Context, evt notify.Event) {
	evt.OccurredAt = time.Now().UTC()
	if err := a.notifier.Publish(ctx, evt); err != nil {
		slog.Warn("notification publish failed", "event", evt.Type, "inquiry_id", evt.InquiryID, "error", err)
	}
}
