package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"dealerhub/internal/validate"
	"dealerhub/pkg/domain"
)

// GET /inquiry/vehicle/{id} returns the vehicle an inquiry form targets.
func (s *Server) handleInquiryForm(w http.ResponseWriter, r *http.Request, _ domain.Account) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/inquiry/vehicle/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	vehicle, err := s.app.InquiryFormVehicle(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle": vehicle})
}

// POST /inquiry/submit
func (s *Server) handleInquirySubmit(w http.ResponseWriter, r *http.Request, account domain.Account) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, s.submitLimiter, "too many inquiries, please slow down") {
		s.audit(r, "inquiry.submit", "rate_limited", "account_id", account.ID)
		return
	}
	var req inquiryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in, fieldErrs := validate.Inquiry(validate.InquiryInput{
		VehicleID: req.VehicleID,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if fieldErrs.Any() {
		writeFieldErrors(w, fieldErrs, inquiryRequest{
			VehicleID: in.VehicleID,
			Subject:   in.Subject,
			Message:   in.Message,
		})
		return
	}
	inquiry, err := s.app.SubmitInquiry(r.Context(), account.ID, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "inquiry.submit", "success", "account_id", account.ID, "inquiry_id", inquiry.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"inquiry": inquiry,
		"notice":  "Your inquiry has been submitted successfully. We will respond shortly.",
	})
}

// GET /inquiry/my-inquiries
func (s *Server) handleMyInquiries(w http.ResponseWriter, r *http.Request, account domain.Account) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	items, err := s.app.MyInquiries(account.ID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// GET /inquiry/detail/{id}
func (s *Server) handleInquiryDetail(w http.ResponseWriter, r *http.Request, account domain.Account) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/inquiry/detail/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	view, err := s.app.InquiryDetail(id, account)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inquiry": view})
}

// GET /inquiry/inbox
func (s *Server) handleInquiryInbox(w http.ResponseWriter, r *http.Request, _ domain.Account) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	inbox, err := s.app.InquiryInbox()
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inbox)
}

// GET /inquiry/respond/{id} loads the inquiry for the response form.
func (s *Server) handleInquiryResponseForm(w http.ResponseWriter, r *http.Request, _ domain.Account) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/inquiry/respond/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	view, canRespond, err := s.app.InquiryForResponse(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"inquiry":    view,
		"canRespond": canRespond,
	})
}

// POST /inquiry/respond
func (s *Server) handleInquiryRespond(w http.ResponseWriter, r *http.Request, account domain.Account) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req responseRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in, fieldErrs := validate.Response(validate.ResponseInput{
		InquiryID: req.InquiryID,
		Message:   req.Message,
	})
	if fieldErrs.Any() {
		writeFieldErrors(w, fieldErrs, responseRequest{
			InquiryID: in.InquiryID,
			Message:   in.Message,
		})
		return
	}
	view, err := s.app.Respond(r.Context(), account.ID, in)
	if err != nil {
		s.audit(r, "inquiry.respond", "fail", "account_id", account.ID, "inquiry_id", in.InquiryID, "reason", err.Error())
		writeAppError(w, err)
		return
	}
	s.audit(r, "inquiry.respond", "success", "account_id", account.ID, "inquiry_id", view.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"inquiry": view,
		"notice":  "Response sent successfully.",
	})
}

// POST /inquiry/update-status
func (s *Server) handleInquiryUpdateStatus(w http.ResponseWriter, r *http.Request, account domain.Account) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req statusUpdateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.InquiryID) == "" {
		writeError(w, http.StatusBadRequest, "inquiryId is required")
		return
	}
	view, err := s.app.UpdateInquiryStatus(req.InquiryID, req.Status)
	if err != nil {
		s.audit(r, "inquiry.status.update", "fail", "account_id", account.ID, "inquiry_id", req.InquiryID, "reason", err.Error())
		writeAppError(w, err)
		return
	}
	s.audit(r, "inquiry.status.update", "success", "account_id", account.ID, "inquiry_id", view.ID, "status", string(view.Status))
	writeJSON(w, http.StatusOK, map[string]any{
		"inquiry": view,
		"notice":  "Inquiry status updated to " + string(view.Status) + ".",
	})
}

// POST /inquiry/delete
func (s *Server) handleInquiryDelete(w http.ResponseWriter, r *http.Request, account domain.Account) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req deleteInquiryRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.InquiryID) == "" {
		writeError(w, http.StatusBadRequest, "inquiryId is required")
		return
	}
	if err := s.app.DeleteInquiry(req.InquiryID); err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "inquiry.delete", "success", "account_id", account.ID, "inquiry_id", req.InquiryID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type inquiryRequest struct {
	VehicleID string `json:"vehicleId"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

type responseRequest struct {
	InquiryID string `json:"inquiryId"`
	Message   string `json:"message"`
}

type statusUpdateRequest struct {
	InquiryID string `json:"inquiryId"`
	Status    string `json:"status"`
}

type deleteInquiryRequest struct {
	InquiryID string `json:"inquiryId"`
}
