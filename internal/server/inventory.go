package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"dealerhub/internal/validate"
	"dealerhub/pkg/domain"
)

// /inventory/classifications
func (s *Server) handleClassifications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.app.ListClassifications()
		if err != nil {
			writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": items,
			"count": len(items),
		})
	case http.MethodPost:
		s.employeeOnly(s.handleAddClassification).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleAddClassification(w http.ResponseWriter, r *http.Request, account domain.Account) {
	var req classificationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name, fieldErrs := validate.ClassificationName(req.Name)
	if fieldErrs.Any() {
		writeFieldErrors(w, fieldErrs, classificationRequest{Name: name})
		return
	}
	created, err := s.app.AddClassification(name)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "inventory.classification.add", "success", "account_id", account.ID, "classification_id", created.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"classification": created,
		"notice":         "The " + created.Name + " classification was successfully added.",
	})
}

// GET /inventory/type/{classificationId}
func (s *Server) handleClassificationVehicles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/inventory/type/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	items, err := s.app.VehiclesByClassification(id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// GET /inventory/detail/{invId}
func (s *Server) handleVehicleDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/inventory/detail/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	vehicle, photoURL, err := s.app.VehicleDetail(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicleResponse{Vehicle: vehicle, PhotoURL: photoURL})
}

// POST /inventory
func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.employeeOnly(s.handleAddVehicle).ServeHTTP(w, r)
}

func (s *Server) handleAddVehicle(w http.ResponseWriter, r *http.Request, account domain.Account) {
	in, ok := s.decodeVehicle(w, r)
	if !ok {
		return
	}
	created, err := s.app.AddVehicle(in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "inventory.vehicle.add", "success", "account_id", account.ID, "vehicle_id", created.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"vehicle": created,
		"notice":  "The " + created.Make + " " + created.Model + " was successfully added.",
	})
}

// PUT/DELETE /inventory/{invId}, POST /inventory/{invId}/photo
func (s *Server) handleVehicleByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/inventory/")
	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 2 && parts[1] == "photo" {
		s.employeeOnly(func(w http.ResponseWriter, r *http.Request, account domain.Account) {
			s.handleUploadVehiclePhoto(w, r, account, id)
		}).ServeHTTP(w, r)
		return
	}
	if len(parts) == 2 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.employeeOnly(func(w http.ResponseWriter, r *http.Request, account domain.Account) {
			s.handleUpdateVehicle(w, r, account, id)
		}).ServeHTTP(w, r)
	case http.MethodDelete:
		s.employeeOnly(func(w http.ResponseWriter, r *http.Request, account domain.Account) {
			s.handleDeleteVehicle(w, r, account, id)
		}).ServeHTTP(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request, account domain.Account, id string) {
	in, ok := s.decodeVehicle(w, r)
	if !ok {
		return
	}
	updated, err := s.app.UpdateVehicle(id, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "inventory.vehicle.update", "success", "account_id", account.ID, "vehicle_id", updated.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"vehicle": updated,
		"notice":  "The " + updated.Make + " " + updated.Model + " was successfully updated.",
	})
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request, account domain.Account, id string) {
	if err := s.app.DeleteVehicle(id); err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "inventory.vehicle.delete", "success", "account_id", account.ID, "vehicle_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleUploadVehiclePhoto(w http.ResponseWriter, r *http.Request, account domain.Account, id string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo is required (field: photo)")
		return
	}
	defer file.Close()
	contentType := header.Header.Get("Content-Type")
	key, err := s.app.AttachVehiclePhoto(r.Context(), id, header.Filename, file, header.Size, contentType)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "inventory.vehicle.photo", "success", "account_id", account.ID, "vehicle_id", id)
	writeJSON(w, http.StatusCreated, map[string]string{"photoKey": key})
}

func (s *Server) decodeVehicle(w http.ResponseWriter, r *http.Request) (validate.VehicleInput, bool) {
	var req vehicleRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return validate.VehicleInput{}, false
	}
	in, fieldErrs := validate.Vehicle(validate.VehicleInput{
		ClassificationID: req.ClassificationID,
		Make:             req.Make,
		Model:            req.Model,
		Year:             req.Year,
		Description:      req.Description,
		Price:            req.Price,
		Miles:            req.Miles,
		Color:            req.Color,
		Features:         req.Features,
	})
	if fieldErrs.Any() {
		writeFieldErrors(w, fieldErrs, req)
		return validate.VehicleInput{}, false
	}
	return in, true
}

type classificationRequest struct {
	Name string `json:"name"`
}

type vehicleRequest struct {
	ClassificationID string            `json:"classificationId"`
	Make             string            `json:"make"`
	Model            string            `json:"model"`
	Year             int               `json:"year"`
	Description      string            `json:"description"`
	Price            float64           `json:"price"`
	Miles            int64             `json:"miles"`
	Color            string            `json:"color"`
	Features         map[string]string `json:"features,omitempty"`
}

type vehicleResponse struct {
	Vehicle  domain.Vehicle `json:"vehicle"`
	PhotoURL string         `json:"photoUrl,omitempty"`
}
