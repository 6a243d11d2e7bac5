package domain

import "time"

type AccountRole string

const (
	RoleClient   AccountRole = "client"
	RoleEmployee AccountRole = "employee"
	RoleAdmin    AccountRole = "admin"
)

// CanManage reports whether the role may use employee-only surfaces.
func (r AccountRole) CanManage() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// ParseAccountRole maps a raw string onto a known role.
func ParseAccountRole(raw string) (AccountRole, bool) {
	switch AccountRole(raw) {
	case RoleClient, RoleEmployee, RoleAdmin:
		return AccountRole(raw), true
	default:
		return "", false
	}
}

type Account struct {
	ID           string      `json:"id"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         AccountRole `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
}

type Classification struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Vehicle struct {
	ID               string            `json:"id"`
	ClassificationID string            `json:"classificationId"`
	Make             string            `json:"make"`
	Model            string            `json:"model"`
	Year             int               `json:"year"`
	Description      string            `json:"description"`
	PhotoKey         string            `json:"-"`
	Price            float64           `json:"price"`
	Miles            int64             `json:"miles"`
	Color            string            `json:"color"`
	Features         map[string]string `json:"features,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

type Inquiry struct {
	ID              string        `json:"id"`
	VehicleID       string        `json:"vehicleId"`
	AccountID       string        `json:"accountId"`
	Subject         string        `json:"subject"`
	Message         string        `json:"message"`
	Status          InquiryStatus `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	ResponseMessage string        `json:"responseMessage,omitempty"`
	RespondedAt     *time.Time    `json:"respondedAt,omitempty"`
	RespondedBy     string        `json:"respondedBy,omitempty"`
}

// InquiryView is an inquiry joined with submitter, responder, and vehicle
// fields for list and detail surfaces.
type InquiryView struct {
	Inquiry
	SubmitterName  string `json:"submitterName,omitempty"`
	SubmitterEmail string `json:"submitterEmail,omitempty"`
	ResponderName  string `json:"responderName,omitempty"`
	VehicleMake    string `json:"vehicleMake,omitempty"`
	VehicleModel   string `json:"vehicleModel,omitempty"`
	VehicleYear    int    `json:"vehicleYear,omitempty"`
}
