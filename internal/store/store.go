package store

import "dealerhub/pkg/domain"

// Store defines persistence operations for accounts, inventory, and
// inquiries. Lookups return a found flag alongside the error so callers can
// tell "no matching record" apart from a storage failure.
type Store interface {
	// accounts
	CreateAccount(domain.Account) error
	HasAccountEmail(email string) (bool, error)
	GetAccountByEmail(email string) (domain.Account, bool, error)
	GetAccountByID(id string) (domain.Account, bool, error)
	UpdateAccountRole(id string, role domain.AccountRole) (bool, error)

	// classifications
	CreateClassification(domain.Classification) error
	ListClassifications() ([]domain.Classification, error)
	GetClassification(id string) (domain.Classification, bool, error)

	// vehicles
	SaveVehicle(domain.Vehicle) error
	ListVehiclesByClassification(classificationID string) ([]domain.Vehicle, error)
	GetVehicle(id string) (domain.Vehicle, bool, error)
	SetVehiclePhotoKey(id, key string) (bool, error)
	DeleteVehicle(id string) (bool, error)

	// inquiries
	CreateInquiry(domain.Inquiry) (domain.Inquiry, error)
	ListInquiries() ([]domain.InquiryView, error)
	ListInquiriesByAccount(accountID string) ([]domain.InquiryView, error)
	GetInquiry(id string) (domain.InquiryView, bool, error)
	RespondInquiry(id, responseMessage, respondedBy string) (bool, error)
	UpdateInquiryStatus(id string, status domain.InquiryStatus) (bool, error)
	CountPendingInquiries() (int, error)
	DeleteInquiry(id string) (bool, error)
}

// SessionStore persists session tokens.
type SessionStore interface {
	NewSession(accountID string) (string, error)
	GetAccountIDByToken(token string) (string, bool, error)
	DeleteSession(token string) error
}
