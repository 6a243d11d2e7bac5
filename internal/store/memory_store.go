package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"dealerhub/internal/util"
	"dealerhub/pkg/domain"
)

// MemoryStore keeps all records in-process. It backs tests and local
// development without Postgres.
type MemoryStore struct {
	mu              sync.RWMutex
	accounts        map[string]domain.Account
	emails          map[string]string // email -> account ID
	classifications map[string]domain.Classification
	vehicles        map[string]domain.Vehicle
	inquiries       map[string]domain.Inquiry
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:        make(map[string]domain.Account),
		emails:          make(map[string]string),
		classifications: make(map[string]domain.Classification),
		vehicles:        make(map[string]domain.Vehicle),
		inquiries:       make(map[string]domain.Inquiry),
	}
}

// CreateAccount registers an account.
func (m *MemoryStore) CreateAccount(a domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.emails[a.Email]; exists {
		return fmt.Errorf("email %s already registered", a.Email)
	}
	m.accounts[a.ID] = a
	m.emails[a.Email] = a.ID
	return nil
}

// HasAccountEmail checks if the email is registered.
func (m *MemoryStore) HasAccountEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.emails[email]
	return ok, nil
}

// GetAccountByEmail looks up an account by email.
func (m *MemoryStore) GetAccountByEmail(email string) (domain.Account, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.emails[email]
	if !ok {
		return domain.Account{}, false, nil
	}
	a, ok := m.accounts[id]
	return a, ok, nil
}

// GetAccountByID returns an account by ID.
func (m *MemoryStore) GetAccountByID(id string) (domain.Account, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	return a, ok, nil
}

// UpdateAccountRole changes an account's role.
func (m *MemoryStore) UpdateAccountRole(id string, role domain.AccountRole) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return false, nil
	}
	a.Role = role
	m.accounts[id] = a
	return true, nil
}

// CreateClassification stores a classification.
func (m *MemoryStore) CreateClassification(c domain.Classification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.classifications {
		if existing.Name == c.Name {
			return fmt.Errorf("classification %s already exists", c.Name)
		}
	}
	m.classifications[c.ID] = c
	return nil
}

// ListClassifications returns classifications ordered by name.
func (m *MemoryStore) ListClassifications() ([]domain.Classification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Classification, 0, len(m.classifications))
	for _, c := range m.classifications {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

// GetClassification retrieves a classification.
func (m *MemoryStore) GetClassification(id string) (domain.Classification, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.classifications[id]
	return c, ok, nil
}

// SaveVehicle stores or replaces a vehicle listing.
func (m *MemoryStore) SaveVehicle(v domain.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vehicles[v.ID] = v
	return nil
}

// ListVehiclesByClassification returns vehicles filtered by classification.
func (m *MemoryStore) ListVehiclesByClassification(classificationID string) ([]domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Vehicle, 0)
	for _, v := range m.vehicles {
		if v.ClassificationID == classificationID {
			res = append(res, v)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Make != res[j].Make {
			return res[i].Make < res[j].Make
		}
		return res[i].Model < res[j].Model
	})
	return res, nil
}

// GetVehicle retrieves a vehicle by ID.
func (m *MemoryStore) GetVehicle(id string) (domain.Vehicle, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[id]
	return v, ok, nil
}

// SetVehiclePhotoKey records the photo object key.
func (m *MemoryStore) SetVehiclePhotoKey(id, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return false, nil
	}
	v.PhotoKey = key
	v.UpdatedAt = time.Now().UTC()
	m.vehicles[id] = v
	return true, nil
}

// DeleteVehicle removes a vehicle and its inquiries.
func (m *MemoryStore) DeleteVehicle(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[id]; !ok {
		return false, nil
	}
	delete(m.vehicles, id)
	for inquiryID, i := range m.inquiries {
		if i.VehicleID == id {
			delete(m.inquiries, inquiryID)
		}
	}
	return true, nil
}

// CreateInquiry stores an inquiry, forcing status to Pending and stamping
// the creation time.
func (m *MemoryStore) CreateInquiry(i domain.Inquiry) (domain.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i.Status = domain.StatusPending
	i.CreatedAt = time.Now().UTC()
	i.ResponseMessage = ""
	i.RespondedAt = nil
	i.RespondedBy = ""
	m.inquiries[i.ID] = i
	return i, nil
}

// ListInquiries returns all inquiries ordered by status priority, then
// creation time descending.
func (m *MemoryStore) ListInquiries() ([]domain.InquiryView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.InquiryView, 0, len(m.inquiries))
	for _, i := range m.inquiries {
		res = append(res, m.viewLocked(i))
	}
	sort.SliceStable(res, func(a, b int) bool {
		pa, pb := res[a].Status.Priority(), res[b].Status.Priority()
		if pa != pb {
			return pa < pb
		}
		return res[a].CreatedAt.After(res[b].CreatedAt)
	})
	return res, nil
}

// ListInquiriesByAccount returns one submitter's inquiries, newest first.
func (m *MemoryStore) ListInquiriesByAccount(accountID string) ([]domain.InquiryView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.InquiryView, 0)
	for _, i := range m.inquiries {
		if i.AccountID == accountID {
			res = append(res, m.viewLocked(i))
		}
	}
	sort.SliceStable(res, func(a, b int) bool {
		return res[a].CreatedAt.After(res[b].CreatedAt)
	})
	return res, nil
}

// GetInquiry retrieves an inquiry with joined fields.
func (m *MemoryStore) GetInquiry(id string) (domain.InquiryView, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.inquiries[id]
	if !ok {
		return domain.InquiryView{}, false, nil
	}
	return m.viewLocked(i), true, nil
}

// RespondInquiry records response fields and forces status to Resolved.
func (m *MemoryStore) RespondInquiry(id, responseMessage, respondedBy string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.inquiries[id]
	if !ok {
		return false, nil
	}
	now := time.Now().UTC()
	i.ResponseMessage = responseMessage
	i.RespondedAt = &now
	i.RespondedBy = respondedBy
	i.Status = domain.StatusResolved
	m.inquiries[id] = i
	return true, nil
}

// UpdateInquiryStatus writes a canonical status value.
func (m *MemoryStore) UpdateInquiryStatus(id string, status domain.InquiryStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.inquiries[id]
	if !ok {
		return false, nil
	}
	i.Status = status
	m.inquiries[id] = i
	return true, nil
}

// CountPendingInquiries returns the number of Pending inquiries.
func (m *MemoryStore) CountPendingInquiries() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, i := range m.inquiries {
		if i.Status == domain.StatusPending {
			count++
		}
	}
	return count, nil
}

// DeleteInquiry removes an inquiry.
func (m *MemoryStore) DeleteInquiry(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.inquiries[id]; !ok {
		return false, nil
	}
	delete(m.inquiries, id)
	return true, nil
}

func (m *MemoryStore) viewLocked(i domain.Inquiry) domain.InquiryView {
	view := domain.InquiryView{Inquiry: i}
	if a, ok := m.accounts[i.AccountID]; ok {
		view.SubmitterName = joinName(a.FirstName, a.LastName)
		view.SubmitterEmail = a.Email
	}
	if i.RespondedBy != "" {
		if r, ok := m.accounts[i.RespondedBy]; ok {
			view.ResponderName = joinName(r.FirstName, r.LastName)
		}
	}
	if v, ok := m.vehicles[i.VehicleID]; ok {
		view.VehicleMake = v.Make
		view.VehicleModel = v.Model
		view.VehicleYear = v.Year
	}
	return view
}

// MemorySessionStore keeps session tokens in-process.
type MemorySessionStore struct {
	mu   sync.RWMutex
	sess map[string]string // token -> account ID
}

// NewMemorySessionStore initializes an empty session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sess: make(map[string]string)}
}

// NewSession issues a token for the account.
func (m *MemorySessionStore) NewSession(accountID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := util.NewID()
	m.sess[token] = accountID
	return token, nil
}

// GetAccountIDByToken resolves a token to an account ID.
func (m *MemorySessionStore) GetAccountIDByToken(token string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.sess[token]
	return id, ok, nil
}

// DeleteSession revokes a token.
func (m *MemorySessionStore) DeleteSession(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sess, token)
	return nil
}
