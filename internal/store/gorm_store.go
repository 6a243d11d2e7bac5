package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dealerhub/pkg/domain"
)

// inboxOrder mirrors the inbox sort: Pending first, then In Progress,
// Resolved, Closed, newest first within each status.
const inboxOrder = "CASE inquiries.status " +
	"WHEN 'Pending' THEN 1 " +
	"WHEN 'In Progress' THEN 2 " +
	"WHEN 'Resolved' THEN 3 " +
	"WHEN 'Closed' THEN 4 " +
	"ELSE 5 END, inquiries.created_at DESC"

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&AccountModel{}, &ClassificationModel{}, &VehicleModel{}, &InquiryModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateAccount inserts a new account.
func (s *GormStore) CreateAccount(a domain.Account) error {
	model := accountToModel(a)
	return s.db.Create(&model).Error
}

// HasAccountEmail checks if the email is already registered.
func (s *GormStore) HasAccountEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&AccountModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetAccountByEmail looks up an account by email.
func (s *GormStore) GetAccountByEmail(email string) (domain.Account, bool, error) {
	var model AccountModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, false, nil
		}
		return domain.Account{}, false, err
	}
	return accountFromModel(model), true, nil
}

// GetAccountByID returns an account by ID.
func (s *GormStore) GetAccountByID(id string) (domain.Account, bool, error) {
	var model AccountModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, false, nil
		}
		return domain.Account{}, false, err
	}
	return accountFromModel(model), true, nil
}

// UpdateAccountRole changes an account's role.
func (s *GormStore) UpdateAccountRole(id string, role domain.AccountRole) (bool, error) {
	tx := s.db.Model(&AccountModel{}).Where("id = ?", id).Update("role", string(role))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// CreateClassification inserts a new classification.
func (s *GormStore) CreateClassification(c domain.Classification) error {
	model := ClassificationModel{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
	return s.db.Create(&model).Error
}

// ListClassifications returns all classifications ordered by name.
func (s *GormStore) ListClassifications() ([]domain.Classification, error) {
	var models []ClassificationModel
	if err := s.db.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Classification, 0, len(models))
	for _, m := range models {
		res = append(res, domain.Classification{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt})
	}
	return res, nil
}

// GetClassification retrieves a classification.
func (s *GormStore) GetClassification(id string) (domain.Classification, bool, error) {
	var model ClassificationModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Classification{}, false, nil
		}
		return domain.Classification{}, false, err
	}
	return domain.Classification{ID: model.ID, Name: model.Name, CreatedAt: model.CreatedAt}, true, nil
}

// SaveVehicle stores or updates a vehicle listing.
func (s *GormStore) SaveVehicle(v domain.Vehicle) error {
	model, err := vehicleToModel(v)
	if err != nil {
		return err
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"classification_id", "make", "model", "year", "description",
			"price", "miles", "color", "features", "updated_at",
		}),
	}).Create(&model).Error
}

// ListVehiclesByClassification returns vehicles in a classification.
func (s *GormStore) ListVehiclesByClassification(classificationID string) ([]domain.Vehicle, error) {
	var models []VehicleModel
	if err := s.db.Where("classification_id = ?", classificationID).
		Order("make ASC, model ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.Vehicle, 0, len(models))
	for _, m := range models {
		v, err := vehicleFromModel(m)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, nil
}

// GetVehicle retrieves a vehicle.
func (s *GormStore) GetVehicle(id string) (domain.Vehicle, bool, error) {
	var model VehicleModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Vehicle{}, false, nil
		}
		return domain.Vehicle{}, false, err
	}
	v, err := vehicleFromModel(model)
	if err != nil {
		return domain.Vehicle{}, false, err
	}
	return v, true, nil
}

// SetVehiclePhotoKey records the object-storage key of a vehicle photo.
func (s *GormStore) SetVehiclePhotoKey(id, key string) (bool, error) {
	tx := s.db.Model(&VehicleModel{}).Where("id = ?", id).Updates(map[string]any{
		"photo_key":  key,
		"updated_at": time.Now().UTC(),
	})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// DeleteVehicle removes a vehicle and its inquiries.
func (s *GormStore) DeleteVehicle(id string) (bool, error) {
	var deleted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&InquiryModel{}, "vehicle_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&VehicleModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// CreateInquiry inserts an inquiry. Status is forced to Pending and the
// creation timestamp is set here regardless of what the caller supplied.
func (s *GormStore) CreateInquiry(i domain.Inquiry) (domain.Inquiry, error) {
	i.Status = domain.StatusPending
	i.CreatedAt = time.Now().UTC()
	i.ResponseMessage = ""
	i.RespondedAt = nil
	i.RespondedBy = ""
	model := inquiryToModel(i)
	if err := s.db.Create(&model).Error; err != nil {
		return domain.Inquiry{}, err
	}
	return inquiryFromModel(model), nil
}

type inquiryViewRow struct {
	InquiryModel
	SubmitterFirstName string
	SubmitterLastName  string
	SubmitterEmail     string
	ResponderFirstName string
	ResponderLastName  string
	VehicleMake        string
	VehicleModel       string
	VehicleYear        int
}

const inquiryViewSelect = `inquiries.*,
	a.first_name AS submitter_first_name,
	a.last_name AS submitter_last_name,
	a.email AS submitter_email,
	r.first_name AS responder_first_name,
	r.last_name AS responder_last_name,
	v.make AS vehicle_make,
	v.model AS vehicle_model,
	v.year AS vehicle_year`

func (s *GormStore) inquiryViewQuery() *gorm.DB {
	return s.db.Table("inquiries").
		Select(inquiryViewSelect).
		Joins("JOIN accounts a ON a.id = inquiries.account_id").
		Joins("JOIN inventory v ON v.id = inquiries.vehicle_id").
		Joins("LEFT JOIN accounts r ON r.id = inquiries.responded_by")
}

// ListInquiries returns all inquiries joined with submitter, responder, and
// vehicle fields, ordered by status priority then creation time descending.
func (s *GormStore) ListInquiries() ([]domain.InquiryView, error) {
	var rows []inquiryViewRow
	if err := s.inquiryViewQuery().Order(inboxOrder).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return viewsFromRows(rows), nil
}

// ListInquiriesByAccount returns one submitter's inquiries, newest first.
func (s *GormStore) ListInquiriesByAccount(accountID string) ([]domain.InquiryView, error) {
	var rows []inquiryViewRow
	if err := s.inquiryViewQuery().
		Where("inquiries.account_id = ?", accountID).
		Order("inquiries.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return viewsFromRows(rows), nil
}

// GetInquiry retrieves a single inquiry with the full join.
func (s *GormStore) GetInquiry(id string) (domain.InquiryView, bool, error) {
	var rows []inquiryViewRow
	if err := s.inquiryViewQuery().
		Where("inquiries.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return domain.InquiryView{}, false, err
	}
	if len(rows) == 0 {
		return domain.InquiryView{}, false, nil
	}
	return viewFromRow(rows[0]), true, nil
}

// RespondInquiry records the response fields and moves the inquiry to
// Resolved in a single statement.
func (s *GormStore) RespondInquiry(id, responseMessage, respondedBy string) (bool, error) {
	tx := s.db.Model(&InquiryModel{}).Where("id = ?", id).Updates(map[string]any{
		"response_message": responseMessage,
		"responded_at":     time.Now().UTC(),
		"responded_by":     respondedBy,
		"status":           string(domain.StatusResolved),
	})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// UpdateInquiryStatus writes a canonical status value.
func (s *GormStore) UpdateInquiryStatus(id string, status domain.InquiryStatus) (bool, error) {
	tx := s.db.Model(&InquiryModel{}).Where("id = ?", id).Update("status", string(status))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// CountPendingInquiries returns the number of Pending inquiries.
func (s *GormStore) CountPendingInquiries() (int, error) {
	var count int64
	if err := s.db.Model(&InquiryModel{}).
		Where("status = ?", string(domain.StatusPending)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// DeleteInquiry removes an inquiry.
func (s *GormStore) DeleteInquiry(id string) (bool, error) {
	tx := s.db.Delete(&InquiryModel{}, "id = ?", id)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func accountToModel(a domain.Account) AccountModel {
	return AccountModel{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Role:         string(a.Role),
		CreatedAt:    a.CreatedAt,
	}
}

func accountFromModel(m AccountModel) domain.Account {
	return domain.Account{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.AccountRole(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

func vehicleToModel(v domain.Vehicle) (VehicleModel, error) {
	var features []byte
	if len(v.Features) > 0 {
		var err error
		features, err = json.Marshal(v.Features)
		if err != nil {
			return VehicleModel{}, fmt.Errorf("marshal features: %w", err)
		}
	}
	return VehicleModel{
		ID:               v.ID,
		ClassificationID: v.ClassificationID,
		Make:             v.Make,
		Model:            v.Model,
		Year:             v.Year,
		Description:      v.Description,
		PhotoKey:         v.PhotoKey,
		Price:            v.Price,
		Miles:            v.Miles,
		Color:            v.Color,
		Features:         features,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}, nil
}

func vehicleFromModel(m VehicleModel) (domain.Vehicle, error) {
	var features map[string]string
	if len(m.Features) > 0 {
		if err := json.Unmarshal(m.Features, &features); err != nil {
			return domain.Vehicle{}, fmt.Errorf("unmarshal features: %w", err)
		}
	}
	return domain.Vehicle{
		ID:               m.ID,
		ClassificationID: m.ClassificationID,
		Make:             m.Make,
		Model:            m.Model,
		Year:             m.Year,
		Description:      m.Description,
		PhotoKey:         m.PhotoKey,
		Price:            m.Price,
		Miles:            m.Miles,
		Color:            m.Color,
		Features:         features,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}

func inquiryToModel(i domain.Inquiry) InquiryModel {
	return InquiryModel{
		ID:              i.ID,
		VehicleID:       i.VehicleID,
		AccountID:       i.AccountID,
		Subject:         i.Subject,
		Message:         i.Message,
		Status:          string(i.Status),
		CreatedAt:       i.CreatedAt,
		ResponseMessage: i.ResponseMessage,
		RespondedAt:     i.RespondedAt,
		RespondedBy:     i.RespondedBy,
	}
}

func inquiryFromModel(m InquiryModel) domain.Inquiry {
	return domain.Inquiry{
		ID:              m.ID,
		VehicleID:       m.VehicleID,
		AccountID:       m.AccountID,
		Subject:         m.Subject,
		Message:         m.Message,
		Status:          domain.InquiryStatus(m.Status),
		CreatedAt:       m.CreatedAt,
		ResponseMessage: m.ResponseMessage,
		RespondedAt:     m.RespondedAt,
		RespondedBy:     m.RespondedBy,
	}
}

func viewFromRow(r inquiryViewRow) domain.InquiryView {
	view := domain.InquiryView{
		Inquiry:        inquiryFromModel(r.InquiryModel),
		SubmitterName:  joinName(r.SubmitterFirstName, r.SubmitterLastName),
		SubmitterEmail: r.SubmitterEmail,
		VehicleMake:    r.VehicleMake,
		VehicleModel:   r.VehicleModel,
		VehicleYear:    r.VehicleYear,
	}
	if r.InquiryModel.RespondedBy != "" {
		view.ResponderName = joinName(r.ResponderFirstName, r.ResponderLastName)
	}
	return view
}

func viewsFromRows(rows []inquiryViewRow) []domain.InquiryView {
	res := make([]domain.InquiryView, 0, len(rows))
	for _, r := range rows {
		res = append(res, viewFromRow(r))
	}
	return res
}

func joinName(first, last string) string {
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}
