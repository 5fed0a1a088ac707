package store

import (
	"context"
	"errors"
	"fmt"

	"pastoral-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultAuditLimit = 100
	MaxAuditLimit     = 500
)

// GormStore implements Store on top of a *gorm.DB handle, which may be a
// transaction.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository       { return userRepo{db: s.db} }
func (s *GormStore) Members() MemberRepository   { return memberRepo{db: s.db} }
func (s *GormStore) Contacts() ContactRepository { return contactRepo{db: s.db} }
func (s *GormStore) Audit() AuditRepository      { return auditRepo{db: s.db} }
func (s *GormStore) Messages() MessageRepository { return messageRepo{db: s.db} }

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps driver errors onto the store sentinels.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: referenced record missing: %w", what, ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// ---------------------------------------------------------------- users

type userRepo struct{ db *gorm.DB }

func (r userRepo) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, "creating user")
}

func (r userRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "getting user")
	}
	return &u, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "getting user by email")
	}
	return &u, nil
}

func (r userRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translate(err, "checking user")
	}
	return count > 0, nil
}

func (r userRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&users).Error; err != nil {
		return nil, translate(err, "listing users")
	}
	return users, nil
}

// ---------------------------------------------------------------- members

type memberRepo struct{ db *gorm.DB }

func (r memberRepo) Create(ctx context.Context, m *models.Member) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
	return translate(err, "creating member")
}

func (r memberRepo) Replace(ctx context.Context, m *models.Member) error {
	res := r.db.WithContext(ctx).
		Model(&models.Member{ID: m.ID}).
		Select(
			"name", "dob", "gender", "marital_status", "phone", "whatsapp", "email",
			"address", "neighborhood", "city", "first_visit_date", "invited_by",
			"previous_church", "is_baptized", "wants_baptism", "in_group",
			"interest_ministry", "pastoral_notes", "status", "assigned_to", "updated_at",
		).
		Updates(m)
	if res.Error != nil {
		return translate(res.Error, "updating member")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("updating member %d: %w", m.ID, ErrNotFound)
	}
	return nil
}

func (r memberRepo) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	var m models.Member
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "getting member")
	}
	return &m, nil
}

func (r memberRepo) GetView(ctx context.Context, id uint) (*models.MemberView, error) {
	var m models.Member
	if err := r.db.WithContext(ctx).Preload("Assignee").First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "getting member")
	}
	v := models.NewMemberView(m)
	return &v, nil
}

// ListViews returns members newest first; equal timestamps fall back to id.
func (r memberRepo) ListViews(ctx context.Context) ([]models.MemberView, error) {
	var members []models.Member
	err := r.db.WithContext(ctx).
		Preload("Assignee").
		Order("created_at DESC").Order("id DESC").
		Find(&members).Error
	if err != nil {
		return nil, translate(err, "listing members")
	}
	views := make([]models.MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, models.NewMemberView(m))
	}
	return views, nil
}

func (r memberRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Member{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translate(err, "checking member")
	}
	return count > 0, nil
}

func (r memberRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Member{}).Count(&count).Error; err != nil {
		return 0, translate(err, "counting members")
	}
	return count, nil
}

func (r memberRepo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	rows := []StatusCount{}
	err := r.db.WithContext(ctx).Model(&models.Member{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "counting members by status")
	}
	return rows, nil
}

func (r memberRepo) CountByNeighborhood(ctx context.Context) ([]NeighborhoodCount, error) {
	rows := []NeighborhoodCount{}
	err := r.db.WithContext(ctx).Model(&models.Member{}).
		Select("neighborhood, COUNT(*) AS count").
		Group("neighborhood").
		Order("count DESC").Order("neighborhood").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "counting members by neighborhood")
	}
	return rows, nil
}

// ---------------------------------------------------------------- contacts

type contactRepo struct{ db *gorm.DB }

func (r contactRepo) Append(ctx context.Context, c *models.Contact) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
	return translate(err, "appending contact")
}

func (r contactRepo) ListForMember(ctx context.Context, memberID uint) ([]models.ContactView, error) {
	var contacts []models.Contact
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("member_id = ?", memberID).
		Order("created_at DESC").Order("id DESC").
		Find(&contacts).Error
	if err != nil {
		return nil, translate(err, "listing contacts")
	}
	views := make([]models.ContactView, 0, len(contacts))
	for _, c := range contacts {
		views = append(views, models.NewContactView(c))
	}
	return views, nil
}

// ---------------------------------------------------------------- audit

type auditRepo struct{ db *gorm.DB }

func (r auditRepo) Append(ctx context.Context, l *models.AuditLog) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
	return translate(err, "appending audit log")
}

func (r auditRepo) List(ctx context.Context, f AuditFilter) ([]models.AuditLogView, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditLog{}).Preload("User")
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.TargetTable != "" {
		q = q.Where("target_table = ?", f.TargetTable)
	}
	if f.TargetID != 0 {
		q = q.Where("target_id = ?", f.TargetID)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	if limit > MaxAuditLimit {
		limit = MaxAuditLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var logs []models.AuditLog
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, translate(err, "listing audit logs")
	}
	views := make([]models.AuditLogView, 0, len(logs))
	for _, l := range logs {
		views = append(views, models.NewAuditLogView(l))
	}
	return views, nil
}

// ---------------------------------------------------------------- messages

type messageRepo struct{ db *gorm.DB }

func (r messageRepo) Create(ctx context.Context, m *models.Message) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
	return translate(err, "creating message")
}

func (r messageRepo) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var m models.Message
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "getting message")
	}
	return &m, nil
}

func (r messageRepo) MarkRead(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ?", id).
		Update("is_read", models.Flag(true))
	if res.Error != nil {
		return translate(res.Error, "marking message read")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("marking message %d read: %w", id, ErrNotFound)
	}
	return nil
}

// ListFor returns messages sent by or addressed to userID, newest first.
func (r messageRepo) ListFor(ctx context.Context, userID uint) ([]models.MessageView, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").Order("id DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, translate(err, "listing messages")
	}
	views := make([]models.MessageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, models.NewMessageView(m))
	}
	return views, nil
}
