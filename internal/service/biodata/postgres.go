package biodata

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/janisto/biodata-discovery/internal/platform/database"
)

type addressColumns struct {
	Country  string
	Division string
	District string
	Upazila  string
	Area     string
}

type biodataRow struct {
	ID                     int64 `gorm:"primaryKey"`
	OwnerID                string
	ApprovalStatus         string
	VisibilityStatus       string
	Gender                 string
	MaritalStatus          string
	FullName               string
	BirthDate              *time.Time     `gorm:"type:date"`
	Permanent              addressColumns `gorm:"embedded;embeddedPrefix:permanent_"`
	Present                addressColumns `gorm:"embedded;embeddedPrefix:present_"`
	PresentSameAsPermanent bool
	ViewCount              int64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (biodataRow) TableName() string { return "biodatas" }

type viewRow struct {
	ID        int64 `gorm:"primaryKey"`
	BiodataID int64
	ViewerID  *string
	IPAddress *string
	UserAgent *string
	ViewedAt  time.Time
}

func (viewRow) TableName() string { return "biodata_views" }

func rowFromBiodata(b *Biodata) biodataRow {
	return biodataRow{
		ID:                     b.ID,
		OwnerID:                b.OwnerID,
		ApprovalStatus:         string(b.ApprovalStatus),
		VisibilityStatus:       string(b.VisibilityStatus),
		Gender:                 b.Gender,
		MaritalStatus:          b.MaritalStatus,
		FullName:               b.FullName,
		BirthDate:              b.BirthDate,
		Permanent:              addressColumns(b.PermanentAddress),
		Present:                addressColumns(b.PresentAddress),
		PresentSameAsPermanent: b.PresentSameAsPermanent,
		ViewCount:              b.ViewCount,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}

func (r *biodataRow) toBiodata() *Biodata {
	return &Biodata{
		ID:                     r.ID,
		OwnerID:                r.OwnerID,
		ApprovalStatus:         ApprovalStatus(r.ApprovalStatus),
		VisibilityStatus:       VisibilityStatus(r.VisibilityStatus),
		Gender:                 r.Gender,
		MaritalStatus:          r.MaritalStatus,
		FullName:               r.FullName,
		BirthDate:              r.BirthDate,
		PermanentAddress:       Address(r.Permanent),
		PresentAddress:         Address(r.Present),
		PresentSameAsPermanent: r.PresentSameAsPermanent,
		ViewCount:              r.ViewCount,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// PostgresStore implements Store with GORM. The schema is owned by the migrations package.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore creates a GORM-backed store.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the biodata. A second biodata for the same owner violates
// the owner_id unique constraint and yields ErrAlreadyExists.
func (s *PostgresStore) Create(ctx context.Context, b *Biodata) (*Biodata, error) {
	row := rowFromBiodata(b)
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return row.toBiodata(), nil
}

// Update writes owner-editable columns.
func (s *PostgresStore) Update(ctx context.Context, b *Biodata) (*Biodata, error) {
	row := rowFromBiodata(b)
	return s.updateColumns(ctx, b.ID, map[string]any{
		"gender":                    row.Gender,
		"marital_status":            row.MaritalStatus,
		"full_name":                 row.FullName,
		"birth_date":                row.BirthDate,
		"permanent_country":         row.Permanent.Country,
		"permanent_division":        row.Permanent.Division,
		"permanent_district":        row.Permanent.District,
		"permanent_upazila":         row.Permanent.Upazila,
		"permanent_area":            row.Permanent.Area,
		"present_country":           row.Present.Country,
		"present_division":          row.Present.Division,
		"present_district":          row.Present.District,
		"present_upazila":           row.Present.Upazila,
		"present_area":              row.Present.Area,
		"present_same_as_permanent": row.PresentSameAsPermanent,
		"updated_at":                row.UpdatedAt,
	})
}

// SetApprovalStatus sets the moderation axis.
func (s *PostgresStore) SetApprovalStatus(ctx context.Context, id int64, st ApprovalStatus) (*Biodata, error) {
	return s.updateColumns(ctx, id, map[string]any{
		"approval_status": string(st),
		"updated_at":      time.Now().UTC(),
	})
}

// SetVisibilityStatus sets the owner visibility axis.
func (s *PostgresStore) SetVisibilityStatus(ctx context.Context, id int64, st VisibilityStatus) (*Biodata, error) {
	return s.updateColumns(ctx, id, map[string]any{
		"visibility_status": string(st),
		"updated_at":        time.Now().UTC(),
	})
}

func (s *PostgresStore) updateColumns(ctx context.Context, id int64, cols map[string]any) (*Biodata, error) {
	res := s.db.WithContext(ctx).Model(&biodataRow{}).Where("id = ?", id).UpdateColumns(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Get retrieves a biodata by ID.
func (s *PostgresStore) Get(ctx context.Context, id int64) (*Biodata, error) {
	var row biodataRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toBiodata(), nil
}

// GetByOwner retrieves the owner's biodata.
func (s *PostgresStore) GetByOwner(ctx context.Context, ownerID string) (*Biodata, error) {
	var row biodataRow
	if err := s.db.WithContext(ctx).First(&row, "owner_id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toBiodata(), nil
}

// Delete removes the biodata; views and favorites cascade through foreign keys.
func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&biodataRow{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCandidates translates the query into parameterized SQL, newest first.
func (s *PostgresStore) ListCandidates(ctx context.Context, q CandidateQuery) ([]*Biodata, error) {
	tx := s.db.WithContext(ctx).Model(&biodataRow{})
	if q.ID != nil {
		tx = tx.Where("id = ?", *q.ID)
	}
	if q.Gender != "" {
		tx = tx.Where("gender = ?", q.Gender)
	}
	if q.MaritalStatus != "" {
		tx = tx.Where("marital_status = ?", q.MaritalStatus)
	}
	earliest, latest := q.BirthBounds()
	if latest != nil {
		tx = tx.Where("birth_date <= ?", *latest)
	}
	if earliest != nil {
		tx = tx.Where("birth_date > ?", *earliest)
	}
	return s.find(tx)
}

// ListByApproval lists biodatas newest first.
func (s *PostgresStore) ListByApproval(ctx context.Context, st ApprovalStatus) ([]*Biodata, error) {
	tx := s.db.WithContext(ctx).Model(&biodataRow{})
	if st != "" {
		tx = tx.Where("approval_status = ?", string(st))
	}
	return s.find(tx)
}

func (s *PostgresStore) find(tx *gorm.DB) ([]*Biodata, error) {
	var rows []biodataRow
	if err := tx.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*Biodata, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toBiodata())
	}
	return out, nil
}

// HasRecentView checks the view history within the window.
func (s *PostgresStore) HasRecentView(ctx context.Context, key ViewKey, since time.Time) (bool, error) {
	tx := s.db.WithContext(ctx).Model(&viewRow{}).
		Where("biodata_id = ? AND viewed_at >= ?", key.BiodataID, since.UTC())
	if key.Anonymous() {
		tx = tx.Where("ip_address = ? AND viewer_id IS NULL", key.IPAddress)
	} else {
		tx = tx.Where("viewer_id = ?", key.ViewerID)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddView increments view_count in SQL and inserts the view in one transaction.
func (s *PostgresStore) AddView(ctx context.Context, v *View) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&biodataRow{}).Where("id = ?", v.BiodataID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		row := viewRow{
			BiodataID: v.BiodataID,
			ViewerID:  nullable(v.ViewerID),
			IPAddress: nullable(v.IPAddress),
			UserAgent: nullable(v.UserAgent),
			ViewedAt:  v.ViewedAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		v.ID = row.ID
		return nil
	})
}

// CountViews counts views at or after since.
func (s *PostgresStore) CountViews(ctx context.Context, biodataID int64, since time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&viewRow{}).
		Where("biodata_id = ? AND viewed_at >= ?", biodataID, since.UTC()).
		Count(&n).Error
	return n, err
}

// Compile-time interface check
var _ Store = (*PostgresStore)(nil)
