package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
)

// OpinionRepository handles opinion persistence
type OpinionRepository interface {
	List(filters domain.Filters) ([]domain.Opinion, error)
	FindByID(id string) (*domain.Opinion, error)
	Create(op *domain.Opinion) error
	Update(op *domain.Opinion) error
	UpdateStatus(id string, status domain.WorkflowStatus) error
	UpdateAssignee(id, assignee string) error
	Delete(id string) error
	AppendRemark(remark *domain.Remark) error
	AttachDocuments(docs []domain.Document) error
	FindDocument(docID string) (*domain.Document, error)
	NextReferenceNumber() (string, error)
	Search(query string, limit int) ([]domain.Opinion, int64, error)
}

type opinionRepository struct {
	db *gorm.DB
}

// NewOpinionRepository creates a new OpinionRepository
func NewOpinionRepository(db *gorm.DB) OpinionRepository {
	return &opinionRepository{db: db}
}

// List retrieves opinions with remarks and documents preloaded,
// optionally narrowed by exact-match filters.
func (r *opinionRepository) List(filters domain.Filters) ([]domain.Opinion, error) {
	q := r.db.Preload("Remarks", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("Documents")

	if filters.Assignee != "" {
		q = q.Where("assignee = ?", filters.Assignee)
	}
	if filters.Department != "" {
		q = q.Where("department = ?", filters.Department)
	}

	var opinions []domain.Opinion
	if err := q.Order("created_at ASC").Find(&opinions).Error; err != nil {
		return nil, err
	}
	return opinions, nil
}

// FindByID retrieves one opinion with its remarks and documents.
// Returns (nil, nil) when the id does not exist.
func (r *opinionRepository) FindByID(id string) (*domain.Opinion, error) {
	var op domain.Opinion
	err := r.db.Preload("Remarks", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("Documents").First(&op, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &op, nil
}

// Create inserts a new opinion with its child rows
func (r *opinionRepository) Create(op *domain.Opinion) error {
	return r.db.Create(op).Error
}

// Update saves edited opinion fields. Child rows are managed through
// their own operations.
func (r *opinionRepository) Update(op *domain.Opinion) error {
	return r.db.Omit("Remarks", "Documents").Save(op).Error
}

// UpdateStatus moves an opinion to another workflow status
func (r *opinionRepository) UpdateStatus(id string, status domain.WorkflowStatus) error {
	return r.db.Model(&domain.Opinion{}).Where("id = ?", id).
		Update("status", status).Error
}

// UpdateAssignee reassigns an opinion
func (r *opinionRepository) UpdateAssignee(id, assignee string) error {
	return r.db.Model(&domain.Opinion{}).Where("id = ?", id).
		Update("assignee", assignee).Error
}

// Delete removes an opinion; remarks and documents cascade
func (r *opinionRepository) Delete(id string) error {
	return r.db.Delete(&domain.Opinion{}, "id = ?", id).Error
}

// AppendRemark inserts a remark row. Remarks are never updated or
// deleted afterwards.
func (r *opinionRepository) AppendRemark(remark *domain.Remark) error {
	return r.db.Create(remark).Error
}

// AttachDocuments inserts document rows for an opinion
func (r *opinionRepository) AttachDocuments(docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	return r.db.Create(&docs).Error
}

// FindDocument retrieves one attached document by id.
// Returns (nil, nil) when the id does not exist.
func (r *opinionRepository) FindDocument(docID string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.First(&doc, "id = ?", docID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// NextReferenceNumber generates the next human-facing reference code,
// OP-<year>-<seq>, from the per-year row count.
func (r *opinionRepository) NextReferenceNumber() (string, error) {
	year := time.Now().Year()
	var count int64
	err := r.db.Model(&domain.Opinion{}).
		Where("reference_number LIKE ?", fmt.Sprintf("OP-%d-%%", year)).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OP-%d-%04d", year, count+1), nil
}

// Search runs a LIKE query over titles, reference numbers and the
// request statement. SQL fallback for deployments without
// Elasticsearch.
func (r *opinionRepository) Search(query string, limit int) ([]domain.Opinion, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"

	var total int64
	base := r.db.Model(&domain.Opinion{}).
		Where("title LIKE ? OR reference_number LIKE ? OR request_statement LIKE ?", pattern, pattern, pattern)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var opinions []domain.Opinion
	if err := base.Order("created_at DESC").Limit(limit).Find(&opinions).Error; err != nil {
		return nil, 0, err
	}
	return opinions, total, nil
}
