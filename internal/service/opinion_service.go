package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/opiniondesk/opiniondesk-backend/internal/board"
	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
	"github.com/opiniondesk/opiniondesk-backend/internal/repository"
	pkgcache "github.com/opiniondesk/opiniondesk-backend/pkg/cache"
	pkglogger "github.com/opiniondesk/opiniondesk-backend/pkg/logger"
	pkgstorage "github.com/opiniondesk/opiniondesk-backend/pkg/storage"
)

// ValidationError reports which form fields failed validation. The
// request never reaches the database when one is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing or invalid fields: " + strings.Join(e.Fields, ", ")
}

// DocumentUpload is one incoming attachment
type DocumentUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// MoveResult describes the outcome of a board move
type MoveResult struct {
	Effect  board.DragEffect `json:"-"`
	Changed bool             `json:"changed"`
	Opinion *domain.Opinion  `json:"opinion"`
}

// Indexer receives opinion changes for search indexing. Implemented by
// the search service when Elasticsearch is enabled.
type Indexer interface {
	IndexOpinion(ctx context.Context, op *domain.Opinion)
	RemoveOpinion(ctx context.Context, id string)
}

// OpinionService handles opinion business logic
type OpinionService struct {
	opinionRepo  repository.OpinionRepository
	categoryRepo repository.CategoryRepository
	storage      pkgstorage.Backend
	cache        pkgcache.Service
	indexer      Indexer
}

// NewOpinionService creates a new OpinionService. cache and indexer
// may be nil; both are best-effort.
func NewOpinionService(
	opinionRepo repository.OpinionRepository,
	categoryRepo repository.CategoryRepository,
	storage pkgstorage.Backend,
	cache pkgcache.Service,
	indexer Indexer,
) *OpinionService {
	return &OpinionService{
		opinionRepo:  opinionRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
		cache:        cache,
		indexer:      indexer,
	}
}

// List retrieves opinions narrowed by exact-match filters
func (s *OpinionService) List(filters domain.Filters) ([]domain.Opinion, error) {
	return s.opinionRepo.List(filters)
}

// Get retrieves one opinion, or ErrOpinionNotFound
func (s *OpinionService) Get(id string) (*domain.Opinion, error) {
	op, err := s.opinionRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, common.ErrOpinionNotFound
	}
	return op, nil
}

// Board derives the rendered board: filter, then partition into one
// bucket per workflow status. Filtered-only requests are cached
// briefly; free-text queries change on every keystroke and skip the
// cache.
func (s *OpinionService) Board(ctx context.Context, query string, filters domain.Filters) (*board.Columns, error) {
	cacheable := query == "" && s.cache != nil && s.cache.IsAvailable()
	cacheKey := boardCacheKey(filters)

	if cacheable {
		if data, err := s.cache.GetBoard(ctx, cacheKey); err == nil && data != nil {
			var cols board.Columns
			if json.Unmarshal(data, &cols) == nil {
				return &cols, nil
			}
		}
	}

	opinions, err := s.opinionRepo.List(domain.Filters{})
	if err != nil {
		return nil, err
	}

	visible := board.Apply(opinions, query, filters)
	cols := board.Partition(domain.AllStatuses(), visible)

	if cacheable {
		_ = s.cache.SetBoard(ctx, cacheKey, cols)
	}
	return &cols, nil
}

// Create validates a submission and persists the opinion with its
// attachments. Validation failure returns a ValidationError and
// nothing is written.
func (s *OpinionService) Create(ctx context.Context, form *domain.OpinionFormData, uploads []DocumentUpload) (*domain.Opinion, error) {
	if len(uploads) > board.MaxDocuments {
		return nil, common.ErrTooManyDocuments
	}

	categories, err := s.structuredCategories()
	if err != nil {
		return nil, err
	}
	if missing := board.ValidateForm(*form, categories); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	refNumber, err := s.opinionRepo.NextReferenceNumber()
	if err != nil {
		return nil, err
	}

	op := &domain.Opinion{
		ID:                   uuid.New().String(),
		ReferenceNumber:      refNumber,
		Title:                form.Title,
		Department:           form.Department,
		Category:             form.Category,
		SubCategory:          form.SubCategory,
		Priority:             form.Priority,
		Status:               domain.StatusUnassigned,
		SubmitterName:        form.SubmitterName,
		SubmitterEmail:       form.SubmitterEmail,
		SubmitterDescription: form.SubmitterDescription,
		Details:              form.Details,
	}
	if op.Priority == "" {
		op.Priority = domain.PriorityMedium
	}

	for _, upload := range uploads {
		key := pkgstorage.GenerateKey("opinions/"+op.ID, upload.Name)
		result, err := s.storage.Upload(ctx, key, upload.Body, upload.ContentType, upload.Size)
		if err != nil {
			return nil, fmt.Errorf("store document %s: %w", upload.Name, err)
		}
		op.Documents = append(op.Documents, domain.Document{
			ID:        uuid.New().String(),
			OpinionID: op.ID,
			Name:      upload.Name,
			URL:       result.URL,
		})
	}

	if err := s.opinionRepo.Create(op); err != nil {
		return nil, err
	}

	s.afterChange(ctx, op)
	return op, nil
}

// AttachDocuments uploads additional attachments to an existing
// opinion. The combined count stays within the per-opinion limit.
func (s *OpinionService) AttachDocuments(ctx context.Context, id string, uploads []DocumentUpload) (*domain.Opinion, error) {
	op, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if len(op.Documents)+len(uploads) > board.MaxDocuments {
		return nil, common.ErrTooManyDocuments
	}

	var docs []domain.Document
	for _, upload := range uploads {
		key := pkgstorage.GenerateKey("opinions/"+op.ID, upload.Name)
		result, err := s.storage.Upload(ctx, key, upload.Body, upload.ContentType, upload.Size)
		if err != nil {
			return nil, fmt.Errorf("store document %s: %w", upload.Name, err)
		}
		docs = append(docs, domain.Document{
			ID:        uuid.New().String(),
			OpinionID: op.ID,
			Name:      upload.Name,
			URL:       result.URL,
		})
	}

	if err := s.opinionRepo.AttachDocuments(docs); err != nil {
		return nil, err
	}
	op.Documents = append(op.Documents, docs...)

	s.afterChange(ctx, op)
	return op, nil
}

// Update merges edited form fields into an existing opinion. Blank
// details fields are rejected the same as on create.
func (s *OpinionService) Update(ctx context.Context, id string, form *domain.OpinionFormData) (*domain.Opinion, error) {
	op, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	categories, err := s.structuredCategories()
	if err != nil {
		return nil, err
	}
	if missing := board.ValidateForm(*form, categories); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	op.Title = form.Title
	op.Department = form.Department
	op.Category = form.Category
	op.SubCategory = form.SubCategory
	if form.Priority != "" {
		op.Priority = form.Priority
	}
	op.SubmitterName = form.SubmitterName
	op.SubmitterEmail = form.SubmitterEmail
	op.SubmitterDescription = form.SubmitterDescription
	op.Details = form.Details

	if err := s.opinionRepo.Update(op); err != nil {
		return nil, err
	}

	s.afterChange(ctx, op)
	return op, nil
}

// Move applies board drag semantics to a persisted opinion: overID is
// either a column (workflow status) or another opinion's id. Status
// changes are persisted; same-column positional moves are cosmetic and
// acknowledged without a write.
func (s *OpinionService) Move(ctx context.Context, id, overID string) (*MoveResult, error) {
	opinions, err := s.opinionRepo.List(domain.Filters{})
	if err != nil {
		return nil, err
	}

	store := board.NewStore(opinions)
	if _, ok := store.Find(id); !ok {
		return nil, common.ErrOpinionNotFound
	}

	session := board.NewDragSession(domain.AllStatuses())
	session.DragStart(store, id)
	next, effect := session.DragEnd(store, id, overID)

	result := &MoveResult{Effect: effect, Changed: effect == board.DragStatusChanged}

	moved, _ := next.Find(id)
	result.Opinion = &moved

	if effect == board.DragStatusChanged {
		if err := s.opinionRepo.UpdateStatus(id, moved.Status); err != nil {
			return nil, err
		}
		s.afterChange(ctx, &moved)
	}
	return result, nil
}

// Assign sets the assignee of an opinion
func (s *OpinionService) Assign(ctx context.Context, id, assignee string) (*domain.Opinion, error) {
	op, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.opinionRepo.UpdateAssignee(id, assignee); err != nil {
		return nil, err
	}
	op.Assignee = assignee
	s.afterChange(ctx, op)
	return op, nil
}

// AppendRemark validates and appends a remark
func (s *OpinionService) AppendRemark(ctx context.Context, id string, form *domain.RemarkFormData) (*domain.Remark, error) {
	if missing := board.ValidateRemark(*form); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	op, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	remark := &domain.Remark{
		ID:        uuid.New().String(),
		OpinionID: op.ID,
		Content:   form.Content,
		Author:    form.Author,
	}
	if err := s.opinionRepo.AppendRemark(remark); err != nil {
		return nil, err
	}

	s.invalidateBoards(ctx)
	return remark, nil
}

// Delete removes an opinion
func (s *OpinionService) Delete(ctx context.Context, id string) error {
	op, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.opinionRepo.Delete(op.ID); err != nil {
		return err
	}

	s.invalidateBoards(ctx)
	if s.indexer != nil {
		s.indexer.RemoveOpinion(ctx, op.ID)
	}
	return nil
}

func (s *OpinionService) structuredCategories() (domain.StructuredCategories, error) {
	categories, err := s.categoryRepo.ListWithSubcategories()
	if err != nil {
		return nil, err
	}
	return domain.Structure(categories), nil
}

func (s *OpinionService) afterChange(ctx context.Context, op *domain.Opinion) {
	s.invalidateBoards(ctx)
	if s.indexer != nil {
		s.indexer.IndexOpinion(ctx, op)
	}
}

func (s *OpinionService) invalidateBoards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBoards(ctx); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("board cache invalidation failed")
	}
}

func boardCacheKey(filters domain.Filters) string {
	return fmt.Sprintf("v%d:a=%s:d=%s", domain.PrecedenceVersion(), filters.Assignee, filters.Department)
}
