package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/opiniondesk/opiniondesk-backend/internal/board"
	"github.com/opiniondesk/opiniondesk-backend/internal/common"
	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
	pkgstorage "github.com/opiniondesk/opiniondesk-backend/pkg/storage"
)

// --- Mock OpinionRepository ---

type mockOpinionRepo struct {
	mock.Mock
}

func (m *mockOpinionRepo) List(filters domain.Filters) ([]domain.Opinion, error) {
	args := m.Called(filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Opinion), args.Error(1)
}

func (m *mockOpinionRepo) FindByID(id string) (*domain.Opinion, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Opinion), args.Error(1)
}

func (m *mockOpinionRepo) Create(op *domain.Opinion) error {
	return m.Called(op).Error(0)
}

func (m *mockOpinionRepo) Update(op *domain.Opinion) error {
	return m.Called(op).Error(0)
}

func (m *mockOpinionRepo) UpdateStatus(id string, status domain.WorkflowStatus) error {
	return m.Called(id, status).Error(0)
}

func (m *mockOpinionRepo) UpdateAssignee(id, assignee string) error {
	return m.Called(id, assignee).Error(0)
}

func (m *mockOpinionRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockOpinionRepo) AppendRemark(remark *domain.Remark) error {
	return m.Called(remark).Error(0)
}

func (m *mockOpinionRepo) AttachDocuments(docs []domain.Document) error {
	return m.Called(docs).Error(0)
}

func (m *mockOpinionRepo) FindDocument(docID string) (*domain.Document, error) {
	args := m.Called(docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *mockOpinionRepo) NextReferenceNumber() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockOpinionRepo) Search(query string, limit int) ([]domain.Opinion, int64, error) {
	args := m.Called(query, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Opinion), args.Get(1).(int64), args.Error(2)
}

// --- Mock CategoryRepository ---

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) ListWithSubcategories() ([]domain.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

// --- Fake storage backend ---

type fakeStorage struct {
	uploaded []string
	failWith error
}

func (f *fakeStorage) Upload(_ context.Context, key string, _ io.Reader, _ string, _ int64) (*pkgstorage.UploadResult, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.uploaded = append(f.uploaded, key)
	return &pkgstorage.UploadResult{Key: key, URL: "/files/" + key}, nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error { return nil }

func (f *fakeStorage) URL(key string) string { return "/files/" + key }

func testCategories() []domain.Category {
	return []domain.Category{
		{ID: 1, Name: "infrastructure"},
		{ID: 2, Name: "education", Subcategories: []domain.Subcategory{
			{ID: 1, CategoryID: 2, Name: "schools"},
		}},
	}
}

func completeForm() *domain.OpinionFormData {
	return &domain.OpinionFormData{
		Title:    "Road maintenance backlog",
		Category: "infrastructure",
		Details: domain.OpinionDetails{
			RequestStatement:       "Fix the backlog",
			Challenges:             "Funding",
			SubjectContent:         "Roads in district 4",
			Alternatives:           "Outsource",
			ExpectedImpact:         "Fewer accidents",
			Risks:                  "Cost overrun",
			Studies:                "2024 survey",
			LegalFinancialOpinions: "Budget office approval",
			StakeholderFeedback:    "Residents support",
			WorkPlan:               "Q3 start",
			DecisionDraft:          "Approve phase one",
		},
	}
}

func newTestOpinionService(opRepo *mockOpinionRepo, catRepo *mockCategoryRepo, storage pkgstorage.Backend) *OpinionService {
	return NewOpinionService(opRepo, catRepo, storage, nil, nil)
}

func TestCreateOpinion(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	catRepo := new(mockCategoryRepo)
	storage := &fakeStorage{}

	catRepo.On("ListWithSubcategories").Return(testCategories(), nil)
	opRepo.On("NextReferenceNumber").Return("OP-2026-0007", nil)
	opRepo.On("Create", mock.AnythingOfType("*domain.Opinion")).Return(nil)

	svc := newTestOpinionService(opRepo, catRepo, storage)
	op, err := svc.Create(context.Background(), completeForm(), []DocumentUpload{
		{Name: "report.pdf", ContentType: "application/pdf", Size: 12, Body: bytes.NewBufferString("pdf content.")},
	})

	assert.NoError(t, err)
	assert.Equal(t, "OP-2026-0007", op.ReferenceNumber)
	assert.Equal(t, domain.StatusUnassigned, op.Status)
	assert.Equal(t, domain.PriorityMedium, op.Priority) // default when unset
	assert.Len(t, op.Documents, 1)
	assert.Equal(t, "report.pdf", op.Documents[0].Name)
	assert.Len(t, storage.uploaded, 1)
	opRepo.AssertExpectations(t)
}

func TestCreateOpinionValidationFailure(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	catRepo := new(mockCategoryRepo)
	catRepo.On("ListWithSubcategories").Return(testCategories(), nil)

	svc := newTestOpinionService(opRepo, catRepo, &fakeStorage{})

	form := completeForm()
	form.Title = ""
	form.Details.Risks = ""

	op, err := svc.Create(context.Background(), form, nil)
	assert.Nil(t, op)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "title")
	assert.Contains(t, validationErr.Fields, "risks")
	opRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateOpinionSubcategoryRequired(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	catRepo := new(mockCategoryRepo)
	catRepo.On("ListWithSubcategories").Return(testCategories(), nil)

	svc := newTestOpinionService(opRepo, catRepo, &fakeStorage{})

	form := completeForm()
	form.Category = "education" // has subcategories, so one must be chosen

	_, err := svc.Create(context.Background(), form, nil)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "sub_category")
}

func TestCreateOpinionTooManyDocuments(t *testing.T) {
	svc := newTestOpinionService(new(mockOpinionRepo), new(mockCategoryRepo), &fakeStorage{})

	uploads := make([]DocumentUpload, board.MaxDocuments+1)
	_, err := svc.Create(context.Background(), completeForm(), uploads)
	assert.ErrorIs(t, err, common.ErrTooManyDocuments)
}

func TestMoveToColumnPersistsStatusChange(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	opinions := []domain.Opinion{
		{ID: "op-1", Title: "A", Status: domain.StatusUnassigned},
		{ID: "op-2", Title: "B", Status: domain.StatusInReview},
	}
	opRepo.On("List", domain.Filters{}).Return(opinions, nil)
	opRepo.On("UpdateStatus", "op-1", domain.StatusInReview).Return(nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})
	result, err := svc.Move(context.Background(), "op-1", string(domain.StatusInReview))

	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, board.DragStatusChanged, result.Effect)
	assert.Equal(t, domain.StatusInReview, result.Opinion.Status)
	opRepo.AssertExpectations(t)
}

func TestMoveOverSiblingAdoptsItsStatus(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	opinions := []domain.Opinion{
		{ID: "op-1", Status: domain.StatusUnassigned},
		{ID: "op-2", Status: domain.StatusCompleted},
	}
	opRepo.On("List", domain.Filters{}).Return(opinions, nil)
	opRepo.On("UpdateStatus", "op-1", domain.StatusCompleted).Return(nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})
	result, err := svc.Move(context.Background(), "op-1", "op-2")

	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, domain.StatusCompleted, result.Opinion.Status)
}

func TestMoveWithinColumnIsNotPersisted(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	opinions := []domain.Opinion{
		{ID: "op-1", Status: domain.StatusUnassigned},
		{ID: "op-2", Status: domain.StatusUnassigned},
	}
	opRepo.On("List", domain.Filters{}).Return(opinions, nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})
	result, err := svc.Move(context.Background(), "op-1", "op-2")

	assert.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, board.DragReordered, result.Effect)
	opRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestMoveDiscardedOnEmptyTarget(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	opRepo.On("List", domain.Filters{}).Return([]domain.Opinion{
		{ID: "op-1", Status: domain.StatusUnassigned},
	}, nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})
	result, err := svc.Move(context.Background(), "op-1", "")

	assert.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, board.DragNone, result.Effect)
	assert.Equal(t, domain.StatusUnassigned, result.Opinion.Status)
}

func TestMoveUnknownOpinion(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	opRepo.On("List", domain.Filters{}).Return([]domain.Opinion{}, nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})
	_, err := svc.Move(context.Background(), "ghost", "op-2")

	assert.ErrorIs(t, err, common.ErrOpinionNotFound)
}

func TestBoardPartitionsFilteredOpinions(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	opRepo.On("List", domain.Filters{}).Return([]domain.Opinion{
		{ID: "op-1", Title: "Water supply", Status: domain.StatusUnassigned, Assignee: "kim"},
		{ID: "op-2", Title: "Bridge repair", Status: domain.StatusUnassigned, Assignee: "lee"},
		{ID: "op-3", Title: "Water quality", Status: domain.StatusCompleted, Assignee: "kim"},
	}, nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})
	cols, err := svc.Board(context.Background(), "water", domain.Filters{Assignee: "kim"})

	assert.NoError(t, err)
	// every known status has a bucket, even when empty
	assert.Len(t, cols.Order, len(domain.AllStatuses()))
	assert.Len(t, cols.Buckets[domain.StatusUnassigned], 1)
	assert.Len(t, cols.Buckets[domain.StatusCompleted], 1)
	assert.Empty(t, cols.Buckets[domain.StatusInReview])
}

func TestGetOpinionNotFound(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	opRepo.On("FindByID", "ghost").Return(nil, nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})
	_, err := svc.Get("ghost")

	assert.ErrorIs(t, err, common.ErrOpinionNotFound)
}

func TestAppendRemarkValidatesContent(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})

	_, err := svc.AppendRemark(context.Background(), "op-1", &domain.RemarkFormData{Content: "  "})

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	opRepo.AssertNotCalled(t, "AppendRemark", mock.Anything)
}

func TestAppendRemark(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	opRepo.On("FindByID", "op-1").Return(&domain.Opinion{ID: "op-1"}, nil)
	opRepo.On("AppendRemark", mock.AnythingOfType("*domain.Remark")).Return(nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})
	remark, err := svc.AppendRemark(context.Background(), "op-1", &domain.RemarkFormData{
		Content: "Needs legal review",
		Author:  "kim",
	})

	assert.NoError(t, err)
	assert.Equal(t, "op-1", remark.OpinionID)
	assert.NotEmpty(t, remark.ID)
}

func TestAttachDocuments(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	storage := &fakeStorage{}
	opRepo.On("FindByID", "op-1").Return(&domain.Opinion{
		ID: "op-1",
		Documents: []domain.Document{
			{ID: "doc-1", OpinionID: "op-1", Name: "existing.pdf"},
		},
	}, nil)
	opRepo.On("AttachDocuments", mock.AnythingOfType("[]domain.Document")).Return(nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), storage)
	op, err := svc.AttachDocuments(context.Background(), "op-1", []DocumentUpload{
		{Name: "followup.pdf", ContentType: "application/pdf", Size: 4, Body: bytes.NewBufferString("more")},
	})

	assert.NoError(t, err)
	assert.Len(t, op.Documents, 2)
	assert.Equal(t, "followup.pdf", op.Documents[1].Name)
	assert.Equal(t, "op-1", op.Documents[1].OpinionID)
	assert.Len(t, storage.uploaded, 1)
	opRepo.AssertExpectations(t)
}

func TestAttachDocumentsRespectsLimit(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	existing := make([]domain.Document, board.MaxDocuments)
	opRepo.On("FindByID", "op-1").Return(&domain.Opinion{ID: "op-1", Documents: existing}, nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})
	_, err := svc.AttachDocuments(context.Background(), "op-1", []DocumentUpload{
		{Name: "one-too-many.pdf", Body: bytes.NewBufferString("x")},
	})

	assert.ErrorIs(t, err, common.ErrTooManyDocuments)
	opRepo.AssertNotCalled(t, "AttachDocuments", mock.Anything)
}

func TestAttachDocumentsUnknownOpinion(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	opRepo.On("FindByID", "ghost").Return(nil, nil)

	svc := newTestOpinionService(opRepo, new(mockCategoryRepo), &fakeStorage{})
	_, err := svc.AttachDocuments(context.Background(), "ghost", []DocumentUpload{
		{Name: "a.pdf", Body: bytes.NewBufferString("x")},
	})

	assert.ErrorIs(t, err, common.ErrOpinionNotFound)
}

func TestCreateOpinionStorageFailure(t *testing.T) {
	opRepo := new(mockOpinionRepo)
	catRepo := new(mockCategoryRepo)
	catRepo.On("ListWithSubcategories").Return(testCategories(), nil)
	opRepo.On("NextReferenceNumber").Return("OP-2026-0008", nil)

	svc := newTestOpinionService(opRepo, catRepo, &fakeStorage{failWith: errors.New("disk full")})
	_, err := svc.Create(context.Background(), completeForm(), []DocumentUpload{
		{Name: "a.pdf", Body: bytes.NewBufferString("x")},
	})

	assert.Error(t, err)
	opRepo.AssertNotCalled(t, "Create", mock.Anything)
}
