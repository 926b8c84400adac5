package domain

import "time"

// Priority levels for an opinion
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// ValidPriorities enumerates the accepted priority values
var ValidPriorities = map[string]struct{}{
	PriorityUrgent: {},
	PriorityHigh:   {},
	PriorityMedium: {},
	PriorityLow:    {},
}

// OpinionDetails holds the eleven narrative sections required for a
// complete submission. All are free text and all are required.
type OpinionDetails struct {
	RequestStatement       string `gorm:"column:request_statement;type:text" json:"request_statement"`
	Challenges             string `gorm:"column:challenges;type:text" json:"challenges"`
	SubjectContent         string `gorm:"column:subject_content;type:text" json:"subject_content"`
	Alternatives           string `gorm:"column:alternatives;type:text" json:"alternatives"`
	ExpectedImpact         string `gorm:"column:expected_impact;type:text" json:"expected_impact"`
	Risks                  string `gorm:"column:risks;type:text" json:"risks"`
	Studies                string `gorm:"column:studies;type:text" json:"studies"`
	LegalFinancialOpinions string `gorm:"column:legal_financial_opinions;type:text" json:"legal_financial_opinions"`
	StakeholderFeedback    string `gorm:"column:stakeholder_feedback;type:text" json:"stakeholder_feedback"`
	WorkPlan               string `gorm:"column:work_plan;type:text" json:"work_plan"`
	DecisionDraft          string `gorm:"column:decision_draft;type:text" json:"decision_draft"`
}

// Fields returns the details sections as name/value pairs, in display order
func (d OpinionDetails) Fields() [][2]string {
	return [][2]string{
		{"request_statement", d.RequestStatement},
		{"challenges", d.Challenges},
		{"subject_content", d.SubjectContent},
		{"alternatives", d.Alternatives},
		{"expected_impact", d.ExpectedImpact},
		{"risks", d.Risks},
		{"studies", d.Studies},
		{"legal_financial_opinions", d.LegalFinancialOpinions},
		{"stakeholder_feedback", d.StakeholderFeedback},
		{"work_plan", d.WorkPlan},
		{"decision_draft", d.DecisionDraft},
	}
}

// Opinion is a submitted request/proposal tracked through the
// department-review workflow. Maps to the opinions table.
type Opinion struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	ReferenceNumber string         `gorm:"column:reference_number;size:30;uniqueIndex" json:"reference_number"`
	Title           string         `gorm:"size:255" json:"title"`
	Department      string         `gorm:"size:100;index" json:"department"`
	Category        string         `gorm:"size:100" json:"category"`
	SubCategory     string         `gorm:"column:sub_category;size:100" json:"sub_category,omitempty"`
	Priority        string         `gorm:"size:10" json:"priority"`
	Status          WorkflowStatus `gorm:"size:40;index" json:"status"`
	Assignee        string         `gorm:"size:50;index" json:"assignee,omitempty"`

	SubmitterName        string `gorm:"column:submitter_name;size:100" json:"submitter_name"`
	SubmitterEmail       string `gorm:"column:submitter_email;size:255" json:"submitter_email"`
	SubmitterDescription string `gorm:"column:submitter_description;type:text" json:"submitter_description,omitempty"`

	Details OpinionDetails `gorm:"embedded" json:"details"`

	Remarks   []Remark   `gorm:"foreignKey:OpinionID;constraint:OnDelete:CASCADE" json:"remarks"`
	Documents []Document `gorm:"foreignKey:OpinionID;constraint:OnDelete:CASCADE" json:"documents"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (Opinion) TableName() string {
	return "opinions"
}

// Remark is a timestamped, attributed comment on an opinion.
// Remarks are append-only; no update or delete path exists.
type Remark struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OpinionID string    `gorm:"column:opinion_id;size:36;index" json:"opinion_id"`
	Content   string    `gorm:"type:text" json:"content"`
	Author    string    `gorm:"size:100" json:"author"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

// TableName returns the table name
func (Remark) TableName() string {
	return "opinion_remarks"
}

// Document is a file attached to an opinion. Entries are immutable
// once attached; the list only grows or shrinks as a whole.
type Document struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	OpinionID string    `gorm:"column:opinion_id;size:36;index" json:"opinion_id"`
	Name      string    `gorm:"size:255" json:"name"`
	URL       string    `gorm:"size:500" json:"url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (Document) TableName() string {
	return "opinion_documents"
}

// Filters narrows the visible opinion set. Absent fields match all.
type Filters struct {
	Assignee   string `json:"assignee,omitempty" form:"assignee"`
	Department string `json:"department,omitempty" form:"department"`
}

// OpinionFormData is the submission/edit payload for an opinion
type OpinionFormData struct {
	Title                string         `json:"title"`
	Department           string         `json:"department"`
	Category             string         `json:"category"`
	SubCategory          string         `json:"sub_category"`
	Priority             string         `json:"priority"`
	SubmitterName        string         `json:"submitter_name"`
	SubmitterEmail       string         `json:"submitter_email"`
	SubmitterDescription string         `json:"submitter_description"`
	Details              OpinionDetails `json:"details"`
}

// RemarkFormData is the payload for appending a remark
type RemarkFormData struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}
