package board

import (
	"strings"

	"github.com/opiniondesk/opiniondesk-backend/internal/domain"
)

// WizardStep is one page of the submission wizard
type WizardStep string

// Wizard steps, in order. Navigation is strictly linear.
const (
	StepBasic     WizardStep = "basic"
	StepDetails   WizardStep = "details"
	StepDocuments WizardStep = "documents"
	StepReview    WizardStep = "review"
)

var stepOrder = []WizardStep{StepBasic, StepDetails, StepDocuments, StepReview}

// MaxDocuments is the attachment limit for one submission
const MaxDocuments = 3

// Wizard tracks the multi-step submission flow. Each forward step is
// gated by the current step's validity; going back is always allowed.
// The wizard itself never performs the submission -- the review step's
// submit is the caller's network call.
type Wizard struct {
	categories domain.StructuredCategories
	step       int

	Form          domain.OpinionFormData
	DocumentNames []string
}

// NewWizard creates a wizard over the known category tree
func NewWizard(categories domain.StructuredCategories) *Wizard {
	return &Wizard{categories: categories}
}

// Step returns the current step
func (w *Wizard) Step() WizardStep {
	return stepOrder[w.step]
}

// Next advances one step if the current step is valid. Returns whether
// the wizard moved.
func (w *Wizard) Next() bool {
	if w.step >= len(stepOrder)-1 {
		return false
	}
	if !w.IsStepValid(stepOrder[w.step]) {
		return false
	}
	w.step++
	return true
}

// Back returns to the previous step. Returns whether the wizard moved.
func (w *Wizard) Back() bool {
	if w.step == 0 {
		return false
	}
	w.step--
	return true
}

// IsStepValid evaluates one step's gate against the current form
func (w *Wizard) IsStepValid(step WizardStep) bool {
	switch step {
	case StepBasic:
		return len(w.basicErrors()) == 0
	case StepDetails:
		return len(MissingDetailFields(w.Form.Details)) == 0
	case StepDocuments:
		return len(w.DocumentNames) <= MaxDocuments
	case StepReview:
		return w.IsStepValid(StepBasic) && w.IsStepValid(StepDetails) && w.IsStepValid(StepDocuments)
	}
	return false
}

func (w *Wizard) basicErrors() []string {
	return missingBasicFields(w.Form, w.categories)
}

// ValidateForm checks a full submission payload and returns the names
// of missing or invalid fields, empty when the form is complete. Used
// by both the wizard gates and the add/edit dialog controllers.
func ValidateForm(form domain.OpinionFormData, categories domain.StructuredCategories) []string {
	missing := missingBasicFields(form, categories)
	missing = append(missing, MissingDetailFields(form.Details)...)
	return missing
}

// ValidateRemark checks a remark payload the same way
func ValidateRemark(form domain.RemarkFormData) []string {
	var missing []string
	if strings.TrimSpace(form.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(form.Author) == "" {
		missing = append(missing, "author")
	}
	return missing
}

// MissingDetailFields returns the names of blank details sections.
// All eleven are required for submission.
func MissingDetailFields(details domain.OpinionDetails) []string {
	var missing []string
	for _, field := range details.Fields() {
		if strings.TrimSpace(field[1]) == "" {
			missing = append(missing, field[0])
		}
	}
	return missing
}

func missingBasicFields(form domain.OpinionFormData, categories domain.StructuredCategories) []string {
	var missing []string
	if strings.TrimSpace(form.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(form.Category) == "" {
		missing = append(missing, "category")
	} else if subs, ok := categories[form.Category]; ok && len(subs) > 0 {
		// subcategory is required only when the chosen category has one
		if strings.TrimSpace(form.SubCategory) == "" {
			missing = append(missing, "sub_category")
		}
	}
	if form.Priority != "" {
		if _, ok := domain.ValidPriorities[form.Priority]; !ok {
			missing = append(missing, "priority")
		}
	}
	return missing
}
