package export

import (
	"encoding/json"
	"fmt"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/scheduler"
)

// Document is the JSON shape of an exported schedule
type Document struct {
	Success          bool                        `json:"success"`
	Phase            string                      `json:"phase"`
	Error            string                      `json:"error,omitempty"`
	Statistics       scheduler.Statistics        `json:"statistics"`
	Assignments      []model.Assignment          `json:"assignments"`
	ValidationErrors []scheduler.ValidationError `json:"validationErrors"`
}

// NewDocument converts a result into its JSON document
func NewDocument(result *scheduler.Result) Document {
	doc := Document{
		Success:          result.Success,
		Phase:            result.Phase.String(),
		Statistics:       result.Statistics,
		Assignments:      result.Assignments,
		ValidationErrors: result.ValidationErrors,
	}
	if result.Err != nil {
		doc.Error = result.Err.Error()
	}
	if doc.Assignments == nil {
		doc.Assignments = []model.Assignment{}
	}
	if doc.ValidationErrors == nil {
		doc.ValidationErrors = []scheduler.ValidationError{}
	}
	return doc
}

func renderJSON(result *scheduler.Result) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(result), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return append(data, '\n'), nil
}
