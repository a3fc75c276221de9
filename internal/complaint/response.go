package complaint

import (
	"strings"
	"time"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/models"

	"github.com/google/uuid"
)

// NewResponse builds a leader response stamped at now. An empty status keeps
// the complaint's current status, falling back to in-progress.
func NewResponse(c models.Complaint, text string, status models.Status, responder models.User, now time.Time) (models.Response, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Response{}, apperr.Validation("AddResponse", "response text is required")
	}
	if status == "" {
		status = c.Status
	}
	if status == "" {
		status = models.StatusInProgress
	}
	if !status.Valid() {
		return models.Response{}, apperr.Validation("AddResponse", "unknown status %q", status)
	}

	return models.Response{
		ID:            newResponseID(),
		Text:          text,
		Date:          now.UTC().Format(time.RFC3339),
		Status:        status,
		ResponderID:   responder.ID,
		ResponderName: responder.Name,
	}, nil
}

// Complete checks a response built by a caller and stamps the id and date it
// lacks.
func Complete(r *models.Response, now time.Time) error {
	if !r.Status.Valid() {
		return apperr.Validation("AddResponse", "unknown status %q", r.Status)
	}
	if r.ID == "" {
		r.ID = newResponseID()
	}
	if r.Date == "" {
		r.Date = now.UTC().Format(time.RFC3339)
	}
	return nil
}

func newResponseID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// ApplyResponse appends r and makes its status the complaint's status. A later
// response may move the status backwards; that is allowed.
func ApplyResponse(c *models.Complaint, r models.Response) {
	c.Responses = append(c.Responses, r)
	c.Status = r.Status
}
