// Package complaint builds complaints from the creation form and applies
// leader responses to them.
package complaint

import (
	"strings"
	"time"

	"citizenvoice/backend/internal/apperr"
	"citizenvoice/backend/internal/config"
	"citizenvoice/backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Display layouts for the date, day and time fields.
const (
	DateLayout = "2006-01-02"
	DayLayout  = "Monday"
	TimeLayout = "3:04 PM"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Draft is the creation form: text fields plus the picked image references.
type Draft struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description" validate:"required"`
	Location    string        `json:"location"`
	Category    string        `json:"category" validate:"required"`
	Images      []string      `json:"images" validate:"min=1,max=5,dive,required"`
	Leader      models.Leader `json:"leader"`
}

// Normalize trims the text fields and applies the default location.
func (d *Draft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	d.Location = strings.TrimSpace(d.Location)
	if d.Location == "" {
		d.Location = config.DefaultLocation
	}
}

// Validate normalizes d and checks it against the form rules.
func (d *Draft) Validate() error {
	d.Normalize()
	if err := validate.Struct(d); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return apperr.Validation("CreateComplaint", "%s", describe(errs[0]))
		}
		return apperr.Validation("CreateComplaint", "%v", err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch {
	case strings.HasPrefix(fe.Namespace(), "Draft.Images") && fe.Tag() == "min":
		return "please add at least one image"
	case strings.HasPrefix(fe.Namespace(), "Draft.Images") && fe.Tag() == "max":
		return "you can only upload up to 5 images"
	case fe.Tag() == "required":
		return field + " is required"
	}
	return field + " is invalid"
}

// New builds a pending complaint from a validated draft. Date, day and time
// all come from now. images are the already-imported references.
func New(id int, d Draft, creator *models.User, images []models.ImageRef, now time.Time) models.Complaint {
	c := models.Complaint{
		ID:       id,
		Title:    d.Title,
		Subtitle: d.Description,
		Location: d.Location,
		Date:     now.Format(DateLayout),
		Day:      now.Format(DayLayout),
		Time:     now.Format(TimeLayout),
		Images:   images,
		Leader:   d.Leader,
		Category: d.Category,
		Status:   models.StatusPending,
	}
	if len(images) > 0 {
		c.BackgroundImage = images[0]
	}
	if creator != nil {
		c.UserID = creator.ID
		c.CreatedBy = creator.Name
	}
	return c
}

// NextID returns one more than the largest id across all given collections.
func NextID(collections ...[]models.Complaint) int {
	highest := 0
	for _, list := range collections {
		for _, c := range list {
			if c.ID > highest {
				highest = c.ID
			}
		}
	}
	return highest + 1
}
