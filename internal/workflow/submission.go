package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jask/ecoscope/internal/geo"
)

// ErrInvalidSubmission is returned by the gate for blank text or a missing coordinate.
var ErrInvalidSubmission = errors.New("invalid submission")

var validate = validator.New()

// Submission is created once per workflow run and never changes afterwards.
type Submission struct {
	ID          uuid.UUID      `json:"id"`
	Text        string         `json:"query"`
	Coordinate  geo.Coordinate `json:"location"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

type draft struct {
	Text       string          `validate:"required"`
	Coordinate *geo.Coordinate `validate:"required"`
}

// NewSubmission is the query submission gate.
func NewSubmission(text string, coord *geo.Coordinate) (Submission, error) {
	d := draft{Text: strings.TrimSpace(text), Coordinate: coord}
	if err := validate.Struct(d); err != nil {
		return Submission{}, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}
	return Submission{
		ID:          uuid.New(),
		Text:        d.Text,
		Coordinate:  *coord,
		SubmittedAt: time.Now().UTC(),
	}, nil
}
