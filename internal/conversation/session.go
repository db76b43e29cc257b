package conversation

import (
	"time"

	"github.com/zenithlab/zenith-bot/internal/catalog"
)

// Step is a user's position in the conversation.
type Step string

const (
	StepWelcome       Step = "welcome"
	StepMainCategory  Step = "main_category"
	StepSubCategory   Step = "sub_category"
	StepServiceDetail Step = "service_detail"
	StepConsultation  Step = "consultation"
)

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	switch s {
	case StepWelcome, StepMainCategory, StepSubCategory, StepServiceDetail, StepConsultation:
		return true
	}
	return false
}

// Session is the per-user conversation state persisted between turns.
type Session struct {
	UserID              string       `json:"user_id"`
	Step                Step         `json:"step"`
	SelectedCategory    catalog.Code `json:"selected_category,omitempty"`
	SelectedSubCategory string       `json:"selected_sub_category,omitempty"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// NewSession returns the state of a user who has never written before.
func NewSession(userID string) Session {
	return Session{UserID: userID, Step: StepWelcome}
}

// Input is one user turn: the raw utterance plus the structured extra a
// navigation button attached, when the platform forwarded it.
type Input struct {
	Utterance string
	Extra     map[string]string
}
