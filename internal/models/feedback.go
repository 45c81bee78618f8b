package models

// Feedback statuses.
const (
	FeedbackPending = "pending"
	FeedbackReplied = "replied"
)

const anonymousName = "Anonymous"

// Feedback is a visitor message with an optional admin reply.
type Feedback struct {
	ID         int64   `json:"id"`
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Message    string  `json:"message"`
	Timestamp  string  `json:"timestamp"`
	Status     string  `json:"status"`
	AdminReply *string `json:"admin_reply,omitempty"`
}

// DisplayName returns the submitter name, or "Anonymous" when none was given.
func (f Feedback) DisplayName() string {
	if f.Name == nil || *f.Name == "" {
		return anonymousName
	}
	return *f.Name
}

// Reply returns the admin reply or an empty string.
func (f Feedback) Reply() string {
	if f.AdminReply == nil {
		return ""
	}
	return *f.AdminReply
}
