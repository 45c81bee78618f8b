package handlers

import (
	"net/http"
	"time"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/models"

	"github.com/pkg/errors"
)

// publicFeedbackLimit caps the public feedback listing.
const publicFeedbackLimit = 10

// FeedbackFormViewModel is the data passed to the feedback form.
type FeedbackFormViewModel struct {
	Error string
	Name  string
	Email string
}

// FeedbackListViewModel is the data passed to the feedback listings.
type FeedbackListViewModel struct {
	Title     string
	Feedbacks []models.Feedback
}

// FeedbackForm renders the feedback form.
func (h *Handlers) FeedbackForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "feedback.html", FeedbackFormViewModel{})
}

// SubmitFeedback stores a visitor message.
func (h *Handlers) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	name, email, message := r.FormValue("name"), r.FormValue("email"), r.FormValue("message")
	_, err := h.db.SubmitFeedback(r.Context(), name, email, message, time.Now())
	if errors.Is(err, apperr.ErrMissingMessage) {
		h.renderStatus(w, r, http.StatusBadRequest, "feedback.html", FeedbackFormViewModel{
			Error: "Message is required.",
			Name:  name,
			Email: email,
		})
		return
	}
	if err != nil {
		h.fail(w, r, "submit feedback", err)
		return
	}

	h.message(w, r, http.StatusOK, MessageViewModel{
		Title:   "Thank you",
		Message: "✅ Thank you for your feedback!",
		Links:   []Link{{Href: "/feedback", Text: "Leave more feedback"}, {Href: "/", Text: "Home"}},
	})
}

// Feedbacks lists the most recent feedback publicly.
func (h *Handlers) Feedbacks(w http.ResponseWriter, r *http.Request) {
	h.listFeedback(w, r, "Recent feedback", publicFeedbackLimit)
}

// ViewFeedbacks lists all feedback publicly.
func (h *Handlers) ViewFeedbacks(w http.ResponseWriter, r *http.Request) {
	h.listFeedback(w, r, "All feedback", 0)
}

func (h *Handlers) listFeedback(w http.ResponseWriter, r *http.Request, title string, limit int) {
	list, err := h.db.ListFeedback(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "list feedback", err)
		return
	}
	h.render(w, r, "feedbacks.html", FeedbackListViewModel{Title: title, Feedbacks: list})
}
