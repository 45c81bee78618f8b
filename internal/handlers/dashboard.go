package handlers

import (
	"net/http"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/config"
	"finance-predictor/internal/finance"
	"finance-predictor/internal/logger"
	"finance-predictor/internal/predict"

	"go.uber.org/zap"
)

// DashboardViewModel is the data passed to the compute form.
type DashboardViewModel struct {
	Username string
	Error    string
}

// ResultViewModel is the data passed to the result page.
type ResultViewModel struct {
	*finance.Result
	// Demo hides the save form for the static example page.
	Demo bool
}

// ScoreViewModel is the data passed to the score-only result page.
type ScoreViewModel struct {
	PredictedFinancialScore float64
}

// DashboardForm renders the compute form.
func (h *Handlers) DashboardForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "dashboard.html", DashboardViewModel{Username: GetUserFromContext(r).Username})
}

// Dashboard computes balance and predictions for the submitted form. Nothing
// is stored; saving is a separate request.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.compute(r)
	if err != nil {
		h.computeFailed(w, r, err)
		return
	}
	h.render(w, r, "result.html", ResultViewModel{Result: res})
}

// Save recomputes the submitted inputs and stores the result. Echoed totals
// and predictions from the client are ignored.
func (h *Handlers) Save(w http.ResponseWriter, r *http.Request) {
	res, err := h.compute(r)
	if err != nil {
		h.computeFailed(w, r, err)
		return
	}

	user := GetUserFromContext(r)
	rec := res.Record(user.Username)
	if err := h.db.InsertRecord(r.Context(), rec); err != nil {
		h.fail(w, r, "save record", err)
		return
	}

	logger.Info("record saved", zap.String("username", user.Username), zap.Int64("id", rec.ID))
	h.message(w, r, http.StatusOK, MessageViewModel{
		Title:   "Saved",
		Message: "✅ Data saved successfully!",
		Links:   []Link{{Href: "/dashboard", Text: "← Back to Dashboard"}, {Href: "/history", Text: "View History"}},
	})
}

// Predict runs only the score model on the short prediction form.
func (h *Handlers) Predict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	in, err := finance.ParseScoreInput(r.PostForm)
	if err != nil {
		h.fail(w, r, "predict", err)
		return
	}

	vector := predict.ScoreInput{
		Income:           in.Income,
		DisposableIncome: in.DisposableIncome,
		DesiredSavings:   in.DesiredSavings,
		LoanRepayment:    in.LoanRepayment,
	}.Vector()

	kind := predict.KindFinancialScore
	if h.opts.PredictRoute == config.PredictRouteExpense {
		kind = predict.KindExpense
	}

	score, err := h.predictor.Predict(kind, vector)
	if err != nil {
		h.fail(w, r, "predict", err)
		return
	}
	h.render(w, r, "score.html", ScoreViewModel{PredictedFinancialScore: predict.Round2(score)})
}

// Result renders the result page with static example data.
func (h *Handlers) Result(w http.ResponseWriter, r *http.Request) {
	demo := &finance.Result{Input: finance.Input{Items: finance.DemoItems()}}
	demo.Total, _, _ = finance.Balance(0, demo.Items)
	h.render(w, r, "result.html", ResultViewModel{Result: demo, Demo: true})
}

func (h *Handlers) compute(r *http.Request) (*finance.Result, error) {
	if err := r.ParseForm(); err != nil {
		return nil, apperr.InvalidInput("invalid form submission")
	}
	in, err := finance.ParseInput(r.PostForm)
	if err != nil {
		return nil, err
	}
	return h.calc.Compute(in)
}

func (h *Handlers) computeFailed(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		logger.Error("compute", zap.Error(err))
	}
	h.renderStatus(w, r, status, "dashboard.html", DashboardViewModel{
		Username: GetUserFromContext(r).Username,
		Error:    apperr.Message(err),
	})
}
