package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/export"
	"finance-predictor/internal/logger"
	"finance-predictor/internal/models"

	"go.uber.org/zap"
)

// HistoryViewModel is the data passed to the history page.
type HistoryViewModel struct {
	Username string
	Records  []models.ExpenseRecord
}

// History lists the user's saved records, newest first.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	records, err := h.db.ListRecordsByUser(r.Context(), user.Username)
	if err != nil {
		h.fail(w, r, "list records", err)
		return
	}
	h.render(w, r, "history.html", HistoryViewModel{Username: user.Username, Records: records})
}

// DeleteRecord removes one of the user's saved records.
func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.fail(w, r, "delete record", apperr.InvalidInput("record id must be a number"))
		return
	}

	user := GetUserFromContext(r)
	if err := h.db.DeleteRecord(r.Context(), id, user.Username); err != nil {
		h.fail(w, r, "delete record", err)
		return
	}
	http.Redirect(w, r, "/history", http.StatusFound)
}

// ExportHistory downloads the user's saved records as an XLSX workbook.
func (h *Handlers) ExportHistory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)
	records, err := h.db.ListRecordsByUser(r.Context(), user.Username)
	if err != nil {
		h.fail(w, r, "export records", err)
		return
	}

	filename := fmt.Sprintf("history-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteHistory(w, records); err != nil {
		logger.Error("export records", zap.Error(err))
	}
}
