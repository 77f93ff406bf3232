package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/brusiqueira9/expense-guru/internal/core"
	"github.com/brusiqueira9/expense-guru/internal/log"
)

type createTransactionResponse struct {
	Transaction core.Transaction   `json:"transaction"`
	Occurrences []core.Transaction `json:"occurrences,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var draft core.Transaction
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	draft.UserID = userID
	draft.ParentTransactionID = ""

	stored, occurrences, err := s.transactions.CreateTransaction(r.Context(), draft)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateUserCaches(userID)

	writeJSON(w, http.StatusCreated, createTransactionResponse{
		Transaction: stored,
		Occurrences: occurrences,
	})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	tx, err := s.transactions.GetTransaction(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := userID + ":" + r.URL.RawQuery
	if cached, ok := s.listCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	list, err := s.transactions.ListTransactions(r.Context(), userID, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []core.Transaction{}
	}
	s.listCache.Set(key, list)
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	cascade := r.URL.Query().Get("cascade") == "true"

	if err := s.transactions.DeleteTransaction(r.Context(), userID, chi.URLParam(r, "id"), cascade); err != nil {
		writeDomainError(w, err)
		return
	}
	s.invalidateUserCaches(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := userID + ":" + r.URL.RawQuery
	if cached, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.transactions.Summary(r.Context(), userID, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.transactions.ListCategories(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to list categories", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string               `json:"name"`
		Type core.TransactionType `json:"type"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := s.transactions.CreateCategory(r.Context(), req.Name, req.Type)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// filterFromQuery builds a core.Filter from list and summary query
// parameters. Unset parameters leave their constraint open.
func filterFromQuery(r *http.Request) (core.Filter, error) {
	q := r.URL.Query()
	var f core.Filter

	if v := q.Get("type"); v != "" {
		f.Type = core.TransactionType(v)
	}
	f.CategoryID = q.Get("categoryId")
	if v := q.Get("status"); v != "" {
		f.PaymentStatus = core.PaymentStatus(v)
	}
	if v := q.Get("recurrence"); v != "" {
		rec := core.Recurrence(v)
		if v == "none" {
			rec = core.RecurrenceNone
		}
		f.Recurrence = &rec
	}
	if v := q.Get("from"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Filter{}, err
		}
		f.From = d
	}
	if v := q.Get("to"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return core.Filter{}, err
		}
		f.To = d
	}
	if v := q.Get("minCents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return core.Filter{}, core.ErrInvalidAmount
		}
		f.MinCents = n
	}
	if v := q.Get("maxCents"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return core.Filter{}, core.ErrInvalidAmount
		}
		f.MaxCents = n
	}
	return f, nil
}
