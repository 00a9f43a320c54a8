package http

import (
	"net/http"

	"kamela/internal/core"
	"kamela/internal/services"
)

type createTransactionRequest struct {
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := parseDateParam(req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.engine.Transactions.Record(r.Context(), core.TransactionKind(req.Kind), req.Category, amount, req.Description, date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionView(t))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := services.TransactionFilter{
		Kind: core.TransactionKind(r.URL.Query().Get("kind")),
	}
	list, err := s.engine.Transactions.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]transactionView, 0, len(list))
	for _, t := range list {
		views = append(views, toTransactionView(t))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Transactions.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
