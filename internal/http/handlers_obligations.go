package http

import (
	"net/http"

	"kamela/internal/core"
	"kamela/internal/services"
)

type openObligationRequest struct {
	Kind         string  `json:"kind"`
	Counterparty string  `json:"counterparty"`
	Contact      string  `json:"contact"`
	Principal    string  `json:"principal"`
	InterestRate float64 `json:"interestRate"`
	StartDate    string  `json:"startDate"`
	DueDate      string  `json:"dueDate"`
	Notes        string  `json:"notes"`
}

func (s *Server) handleOpenObligation(w http.ResponseWriter, r *http.Request) {
	var req openObligationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	principal, err := core.ParseMoney(req.Principal)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	startDate, err := parseDateParam(req.StartDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var dueDate core.Date
	if req.DueDate != "" {
		dueDate, err = parseDateParam(req.DueDate)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	o, err := s.engine.Obligations.Open(r.Context(), services.OpenObligationParams{
		Kind:         core.ObligationKind(req.Kind),
		Counterparty: req.Counterparty,
		Contact:      req.Contact,
		Principal:    principal,
		InterestRate: req.InterestRate,
		StartDate:    startDate,
		DueDate:      dueDate,
		Notes:        req.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toObligationView(o))
}

func (s *Server) handleListObligations(w http.ResponseWriter, r *http.Request) {
	filter := services.ObligationFilter{
		Kind:   core.ObligationKind(r.URL.Query().Get("kind")),
		Status: core.ObligationStatus(r.URL.Query().Get("status")),
	}
	list, err := s.engine.Obligations.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]obligationView, 0, len(list))
	for _, o := range list {
		views = append(views, toObligationView(o))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetObligation(w http.ResponseWriter, r *http.Request) {
	o, err := s.engine.Obligations.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toObligationView(o))
}

func (s *Server) handleListRepayments(w http.ResponseWriter, r *http.Request) {
	list, err := s.engine.Obligations.Repayments(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]repaymentView, 0, len(list))
	for _, rep := range list {
		views = append(views, toRepaymentView(rep))
	}
	writeJSON(w, http.StatusOK, views)
}

type applyRepaymentRequest struct {
	Amount string `json:"amount"`
	Date   string `json:"date"`
	Notes  string `json:"notes"`
}

func (s *Server) handleApplyRepayment(w http.ResponseWriter, r *http.Request) {
	var req applyRepaymentRequest
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

	result, err := s.engine.Repayments.Apply(r.Context(), r.PathValue("id"), amount, date, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, applyResultView{
		Repayment:   toRepaymentView(result.Repayment),
		Obligation:  toObligationView(result.Obligation),
		Transaction: toTransactionView(result.Transaction),
	})
}
