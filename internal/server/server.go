// Package server exposes the pricing core over REST. Handlers validate
// request shape; the core assumes validated input.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/batiprix/pricing-engine/internal/feedback"
	"github.com/batiprix/pricing-engine/internal/model"
	"github.com/batiprix/pricing-engine/internal/pricer"
	"github.com/batiprix/pricing-engine/pkg/catalog"
)

const maxTopK = 50

// Server wires the pricing engine, feedback store, and catalog client
// into HTTP handlers.
type Server struct {
	engine      *pricer.Engine
	store       feedback.Store
	catalog     catalog.Client
	defaultTopK int
}

// New creates a Server.
func New(engine *pricer.Engine, store feedback.Store, cat catalog.Client, defaultTopK int) *Server {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Server{engine: engine, store: store, catalog: cat, defaultTopK: defaultTopK}
}

// Router builds the chi handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Post("/price", s.handlePrice)
	r.Post("/feedback", s.handleFeedback)
	r.Get("/search", s.handleSearch)
	r.Get("/health", s.handleHealth)
	return r
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	var req model.Proposal
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ContractorMargin < 0 || req.ContractorMargin > 1 {
		respondError(w, http.StatusBadRequest, "contractor_margin must be between 0 and 1")
		return
	}

	priced, err := s.engine.PriceProposal(r.Context(), req)
	if err != nil {
		zap.L().Error("proposal pricing failed",
			zap.String("title", req.Title),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "pricing failed")
		return
	}
	respondJSON(w, http.StatusOK, priced)
}

type feedbackRequest struct {
	ProposalID   string   `json:"proposal_id"`
	ItemType     string   `json:"item_type"`
	ItemLabel    string   `json:"item_label"`
	FeedbackType string   `json:"feedback_type"`
	ActualPrice  *float64 `json:"actual_price"`
	Comment      string   `json:"comment"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemLabel == "" {
		respondError(w, http.StatusBadRequest, "item_label is required")
		return
	}
	if req.ActualPrice == nil {
		respondError(w, http.StatusBadRequest, "actual_price is required")
		return
	}

	itemType := model.ItemType(req.ItemType)
	if itemType == "" {
		itemType = model.ItemTypeTask
	}

	id, err := s.store.Append(r.Context(), model.FeedbackRecord{
		ProposalID:   req.ProposalID,
		ItemType:     itemType,
		ItemLabel:    req.ItemLabel,
		FeedbackType: req.FeedbackType,
		ActualPrice:  req.ActualPrice,
		Comment:      req.Comment,
	})
	if err != nil {
		zap.L().Error("feedback append failed",
			zap.String("item_label", req.ItemLabel),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "could not save feedback")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "id": id})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}

	topK := s.defaultTopK
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTopK {
			respondError(w, http.StatusBadRequest, "top_k must be between 1 and 50")
			return
		}
		topK = n
	}

	hits, err := s.catalog.Search(r.Context(), q, topK, r.URL.Query().Get("category"))
	if err != nil {
		zap.L().Error("catalog search failed", zap.String("query", q), zap.Error(err))
		respondError(w, http.StatusBadGateway, "search unavailable")
		return
	}
	if hits == nil {
		hits = []catalog.Hit{}
	}
	respondJSON(w, http.StatusOK, hits)
}

type healthResponse struct {
	Status       string `json:"status"`
	ProductCount int    `json:"product_count"`
	FeedbackDB   string `json:"feedback_db"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", FeedbackDB: "ok"}

	// Collaborator problems degrade the report but the endpoint stays 200:
	// the engine itself is stateless and alive.
	if stats, err := s.catalog.Stats(r.Context()); err == nil {
		resp.ProductCount = stats.ProductCount
	} else {
		zap.L().Warn("catalog stats unavailable", zap.Error(err))
	}
	if err := s.store.Ping(r.Context()); err != nil {
		zap.L().Warn("feedback store unreachable", zap.Error(err))
		resp.FeedbackDB = "unreachable"
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response failed", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"error": msg})
}
