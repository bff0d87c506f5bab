// Package httpapi exposes lists, prices, sharing and comparisons as a JSON
// API for the mobile app. Callers are authenticated upstream and identified
// by the X-User-ID header.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Houeta/pricewatch/internal/badge"
	"github.com/Houeta/pricewatch/internal/models"
	"github.com/Houeta/pricewatch/internal/ratelimit"
	"github.com/Houeta/pricewatch/internal/services/catalog"
	"github.com/gorilla/mux"
)

// ListService manages lists, items and prices.
type ListService interface {
	CreateList(ctx context.Context, ownerID, name string) (models.ShoppingList, error)
	Lists(ctx context.Context, userID string) ([]models.ShoppingList, error)
	AddItem(ctx context.Context, userID, listID, rawBarcode string) (models.Product, error)
	RecordPrice(ctx context.Context, in catalog.PriceInput) (models.PriceObservation, error)
}

// ShareService issues and redeems share codes.
type ShareService interface {
	Share(ctx context.Context, listID, userID string) (string, error)
	Redeem(ctx context.Context, userID, code string) (*models.ShareInvitation, error)
}

type Comparer interface {
	CompareForMember(ctx context.Context, userID, listID string, storeA, storeB models.StoreRef) (*models.Comparison, error)
}

type StoreLookup interface {
	GetStore(ctx context.Context, storeID string) (models.Store, error)
}

// Deps are the services behind the API.
type Deps struct {
	Lists       ListService
	Sharing     ShareService
	Comparison  Comparer
	Stores      StoreLookup
	Badge       *badge.Emitter
	JoinLimiter *ratelimit.Keyed
}

// Server routes API requests to the services.
type Server struct {
	log    *slog.Logger
	router *mux.Router

	lists      ListService
	sharing    ShareService
	comparison Comparer
	stores     StoreLookup
	badge      *badge.Emitter
}

// NewServer builds the router with all routes registered.
func NewServer(log *slog.Logger, deps Deps) *Server {
	s := &Server{
		log:        log,
		router:     mux.NewRouter(),
		lists:      deps.Lists,
		sharing:    deps.Sharing,
		comparison: deps.Comparison,
		stores:     deps.Stores,
		badge:      deps.Badge,
	}
	s.routes(deps.JoinLimiter)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(joinLimiter *ratelimit.Keyed) {
	s.router.Use(loggingMiddleware(s.log))
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no such route")
	})

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.NewRoute().Subrouter()
	api.Use(requireUser)

	api.HandleFunc("/badge", s.handleBadge).Methods(http.MethodGet)
	api.HandleFunc("/badge", s.handleBadgeSeen).Methods(http.MethodDelete)
	api.HandleFunc("/lists", s.handleCreateList).Methods(http.MethodPost)
	api.HandleFunc("/lists", s.handleLists).Methods(http.MethodGet)
	api.HandleFunc("/lists/{id}/items", s.handleAddItem).Methods(http.MethodPost)
	api.HandleFunc("/lists/{id}/share", s.handleShare).Methods(http.MethodPost)
	api.HandleFunc("/lists/{id}/share.png", s.handleShareQR).Methods(http.MethodGet)
	api.HandleFunc("/lists/{id}/compare", s.handleCompare).Methods(http.MethodGet)
	api.HandleFunc("/observations", s.handleRecordPrice).Methods(http.MethodPost)
	api.Handle("/join", rateLimitMiddleware(joinLimiter)(http.HandlerFunc(s.handleJoin))).Methods(http.MethodPost)
}
