package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/improneuf/bookingcal/internal/rest"
	"github.com/improneuf/bookingcal/pkg/yesplan"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

type BookersDTO struct {
	Bookers []string `json:"bookers"`
}

type ContactDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListBookers returns the booker choices the UI can filter on: the
// configured allow-list plus the "Other" bucket.
func (h *Handler) ListBookers(w http.ResponseWriter, r *http.Request) {
	bookers := append(h.service.RelevantBookers(), OtherBooker)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(BookersDTO{Bookers: bookers}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetContact resolves a contact name to its upstream id.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	id, err := h.service.FindContactID(r.Context(), name)
	if err != nil {
		log.Errorf("failed to resolve contact %q: %v", name, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusForError(err))
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Failed to resolve contact"})
		return
	}
	if id == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Contact not found"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ContactDTO{ID: id, Name: name}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// statusForError maps pipeline errors onto response status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, yesplan.ErrUnauthorized):
		return http.StatusBadGateway
	case errors.Is(err, yesplan.ErrRateLimited), errors.Is(err, yesplan.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, yesplan.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
