// internal/auth/handler.go
package auth

import (
	"encoding/json"
	"net/http"

	"github.com/unclebandit/pulsecrm-backend/internal/model"
	"github.com/unclebandit/pulsecrm-backend/internal/repository"
)

// Handler serves the simplified demo login flow. Production would verify a
// real OAuth assertion instead of trusting the posted email.
type Handler struct {
	UserRepo repository.UserRepositoryInterface
	Secret   string
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByEmail(body.Email)
	if err != nil {
		http.Error(w, "Authentication failed", http.StatusInternalServerError)
		return
	}
	if user == nil {
		user = &model.User{Email: body.Email, Name: body.Name}
		if err := h.UserRepo.Create(user); err != nil {
			http.Error(w, "Authentication failed", http.StatusInternalServerError)
			return
		}
	}

	token, err := IssueToken(h.Secret, Identity{UserID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		http.Error(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := FromContext(r.Context())
	if !ok {
		unauthorized(w, "Not authenticated")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user": map[string]interface{}{
			"id":    id.UserID,
			"email": id.Email,
			"name":  id.Name,
		},
	})
}
