package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"pragati/internal/auth"
	"pragati/internal/docstore"
	"pragati/internal/workflow"
	"pragati/pkg/platform/httputil"
)

// Handler exposes registration, login and account endpoints.
type Handler struct {
	svc      *Service
	issuer   *auth.TokenIssuer
	validate *validator.Validate
}

// NewHandler wires the user handler.
func NewHandler(svc *Service, issuer *auth.TokenIssuer) *Handler {
	return &Handler{svc: svc, issuer: issuer, validate: workflow.NewValidator()}
}

// Routes returns the router: register and login are public, everything else
// requires a token, and the account listing is admin-only.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(h.issuer))
		r.Get("/me", h.me)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.RoleMasterAdmin, auth.RoleExecAdmin))
			r.Get("/", h.list)
			r.Patch("/{id}/activate", h.setActive(true))
			r.Patch("/{id}/deactivate", h.setActive(false))
		})
	})
	return r
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	District string `json:"district"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		httputil.WriteError(w, workflow.AsValidationError(err))
		return
	}

	u := &User{
		Username: body.Username,
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		District: body.District,
	}
	created, err := h.svc.Register(r.Context(), u, body.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, created.Sanitized(), "User registered successfully")
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		httputil.WriteError(w, workflow.AsValidationError(err))
		return
	}

	token, u, err := h.svc.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, loginResponse{Token: token, User: u.Sanitized()}, "Login successful")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Me(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u.Sanitized())
}

func (h *Handler) setActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := h.svc.SetActive(r.Context(), chi.URLParam(r, "id"), active)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		msg := "User deactivated successfully"
		if active {
			msg = "User activated successfully"
		}
		httputil.WriteMessage(w, http.StatusOK, u.Sanitized(), msg)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := docstore.Query{Limit: 50, Page: 1}
	equals := map[string]string{}
	if v := params.Get("role"); v != "" {
		equals["role"] = v
	}
	if v := params.Get("district"); v != "" {
		equals["district"] = v
	}
	if len(equals) > 0 {
		q.Equals = equals
	}

	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]*User, 0, len(page.Items))
	for _, u := range page.Items {
		out = append(out, u.Sanitized())
	}
	httputil.WriteList(w, out, httputil.Pagination{Total: page.Total, Page: q.Page, Limit: q.Limit, Pages: (page.Total + q.Limit - 1) / q.Limit})
}
