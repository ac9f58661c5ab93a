package workflow

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"pragati/internal/docstore"
	"pragati/internal/platform/metrics"
	"pragati/internal/workflow/sequence"
	dErrors "pragati/pkg/domain-errors"
	"pragati/pkg/domain"
	"pragati/pkg/platform/httputil"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Handler exposes the shared REST surface for one entity module.
type Handler[T any, PT Ptr[T]] struct {
	svc      *Service[T, PT]
	spec     Spec[PT]
	validate *validator.Validate
}

// NewHandler builds the service and handler for one module.
func NewHandler[T any, PT Ptr[T]](spec Spec[PT], store docstore.Collection[PT], seq sequence.Generator, log *slog.Logger, m *metrics.Metrics) *Handler[T, PT] {
	return &Handler[T, PT]{
		svc:      NewService[T, PT](spec, store, seq, log, m),
		spec:     spec,
		validate: NewValidator(),
	}
}

// Service exposes the underlying service to module-specific routes.
func (h *Handler[T, PT]) Service() *Service[T, PT] {
	return h.svc
}

// Routes returns the module router. Extras attach module-specific endpoints
// on top of the shared surface.
func (h *Handler[T, PT]) Routes(extras ...func(chi.Router)) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.list)
	r.Post("/", h.create)
	if h.spec.StatsPath != "" {
		r.Get("/stats/"+h.spec.StatsPath, h.stats)
	}
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}/assign", h.assign)
	r.Post("/{id}/comments", h.addComment)

	for _, extra := range extras {
		extra(r)
	}
	return r
}

func (h *Handler[T, PT]) create(w http.ResponseWriter, r *http.Request) {
	var body T
	doc := PT(&body)
	if err := httputil.Decode(r, doc); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(doc); err != nil {
		httputil.WriteError(w, AsValidationError(err))
		return
	}

	created, err := h.svc.Create(r.Context(), doc)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	msg := h.spec.CreatedMsg
	if msg == "" {
		msg = h.spec.Label + " created successfully"
	}
	httputil.WriteMessage(w, http.StatusCreated, created, msg)
}

func (h *Handler[T, PT]) get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler[T, PT]) list(w http.ResponseWriter, r *http.Request) {
	q, err := h.queryFrom(r, true)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	page, err := h.svc.List(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	pages := 0
	if q.Limit > 0 {
		pages = (page.Total + q.Limit - 1) / q.Limit
	}
	httputil.WriteList(w, page.Items, httputil.Pagination{
		Total: page.Total,
		Page:  q.Page,
		Limit: q.Limit,
		Pages: pages,
	})
}

func (h *Handler[T, PT]) update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := httputil.Decode(r, &patch); err != nil {
		httputil.WriteError(w, err)
		return
	}
	doc, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, doc, h.spec.Label+" updated successfully")
}

type statusRequest struct {
	Status   string `json:"status" validate:"required"`
	Comments string `json:"comments"`
}

func (h *Handler[T, PT]) updateStatus(w http.ResponseWriter, r *http.Request) {
	var body statusRequest
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		httputil.WriteError(w, AsValidationError(err))
		return
	}
	doc, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status, body.Comments)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, doc, "Status updated successfully")
}

type assignRequest struct {
	AssignedTo domain.UserID `json:"assignedTo" validate:"required"`
}

func (h *Handler[T, PT]) assign(w http.ResponseWriter, r *http.Request) {
	var body assignRequest
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		httputil.WriteError(w, AsValidationError(err))
		return
	}
	doc, err := h.svc.Assign(r.Context(), chi.URLParam(r, "id"), body.AssignedTo)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, doc, h.spec.Label+" assigned successfully")
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *Handler[T, PT]) addComment(w http.ResponseWriter, r *http.Request) {
	var body commentRequest
	if err := httputil.Decode(r, &body); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		httputil.WriteError(w, AsValidationError(err))
		return
	}
	doc, _, err := h.svc.AddComment(r.Context(), chi.URLParam(r, "id"), body.Text)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusCreated, doc, "Comment added successfully")
}

func (h *Handler[T, PT]) remove(w http.ResponseWriter, r *http.Request) {
	retained, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	msg := h.spec.Label + " deleted successfully"
	if retained {
		msg = h.spec.Label + " closed successfully"
	}
	httputil.WriteMessage(w, http.StatusOK, nil, msg)
}

func (h *Handler[T, PT]) stats(w http.ResponseWriter, r *http.Request) {
	q, err := h.queryFrom(r, false)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out, err := h.svc.Stats(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// StatusAction returns a handler for shortcut transitions such as confirm,
// check-in or escalate: one fixed target status, optional comment body.
func (h *Handler[T, PT]) StatusAction(status, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Comments string `json:"comments"`
		}
		// The body is optional for shortcut actions.
		_ = httputil.Decode(r, &body)

		doc, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status, body.Comments)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteMessage(w, http.StatusOK, doc, message)
	}
}

// queryFrom builds the store query from URL parameters. Equality filters are
// restricted to the module's declared fields; unknown parameters are ignored.
func (h *Handler[T, PT]) queryFrom(r *http.Request, paged bool) (docstore.Query, error) {
	params := r.URL.Query()
	q := docstore.Query{}

	for _, field := range h.spec.FilterFields {
		if v := params.Get(paramName(field)); v != "" {
			if q.Equals == nil {
				q.Equals = make(map[string]string)
			}
			q.Equals[field] = v
		}
	}

	if h.spec.DateField != "" {
		if v := params.Get("startDate"); v != "" {
			t, err := parseDate(v, false)
			if err != nil {
				return docstore.Query{}, err
			}
			q.From = t
		}
		if v := params.Get("endDate"); v != "" {
			t, err := parseDate(v, true)
			if err != nil {
				return docstore.Query{}, err
			}
			q.To = t
		}
		if !q.From.IsZero() || !q.To.IsZero() {
			q.DateField = h.spec.DateField
		}
	}

	if paged {
		q.Page = positiveInt(params.Get("page"), 1)
		q.Limit = positiveInt(params.Get("limit"), defaultPageSize)
		if q.Limit > maxPageSize {
			q.Limit = maxPageSize
		}
	}
	return q, nil
}

// paramName maps a JSON field path to its query parameter, e.g. "sla.status"
// is filtered with ?slaStatus=.
func paramName(field string) string {
	head, rest, ok := strings.Cut(field, ".")
	if !ok {
		return field
	}
	if rest == "" {
		return head
	}
	return head + strings.ToUpper(rest[:1]) + rest[1:]
}

// parseDate accepts a bare date or a full timestamp. A bare end date is
// pushed to the end of its day so the range stays inclusive.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, dErrors.Newf(dErrors.CodeBadRequest, "invalid date %q", s)
	}
	return t, nil
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// NewValidator returns a validator that reports JSON field names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// AsValidationError converts validator output into the coded taxonomy with
// per-field detail.
func AsValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid payload")
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "oneof":
			fields[fe.Field()] = "must be one of " + fe.Param()
		case "email":
			fields[fe.Field()] = "must be a valid email address"
		default:
			fields[fe.Field()] = "failed " + fe.Tag() + " validation"
		}
	}
	return dErrors.Validation("validation failed", fields)
}
