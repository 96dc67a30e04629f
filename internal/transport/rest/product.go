package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndmitriev/catalog-service/internal/domain"
	"github.com/ndmitriev/catalog-service/internal/service/product"
)

type productService interface {
	Create(ctx context.Context, input product.CreateInput) (*product.WriteResult, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input product.UpdateInput) (*product.WriteResult, error)
	Delete(ctx context.Context, id uuid.UUID) (*product.DeleteResult, error)
	List(ctx context.Context, input product.ListInput) ([]domain.Product, error)
	Count(ctx context.Context, input product.ListInput) (int, error)
	SearchText(ctx context.Context, q string, size int) ([]domain.Product, error)
	SearchByCategory(ctx context.Context, category string) ([]domain.Product, error)
	SearchByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.Product, error)
	Reindex(ctx context.Context) (int, error)
	ClearCache(ctx context.Context) (int, error)
}

// ProductHandler serves the product REST endpoints.
type ProductHandler struct {
	svc productService
	log *slog.Logger
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(svc productService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		svc: svc,
		log: logger.With("handler", "product"),
	}
}

// Register mounts all product routes on the mux. Literal segments are
// registered before the {id} pattern so "search", "reindex", "cache" and
// "stats" are not swallowed by it.
func (h *ProductHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/products", h.List)
	mux.HandleFunc("POST /api/v1/products", h.Create)
	mux.HandleFunc("GET /api/v1/products/search/text", h.SearchText)
	mux.HandleFunc("GET /api/v1/products/search/category/{category}", h.SearchByCategory)
	mux.HandleFunc("GET /api/v1/products/search/price", h.SearchByPriceRange)
	mux.HandleFunc("POST /api/v1/products/reindex", h.Reindex)
	mux.HandleFunc("DELETE /api/v1/products/cache", h.ClearCache)
	mux.HandleFunc("GET /api/v1/products/stats/count", h.Count)
	mux.HandleFunc("GET /api/v1/products/{id}", h.Get)
	mux.HandleFunc("PUT /api/v1/products/{id}", h.Update)
	mux.HandleFunc("DELETE /api/v1/products/{id}", h.Delete)
}

type createRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	IsActive    *bool           `json:"is_active"`
}

type updateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	Category    *string          `json:"category"`
	IsActive    *bool            `json:"is_active"`
}

type productResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       string    `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type stepFailureResponse struct {
	Backend string `json:"backend"`
	Step    string `json:"step"`
	Error   string `json:"error"`
}

type writeResponse struct {
	productResponse
	PartialFailures []stepFailureResponse `json:"partial_failures,omitempty"`
}

// Create handles POST /api/v1/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Create(r.Context(), product.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toWriteResponse(res))
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

// Update handles PUT /api/v1/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.svc.Update(r.Context(), id, product.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toWriteResponse(res))
}

// Delete handles DELETE /api/v1/products/{id}. Responds 204 even when an
// advisory eviction failed; the store row is gone either way.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if _, err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/v1/products?skip=&limit=&category=&is_active=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	input := product.ListInput{}

	q := r.URL.Query()
	if v := q.Get("category"); v != "" {
		input.Category = &v
	}
	if v := q.Get("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid is_active")
			return
		}
		input.IsActive = &b
	}

	var ok bool
	if input.Skip, ok = parseIntQuery(w, q.Get("skip"), "skip"); !ok {
		return
	}
	if input.Limit, ok = parseIntQuery(w, q.Get("limit"), "limit"); !ok {
		return
	}

	products, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductList(products))
}

// Count handles GET /api/v1/products/stats/count.
func (h *ProductHandler) Count(w http.ResponseWriter, r *http.Request) {
	input := product.ListInput{}
	if v := r.URL.Query().Get("category"); v != "" {
		input.Category = &v
	}
	if v := r.URL.Query().Get("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid is_active")
			return
		}
		input.IsActive = &b
	}

	total, err := h.svc.Count(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"total": total})
}

// SearchText handles GET /api/v1/products/search/text?q=&size=.
func (h *ProductHandler) SearchText(w http.ResponseWriter, r *http.Request) {
	size, ok := parseIntQuery(w, r.URL.Query().Get("size"), "size")
	if !ok {
		return
	}

	products, err := h.svc.SearchText(r.Context(), r.URL.Query().Get("q"), size)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductList(products))
}

// SearchByCategory handles GET /api/v1/products/search/category/{category}.
func (h *ProductHandler) SearchByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.SearchByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductList(products))
}

// SearchByPriceRange handles GET /api/v1/products/search/price?min_price=&max_price=.
func (h *ProductHandler) SearchByPriceRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minPrice, err := strconv.ParseFloat(q.Get("min_price"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid min_price")
		return
	}
	maxPrice, err := strconv.ParseFloat(q.Get("max_price"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid max_price")
		return
	}

	products, err := h.svc.SearchByPriceRange(r.Context(), minPrice, maxPrice)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductList(products))
}

// Reindex handles POST /api/v1/products/reindex.
func (h *ProductHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	indexed, err := h.svc.Reindex(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"indexed": indexed})
}

// ClearCache handles DELETE /api/v1/products/cache.
func (h *ProductHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.svc.ClearCache(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return uuid.Nil, false
	}
	return id, true
}

func parseIntQuery(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		Category:    p.Category,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductList(products []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toWriteResponse(res *product.WriteResult) writeResponse {
	out := writeResponse{productResponse: toProductResponse(*res.Product)}
	for _, f := range res.Partial {
		out.PartialFailures = append(out.PartialFailures, stepFailureResponse{
			Backend: f.Backend,
			Step:    f.Step,
			Error:   f.Err.Error(),
		})
	}
	return out
}
