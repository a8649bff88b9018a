package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shoppee/shoppee-backend/internal/catalog"
)

type catalogHandler struct {
	products   *catalog.ProductRepo
	categories *catalog.CategoryRepo
	brands     *catalog.BrandRepo
	flashSales *catalog.FlashSaleRepo
}

// products

func (h *catalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if !decode(w, r, &p) {
		return
	}
	if p.Name == "" || p.CategoryID == "" || p.Price <= 0 {
		writeMessage(w, http.StatusBadRequest, "name, category and a positive price are required")
		return
	}
	if p.Discount < 0 || p.Discount > 100 {
		writeMessage(w, http.StatusBadRequest, "discount must be between 0 and 100")
		return
	}
	if err := h.products.Create(r.Context(), &p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *catalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *catalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type productUpdateRequest struct {
	Name         *string           `json:"name"`
	Description  *string           `json:"description"`
	CategoryID   *string           `json:"category"`
	BrandID      *string           `json:"brand"`
	Price        *float64          `json:"price"`
	Discount     *float64          `json:"discount"`
	Images       []string          `json:"images"`
	Variants     []catalog.Variant `json:"variants"`
	Rating       *float64          `json:"rating"`
	ReviewsCount *int              `json:"reviewsCount"`
	IsFeatured   *bool             `json:"isFeatured"`
}

func (h *catalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Discount != nil && (*req.Discount < 0 || *req.Discount > 100) {
		writeMessage(w, http.StatusBadRequest, "discount must be between 0 and 100")
		return
	}
	p, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), catalog.ProductUpdate{
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		BrandID:      req.BrandID,
		Price:        req.Price,
		Discount:     req.Discount,
		Images:       req.Images,
		Variants:     req.Variants,
		Rating:       req.Rating,
		ReviewsCount: req.ReviewsCount,
		IsFeatured:   req.IsFeatured,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *catalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "product deleted")
}

func (h *catalogHandler) newArrivals(w http.ResponseWriter, r *http.Request) {
	list, err := h.products.NewArrivals(r.Context(), 10)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// categories

func (h *catalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var c catalog.Category
	if !decode(w, r, &c) {
		return
	}
	if c.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := h.categories.Create(r.Context(), &c); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *catalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.categories.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type categoryUpdateRequest struct {
	Name     *string `json:"name"`
	ParentID *string `json:"parent"`
	Image    *string `json:"image"`
}

func (h *catalogHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.categories.Update(r.Context(), chi.URLParam(r, "id"), catalog.CategoryUpdate{
		Name:     req.Name,
		ParentID: req.ParentID,
		Image:    req.Image,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *catalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "category deleted")
}

// brands

func (h *catalogHandler) createBrand(w http.ResponseWriter, r *http.Request) {
	var b catalog.Brand
	if !decode(w, r, &b) {
		return
	}
	if b.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := h.brands.Create(r.Context(), &b); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *catalogHandler) listBrands(w http.ResponseWriter, r *http.Request) {
	list, err := h.brands.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type brandUpdateRequest struct {
	Name *string `json:"name"`
	Logo *string `json:"logo"`
}

func (h *catalogHandler) updateBrand(w http.ResponseWriter, r *http.Request) {
	var req brandUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.brands.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Logo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *catalogHandler) deleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := h.brands.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "brand deleted")
}

// flash sales

func (h *catalogHandler) createFlashSale(w http.ResponseWriter, r *http.Request) {
	var fs catalog.FlashSale
	if !decode(w, r, &fs) {
		return
	}
	if fs.ProductID == "" || fs.SalePrice <= 0 {
		writeMessage(w, http.StatusBadRequest, "product and a positive salePrice are required")
		return
	}
	if err := h.flashSales.Create(r.Context(), &fs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fs)
}

// listFlashSales serves both the admin list and the public
// `?active=true` view.
func (h *catalogHandler) listFlashSales(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	list, err := h.flashSales.List(r.Context(), activeOnly, time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *catalogHandler) getFlashSale(w http.ResponseWriter, r *http.Request) {
	fs, err := h.flashSales.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

type flashSaleUpdateRequest struct {
	ProductID *string    `json:"product"`
	SalePrice *float64   `json:"salePrice"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

func (h *catalogHandler) updateFlashSale(w http.ResponseWriter, r *http.Request) {
	var req flashSaleUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	fs, err := h.flashSales.Update(r.Context(), chi.URLParam(r, "id"), catalog.FlashSaleUpdate{
		ProductID: req.ProductID,
		SalePrice: req.SalePrice,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fs)
}

func (h *catalogHandler) deleteFlashSale(w http.ResponseWriter, r *http.Request) {
	if err := h.flashSales.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "flash sale deleted")
}
