package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"product-catalog/internal/apperror"
	"product-catalog/internal/logger"
	"product-catalog/internal/model"
	"product-catalog/internal/query"
	"product-catalog/internal/service"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
)

type ProductHandler struct {
	service *service.ProductService
}

var HttpProductHandlerTracer = otel.Tracer("HttpProductHandler")

func NewProductHandler(service *service.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Create")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.Create")

	var input model.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(ctx, w, apperror.BadRequest("Invalid request payload."))
		return
	}

	product, err := h.service.Create(ctx, &input)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info(ctx, "Product created", slog.String("name", product.Name))
	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    product,
		Message: "Product created successfully.",
	})
}

func (h *ProductHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.CreateBulk")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.CreateBulk")

	var inputs []model.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		respondError(ctx, w, apperror.BadRequest("Invalid or empty array of products provided."))
		return
	}

	results, err := h.service.CreateMany(ctx, inputs)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info(ctx, "Bulk create finished",
		slog.Int("created", results.Created),
		slog.Int("failed", results.Failed),
	)
	writeJSON(w, http.StatusCreated, Response{Success: true, Results: results})
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.List")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.List")

	params := query.Parse(r.URL.Query())

	products, total, err := h.service.List(ctx, params)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info(ctx, "Products fetched",
		slog.Int("count", len(products)),
		slog.Int64("total", total),
	)
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    products,
		Total:   &total,
		Page:    &params.Page,
		Limit:   &params.Limit,
	})
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.GetByID")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.GetByID")

	product, err := h.service.GetByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: product})
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Update")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.Update")

	var upd model.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(ctx, w, apperror.BadRequest("Invalid request payload."))
		return
	}

	product, err := h.service.Update(ctx, mux.Vars(r)["id"], &upd)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
		Message: "Product updated successfully.",
	})
}

func (h *ProductHandler) UpdateBulk(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.UpdateBulk")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.UpdateBulk")

	var items []model.BulkUpdateItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		respondError(ctx, w, apperror.BadRequest("Invalid or empty array of updates provided."))
		return
	}

	results, err := h.service.UpdateMany(ctx, items)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info(ctx, "Bulk update finished",
		slog.Int("updated", results.Updated),
		slog.Int("failed", results.Failed),
	)
	writeJSON(w, http.StatusOK, Response{Success: true, Results: results})
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Delete")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.Delete")

	if err := h.service.Delete(ctx, mux.Vars(r)["id"]); err != nil {
		respondError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product deleted successfully.",
	})
}

func (h *ProductHandler) DeleteBulk(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.DeleteBulk")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.DeleteBulk")

	var req model.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, apperror.BadRequest("Invalid IDs provided."))
		return
	}

	results, err := h.service.DeleteMany(ctx, req.IDs)
	if err != nil {
		respondError(ctx, w, err)
		return
	}

	logger.Info(ctx, "Bulk delete finished",
		slog.Int("deleted", results.Deleted),
		slog.Int("failed", results.Failed),
	)
	writeJSON(w, http.StatusOK, Response{Success: true, Results: results})
}
