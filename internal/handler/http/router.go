package http

import (
	"net/http"

	"product-catalog/api"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter mounts the product routes under /api/products plus the banner,
// health, and documentation endpoints. Bulk routes are registered ahead of
// the /{id} routes so "bulk" is never read as an identifier.
func NewRouter(ph *ProductHandler, hh *HealthHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{Success: true, Message: "API is running..."})
	}).Methods(http.MethodGet)

	router.HandleFunc("/healthz", hh.Check).Methods(http.MethodGet)

	router.HandleFunc("/api/products/bulk", ph.CreateBulk).Methods(http.MethodPost)
	router.HandleFunc("/api/products/bulk", ph.UpdateBulk).Methods(http.MethodPut)
	router.HandleFunc("/api/products", ph.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/products", ph.List).Methods(http.MethodGet)
	router.HandleFunc("/api/products", ph.DeleteBulk).Methods(http.MethodDelete)
	router.HandleFunc("/api/products/{id}", ph.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/api/products/{id}", ph.Update).Methods(http.MethodPut)
	router.HandleFunc("/api/products/{id}", ph.Delete).Methods(http.MethodDelete)

	// Swagger UI over the static OpenAPI document.
	router.HandleFunc("/api-docs/swagger.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(api.SwaggerJSON)
	}).Methods(http.MethodGet)
	router.PathPrefix("/api-docs/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/api-docs/swagger.json"),
	))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Response{
			Success: false,
			Message: "API not found. Please check our documentation for more information at /api-docs/",
		})
	})

	return router
}
