package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	handler "product-catalog/internal/handler/http"
	"product-catalog/internal/model"
	"product-catalog/internal/query"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"
	"product-catalog/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Insert(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	if args.Error(0) == nil {
		product.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *mockRepo) Find(ctx context.Context, params query.Params) ([]model.Product, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockRepo) Count(ctx context.Context, params query.Params) (int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockRepo) FindByName(ctx context.Context, name string, exclude primitive.ObjectID) (*model.Product, error) {
	args := m.Called(ctx, name, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*model.Product, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// envelope mirrors the response shape for decoding in assertions.
type envelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    json.RawMessage            `json:"data"`
	Errors  []map[string]string        `json:"errors"`
	Results map[string]json.RawMessage `json:"results"`
	Total   *int64                     `json:"total"`
	Page    *int64                     `json:"page"`
	Limit   *int64                     `json:"limit"`
}

func newServer(repo repository.ProductRepository) http.Handler {
	svc := service.NewProductService(repo, validation.New())
	return handler.NewRouter(
		handler.NewProductHandler(svc),
		handler.NewHealthHandler(service.NewHealthService(nil)),
	)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func validPayload(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":                     name,
		"brand":                    "Acme",
		"seller":                   "Acme Store",
		"price":                    19.99,
		"ratings":                  4.5,
		"cod_availability":         true,
		"total_stock_availability": 10,
		"category":                 "others",
		"isFeatured":               false,
		"isActive":                 true,
		"colours":                  []string{"red"},
	}
}

func TestCreateProduct(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	repo.On("FindByName", mock.Anything, "Gadget One", primitive.NilObjectID).
		Return(nil, repository.ErrNotFound).Once()
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*model.Product")).
		Return(nil).Once()

	rec, env := doJSON(t, srv, http.MethodPost, "/api/products", validPayload("Gadget One"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Product created successfully.", env.Message)

	var created model.Product
	assert.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Gadget One", created.Name)
	repo.AssertExpectations(t)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	payload := validPayload("Gadget One")
	payload["category"] = "electronics" // variants now mandatory

	rec, env := doJSON(t, srv, http.MethodPost, "/api/products", payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Len(t, env.Errors, 1)
	assert.Equal(t, "variants", env.Errors[0]["field"])
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateProduct_DuplicateName(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	repo.On("FindByName", mock.Anything, "Gadget One", primitive.NilObjectID).
		Return(&model.Product{Name: "Gadget One"}, nil).Once()

	rec, env := doJSON(t, srv, http.MethodPost, "/api/products", validPayload("Gadget One"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Duplicate field error", env.Message)
	assert.Equal(t, "name", env.Errors[0]["field"])
	repo.AssertExpectations(t)
}

func TestCreateProduct_MalformedBody(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductByID(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	id := primitive.NewObjectID()
	repo.On("FindByID", mock.Anything, id).
		Return(&model.Product{ID: id, Name: "Gadget One"}, nil).Once()

	rec, env := doJSON(t, srv, http.MethodGet, "/api/products/"+id.Hex(), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	repo.AssertExpectations(t)
}

func TestGetProductByID_InvalidID(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	rec, env := doJSON(t, srv, http.MethodGet, "/api/products/not-an-id", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	// Rejected before any store access
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetProductByID_NotFoundRespondsExactlyOnce(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	id := primitive.NewObjectID()
	repo.On("FindByID", mock.Anything, id).
		Return(nil, repository.ErrNotFound).Once()

	rec, env := doJSON(t, srv, http.MethodGet, "/api/products/"+id.Hex(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Product not found.", env.Message)

	// A single JSON document in the body: no trailing success response.
	dec := json.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
	var first, second interface{}
	assert.NoError(t, dec.Decode(&first))
	assert.Error(t, dec.Decode(&second))
	repo.AssertExpectations(t)
}

func TestListProducts(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	page := []model.Product{{Name: "P1"}, {Name: "P2"}}
	repo.On("Find", mock.Anything, mock.AnythingOfType("query.Params")).Return(page, nil).Once()
	repo.On("Count", mock.Anything, mock.AnythingOfType("query.Params")).Return(int64(25), nil).Once()

	rec, env := doJSON(t, srv, http.MethodGet, "/api/products?page=2&limit=10&sort=priceAsc", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, int64(25), *env.Total)
	assert.Equal(t, int64(2), *env.Page)
	assert.Equal(t, int64(10), *env.Limit)

	// The parsed params reach the store intact.
	params := repo.Calls[0].Arguments.Get(1).(query.Params)
	assert.Equal(t, int64(10), params.Skip())
	assert.Equal(t, "priceAsc", params.Sort)
	repo.AssertExpectations(t)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	id := primitive.NewObjectID()
	repo.On("UpdateByID", mock.Anything, id, map[string]interface{}{"price": 5.0}).
		Return(nil, repository.ErrNotFound).Once()

	rec, env := doJSON(t, srv, http.MethodPut, "/api/products/"+id.Hex(), map[string]interface{}{"price": 5.0})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	repo.AssertExpectations(t)
}

func TestDeleteProduct_NotFoundRespondsExactlyOnce(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	id := primitive.NewObjectID()
	repo.On("DeleteByID", mock.Anything, id).
		Return(nil, repository.ErrNotFound).Once()

	rec, env := doJSON(t, srv, http.MethodDelete, "/api/products/"+id.Hex(), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	dec := json.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
	var first, second interface{}
	assert.NoError(t, dec.Decode(&first))
	assert.Error(t, dec.Decode(&second))
	repo.AssertExpectations(t)
}

func TestBulkCreate_PartialSuccess(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	repo.On("FindByName", mock.Anything, "Fresh Product", primitive.NilObjectID).
		Return(nil, repository.ErrNotFound).Once()
	repo.On("FindByName", mock.Anything, "Taken Product", primitive.NilObjectID).
		Return(&model.Product{Name: "Taken Product"}, nil).Once()
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*model.Product")).
		Return(nil).Once()

	body := []map[string]interface{}{validPayload("Fresh Product"), validPayload("Taken Product")}
	rec, env := doJSON(t, srv, http.MethodPost, "/api/products/bulk", body)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var created, failed int
	assert.NoError(t, json.Unmarshal(env.Results["created"], &created))
	assert.NoError(t, json.Unmarshal(env.Results["failed"], &failed))
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, failed)
	repo.AssertExpectations(t)
}

func TestBulkCreate_EmptyArray(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	rec, env := doJSON(t, srv, http.MethodPost, "/api/products/bulk", []map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid or empty array of products provided.", env.Message)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestBulkUpdate_RoutesToBulkNotID(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	id := primitive.NewObjectID()
	repo.On("UpdateByID", mock.Anything, id, map[string]interface{}{"price": 5.0}).
		Return(&model.Product{ID: id, Name: "Gadget One"}, nil).Once()

	body := []map[string]interface{}{
		{"id": id.Hex(), "updateData": map[string]interface{}{"price": 5.0}},
	}
	rec, env := doJSON(t, srv, http.MethodPut, "/api/products/bulk", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var updated int
	assert.NoError(t, json.Unmarshal(env.Results["updated"], &updated))
	assert.Equal(t, 1, updated)
	repo.AssertExpectations(t)
}

func TestBulkDelete(t *testing.T) {
	repo := new(mockRepo)
	srv := newServer(repo)

	okID := primitive.NewObjectID()
	missingID := primitive.NewObjectID()

	repo.On("DeleteByID", mock.Anything, okID).
		Return(&model.Product{ID: okID}, nil).Once()
	repo.On("DeleteByID", mock.Anything, missingID).
		Return(nil, repository.ErrNotFound).Once()

	body := map[string]interface{}{"ids": []string{okID.Hex(), missingID.Hex()}}
	rec, env := doJSON(t, srv, http.MethodDelete, "/api/products", body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var deleted, failed int
	assert.NoError(t, json.Unmarshal(env.Results["deleted"], &deleted))
	assert.NoError(t, json.Unmarshal(env.Results["failed"], &failed))
	assert.Equal(t, 1, deleted)
	assert.Equal(t, 1, failed)
	repo.AssertExpectations(t)
}

func TestRootAndNotFound(t *testing.T) {
	srv := newServer(new(mockRepo))

	rec, env := doJSON(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, env = doJSON(t, srv, http.MethodGet, "/no/such/route", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestSwaggerDocumentServed(t *testing.T) {
	srv := newServer(new(mockRepo))

	req := httptest.NewRequest(http.MethodGet, "/api-docs/swagger.json", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var doc map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc, "paths")
}
