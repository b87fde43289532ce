package service

import (
	"context"
	"errors"
	"strings"

	"product-catalog/internal/apperror"
	"product-catalog/internal/logger"
	"product-catalog/internal/model"
	"product-catalog/internal/query"
	"product-catalog/internal/repository"
	"product-catalog/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

const (
	msgDuplicateName  = "Product name must be unique. This name is already in use."
	msgNotFound       = "Product not found."
	msgInvalidID      = "Invalid ID format."
	msgCreated        = "Created successfully"
	msgUpdated        = "Updated successfully"
	msgDeleted        = "Deleted successfully"
	msgBulkDuplicate  = "Product name must be unique."
	msgBulkNotFound   = "Product not found"
	msgBulkDeleteFail = "Invalid ID format or error during deletion"
)

type ProductService struct {
	repo      repository.ProductRepository
	validator *validation.Validation
}

var ProductServiceTracer = otel.Tracer("ProductService")

func NewProductService(repo repository.ProductRepository, validator *validation.Validation) *ProductService {
	return &ProductService{repo: repo, validator: validator}
}

// Create validates the payload, runs the uniqueness pre-flight, and inserts.
// The unique index backs the pre-flight up: a duplicate-key error from the
// store maps to the same duplicate error.
func (s *ProductService) Create(ctx context.Context, in *model.ProductInput) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Create")
	defer span.End()
	logger.Info(ctx, "Service")

	if errs := s.validator.ValidateInput(in); len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}

	if err := s.checkUniqueName(ctx, in.Name, primitive.NilObjectID); err != nil {
		return nil, err
	}

	product := in.ToProduct()
	if err := s.repo.Insert(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, apperror.Duplicate("name", msgDuplicateName)
		}
		return nil, apperror.Internal(err.Error())
	}
	return product, nil
}

// CreateMany processes each item independently: one item's duplicate name or
// store error lands in the failed list and never aborts the rest.
func (s *ProductService) CreateMany(ctx context.Context, inputs []model.ProductInput) (*model.BulkCreateResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.CreateMany")
	defer span.End()
	logger.Info(ctx, "Service")

	if len(inputs) == 0 {
		return nil, apperror.BadRequest("Invalid or empty array of products provided.")
	}

	details := model.BulkDetails{Success: []model.BulkSuccess{}, Failed: []model.BulkFailure{}}

	for i := range inputs {
		in := inputs[i]

		if errs := s.validator.ValidateInput(&in); len(errs) > 0 {
			details.Failed = append(details.Failed, model.BulkFailure{Product: &in, Message: joinFieldErrors(errs)})
			continue
		}

		if _, err := s.repo.FindByName(ctx, in.Name, primitive.NilObjectID); err == nil {
			details.Failed = append(details.Failed, model.BulkFailure{Product: &in, Message: msgBulkDuplicate})
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			details.Failed = append(details.Failed, model.BulkFailure{Product: &in, Message: err.Error()})
			continue
		}

		product := in.ToProduct()
		if err := s.repo.Insert(ctx, product); err != nil {
			msg := err.Error()
			if errors.Is(err, repository.ErrDuplicateName) {
				msg = msgBulkDuplicate
			}
			details.Failed = append(details.Failed, model.BulkFailure{Product: &in, Message: msg})
			continue
		}

		details.Success = append(details.Success, model.BulkSuccess{
			ID:      product.ID.Hex(),
			Name:    product.Name,
			Message: msgCreated,
		})
	}

	return &model.BulkCreateResult{
		Created: len(details.Success),
		Failed:  len(details.Failed),
		Details: details,
	}, nil
}

// List returns one page of matching products plus the full-filter total.
// The total is a separate count query and may lag the page under
// concurrent writes.
func (s *ProductService) List(ctx context.Context, params query.Params) ([]model.Product, int64, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.List")
	defer span.End()
	logger.Info(ctx, "Service")

	products, err := s.repo.Find(ctx, params)
	if err != nil {
		return nil, 0, apperror.Internal(err.Error())
	}

	total, err := s.repo.Count(ctx, params)
	if err != nil {
		return nil, 0, apperror.Internal(err.Error())
	}

	return products, total, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetByID")
	defer span.End()
	logger.Info(ctx, "Service")

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.BadRequest(msgInvalidID)
	}

	product, err := s.repo.FindByID(ctx, objID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgNotFound)
	}
	if err != nil {
		return nil, apperror.Internal(err.Error())
	}
	return product, nil
}

// Update replaces only the supplied fields and bumps updatedAt. When the
// update carries a new name, the uniqueness pre-flight excludes the record
// being updated.
func (s *ProductService) Update(ctx context.Context, id string, upd *model.ProductUpdate) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Update")
	defer span.End()
	logger.Info(ctx, "Service")

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.BadRequest(msgInvalidID)
	}

	if errs := s.validator.ValidateUpdate(upd); len(errs) > 0 {
		return nil, apperror.Validation(errs)
	}

	if upd.Name != nil {
		if err := s.checkUniqueName(ctx, *upd.Name, objID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateByID(ctx, objID, upd.Fields())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgNotFound)
	}
	if errors.Is(err, repository.ErrDuplicateName) {
		return nil, apperror.Duplicate("name", msgDuplicateName)
	}
	if err != nil {
		return nil, apperror.Internal(err.Error())
	}
	return updated, nil
}

func (s *ProductService) UpdateMany(ctx context.Context, items []model.BulkUpdateItem) (*model.BulkUpdateResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.UpdateMany")
	defer span.End()
	logger.Info(ctx, "Service")

	if len(items) == 0 {
		return nil, apperror.BadRequest("Invalid or empty array of updates provided.")
	}

	details := model.BulkDetails{Success: []model.BulkSuccess{}, Failed: []model.BulkFailure{}}

	for i := range items {
		item := items[i]

		objID, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			details.Failed = append(details.Failed, model.BulkFailure{ID: item.ID, Message: msgInvalidID})
			continue
		}

		if errs := s.validator.ValidateUpdate(&item.UpdateData); len(errs) > 0 {
			details.Failed = append(details.Failed, model.BulkFailure{ID: item.ID, Message: joinFieldErrors(errs)})
			continue
		}

		updated, err := s.repo.UpdateByID(ctx, objID, item.UpdateData.Fields())
		if err != nil {
			msg := err.Error()
			switch {
			case errors.Is(err, repository.ErrNotFound):
				msg = msgBulkNotFound
			case errors.Is(err, repository.ErrDuplicateName):
				msg = msgBulkDuplicate
			}
			details.Failed = append(details.Failed, model.BulkFailure{ID: item.ID, Message: msg})
			continue
		}

		details.Success = append(details.Success, model.BulkSuccess{
			ID:      item.ID,
			Name:    updated.Name,
			Message: msgUpdated,
		})
	}

	return &model.BulkUpdateResult{
		Updated: len(details.Success),
		Failed:  len(details.Failed),
		Details: details,
	}, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Delete")
	defer span.End()
	logger.Info(ctx, "Service")

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperror.BadRequest(msgInvalidID)
	}

	_, err = s.repo.DeleteByID(ctx, objID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(msgNotFound)
	}
	if err != nil {
		return apperror.Internal(err.Error())
	}
	return nil
}

func (s *ProductService) DeleteMany(ctx context.Context, ids []string) (*model.BulkDeleteResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.DeleteMany")
	defer span.End()
	logger.Info(ctx, "Service")

	if len(ids) == 0 {
		return nil, apperror.BadRequest("Invalid IDs provided.")
	}

	details := model.BulkDetails{Success: []model.BulkSuccess{}, Failed: []model.BulkFailure{}}

	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			details.Failed = append(details.Failed, model.BulkFailure{ID: id, Message: msgBulkDeleteFail})
			continue
		}

		if _, err := s.repo.DeleteByID(ctx, objID); err != nil {
			msg := msgBulkDeleteFail
			if errors.Is(err, repository.ErrNotFound) {
				msg = msgBulkNotFound
			}
			details.Failed = append(details.Failed, model.BulkFailure{ID: id, Message: msg})
			continue
		}

		details.Success = append(details.Success, model.BulkSuccess{ID: id, Message: msgDeleted})
	}

	return &model.BulkDeleteResult{
		Deleted: len(details.Success),
		Failed:  len(details.Failed),
		Details: details,
	}, nil
}

// checkUniqueName is the pre-flight read producing the friendly duplicate
// message before the store's unique index gets the final say.
func (s *ProductService) checkUniqueName(ctx context.Context, name string, exclude primitive.ObjectID) error {
	_, err := s.repo.FindByName(ctx, name, exclude)
	if err == nil {
		return apperror.Duplicate("name", msgDuplicateName)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return apperror.Internal("Internal server error during unique validation")
	}
	return nil
}

func joinFieldErrors(errs []apperror.FieldError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, " ")
}
