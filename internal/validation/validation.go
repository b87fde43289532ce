// Package validation checks product payloads against the catalog schema,
// collecting every violation instead of failing fast.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"product-catalog/internal/apperror"
	"product-catalog/internal/model"

	"github.com/go-playground/validator/v10"
)

var alphanumSpaceRe = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)

type Validation struct {
	validator *validator.Validate
}

func New() *Validation {
	v := validator.New()
	_ = v.RegisterValidation("alphanumspace", validateAlphanumSpace)

	// Report violations under the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validation{validator: v}
}

func validateAlphanumSpace(fl validator.FieldLevel) bool {
	return alphanumSpaceRe.MatchString(fl.Field().String())
}

// ValidateInput checks a full create payload and returns every violation.
// A nil return means the payload passed.
func (v *Validation) ValidateInput(in *model.ProductInput) []apperror.FieldError {
	return v.collect(v.validator.Struct(in))
}

// ValidateUpdate checks only the supplied fields of a partial payload.
// A supplied category re-arms the conditional rules: switching to
// electronics without variants (or clothing without size) is rejected.
func (v *Validation) ValidateUpdate(upd *model.ProductUpdate) []apperror.FieldError {
	errs := v.collect(v.validator.Struct(upd))

	if upd.Category != nil {
		switch *upd.Category {
		case model.CategoryElectronics:
			if upd.Variants == nil {
				errs = append(errs, apperror.FieldError{Field: "variants", Message: "Variants are required for electronics."})
			}
		case model.CategoryClothing:
			if upd.Size == nil {
				errs = append(errs, apperror.FieldError{Field: "size", Message: "Size is required for clothing."})
			}
		}
	}

	return errs
}

// ValidateBulkUpdate validates each item of a bulk update payload, attaching
// the item id to its violation report. The id itself is only checked for
// existence later, against the store.
func (v *Validation) ValidateBulkUpdate(items []model.BulkUpdateItem) []apperror.ItemErrors {
	var reports []apperror.ItemErrors
	for i := range items {
		if errs := v.ValidateUpdate(&items[i].UpdateData); len(errs) > 0 {
			reports = append(reports, apperror.ItemErrors{ID: items[i].ID, Errors: errs})
		}
	}
	return reports
}

func (v *Validation) collect(err error) []apperror.FieldError {
	if err == nil {
		return nil
	}

	var out []apperror.FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, apperror.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

// message maps a violated rule to the user-facing text of the catalog schema.
func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		switch fe.Tag() {
		case "required":
			return "Product name is required."
		case "min":
			return "Product name must be at least 3 characters long."
		case "alphanumspace":
			return "Product name must only contain letters, numbers, and spaces."
		}
	case "brand":
		return "Brand is required."
	case "seller":
		return "Seller is required."
	case "product_description":
		return "Product description must be at least 10 characters long."
	case "price":
		if fe.Tag() == "required" {
			return "Price is required."
		}
		return "Price cannot be negative."
	case "discount":
		if fe.Tag() == "lte" {
			return "Discount cannot be more than 100."
		}
		return "Discount cannot be negative."
	case "ratings":
		switch fe.Tag() {
		case "required":
			return "Ratings is required."
		case "gte":
			return "Ratings cannot be less than 0."
		case "lte":
			return "Ratings cannot be more than 5."
		}
	case "cod_availability":
		return "COD availability is required."
	case "total_stock_availability":
		if fe.Tag() == "required" {
			return "Total stock availability is required."
		}
		return "Total stock cannot be negative."
	case "category":
		if fe.Tag() == "required" {
			return "Category is required."
		}
		return "Category must be one of 'electronics', 'clothing', or 'others'."
	case "isFeatured":
		return "Featured status is required."
	case "isActive":
		return "Active status is required."
	case "variants":
		return "Variants are required for electronics."
	case "colours":
		return "Colours are required."
	case "size":
		return "Size is required for clothing."
	}

	return fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag())
}
