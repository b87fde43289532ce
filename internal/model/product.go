package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category values a product may carry. Variants are mandatory for
// electronics, size is mandatory for clothing, colours always.
const (
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryOthers      = "others"
)

// Product is the catalog document as stored in the products collection.
type Product struct {
	ID                     primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name                   string             `json:"name" bson:"name"`
	Brand                  string             `json:"brand" bson:"brand"`
	Seller                 string             `json:"seller" bson:"seller"`
	ProductDescription     string             `json:"product_description,omitempty" bson:"product_description,omitempty"`
	Price                  float64            `json:"price" bson:"price"`
	Discount               float64            `json:"discount,omitempty" bson:"discount,omitempty"`
	Ratings                float64            `json:"ratings" bson:"ratings"`
	CodAvailability        bool               `json:"cod_availability" bson:"cod_availability"`
	TotalStockAvailability int                `json:"total_stock_availability" bson:"total_stock_availability"`
	Category               string             `json:"category" bson:"category"`
	IsFeatured             bool               `json:"isFeatured" bson:"isFeatured"`
	IsActive               bool               `json:"isActive" bson:"isActive"`
	Variants               []string           `json:"variants,omitempty" bson:"variants,omitempty"`
	Colours                []string           `json:"colours" bson:"colours"`
	Size                   []string           `json:"size,omitempty" bson:"size,omitempty"`
	CreatedAt              time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt              time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ProductInput is the create payload. Numeric and boolean fields are pointers
// so that a legitimate zero value (price 0, isActive false) is distinguishable
// from an absent field.
type ProductInput struct {
	Name                   string   `json:"name" validate:"required,min=3,alphanumspace"`
	Brand                  string   `json:"brand" validate:"required"`
	Seller                 string   `json:"seller" validate:"required"`
	ProductDescription     string   `json:"product_description,omitempty" validate:"omitempty,min=10"`
	Price                  *float64 `json:"price" validate:"required,gte=0"`
	Discount               *float64 `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Ratings                *float64 `json:"ratings" validate:"required,gte=0,lte=5"`
	CodAvailability        *bool    `json:"cod_availability" validate:"required"`
	TotalStockAvailability *int     `json:"total_stock_availability" validate:"required,gte=0"`
	Category               string   `json:"category" validate:"required,oneof=electronics clothing others"`
	IsFeatured             *bool    `json:"isFeatured" validate:"required"`
	IsActive               *bool    `json:"isActive" validate:"required"`
	Variants               []string `json:"variants,omitempty" validate:"required_if=Category electronics,omitempty,min=1,dive,min=1"`
	Colours                []string `json:"colours" validate:"required,min=1,dive,min=1"`
	Size                   []string `json:"size,omitempty" validate:"required_if=Category clothing,omitempty,min=1,dive,min=1"`
}

// ToProduct converts a validated input into a storable document.
// Timestamps and the identifier are assigned by the repository.
func (in *ProductInput) ToProduct() *Product {
	p := &Product{
		Name:               in.Name,
		Brand:              in.Brand,
		Seller:             in.Seller,
		ProductDescription: in.ProductDescription,
		Category:           in.Category,
		Variants:           in.Variants,
		Colours:            in.Colours,
		Size:               in.Size,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Discount != nil {
		p.Discount = *in.Discount
	}
	if in.Ratings != nil {
		p.Ratings = *in.Ratings
	}
	if in.CodAvailability != nil {
		p.CodAvailability = *in.CodAvailability
	}
	if in.TotalStockAvailability != nil {
		p.TotalStockAvailability = *in.TotalStockAvailability
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return p
}

// ProductUpdate is a partial payload: only supplied fields are validated and
// written. Slices stay nil when absent, so nil means "leave untouched".
type ProductUpdate struct {
	Name                   *string  `json:"name,omitempty" validate:"omitempty,min=3,alphanumspace"`
	Brand                  *string  `json:"brand,omitempty" validate:"omitempty,min=1"`
	Seller                 *string  `json:"seller,omitempty" validate:"omitempty,min=1"`
	ProductDescription     *string  `json:"product_description,omitempty" validate:"omitempty,min=10"`
	Price                  *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Discount               *float64 `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Ratings                *float64 `json:"ratings,omitempty" validate:"omitempty,gte=0,lte=5"`
	CodAvailability        *bool    `json:"cod_availability,omitempty"`
	TotalStockAvailability *int     `json:"total_stock_availability,omitempty" validate:"omitempty,gte=0"`
	Category               *string  `json:"category,omitempty" validate:"omitempty,oneof=electronics clothing others"`
	IsFeatured             *bool    `json:"isFeatured,omitempty"`
	IsActive               *bool    `json:"isActive,omitempty"`
	Variants               []string `json:"variants,omitempty" validate:"omitempty,min=1,dive,min=1"`
	Colours                []string `json:"colours,omitempty" validate:"omitempty,min=1,dive,min=1"`
	Size                   []string `json:"size,omitempty" validate:"omitempty,min=1,dive,min=1"`
}

// Fields returns the bson field name → value pairs of every supplied field,
// ready for a $set document.
func (u *ProductUpdate) Fields() map[string]interface{} {
	set := map[string]interface{}{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Brand != nil {
		set["brand"] = *u.Brand
	}
	if u.Seller != nil {
		set["seller"] = *u.Seller
	}
	if u.ProductDescription != nil {
		set["product_description"] = *u.ProductDescription
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Discount != nil {
		set["discount"] = *u.Discount
	}
	if u.Ratings != nil {
		set["ratings"] = *u.Ratings
	}
	if u.CodAvailability != nil {
		set["cod_availability"] = *u.CodAvailability
	}
	if u.TotalStockAvailability != nil {
		set["total_stock_availability"] = *u.TotalStockAvailability
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.IsFeatured != nil {
		set["isFeatured"] = *u.IsFeatured
	}
	if u.IsActive != nil {
		set["isActive"] = *u.IsActive
	}
	if u.Variants != nil {
		set["variants"] = u.Variants
	}
	if u.Colours != nil {
		set["colours"] = u.Colours
	}
	if u.Size != nil {
		set["size"] = u.Size
	}
	return set
}

// BulkUpdateItem is one entry of a PUT /bulk payload.
type BulkUpdateItem struct {
	ID         string        `json:"id"`
	UpdateData ProductUpdate `json:"updateData"`
}

// BulkDeleteRequest is the DELETE / payload.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkSuccess records one item that went through.
type BulkSuccess struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// BulkFailure records one item that did not. Create failures echo the
// offending payload, update/delete failures carry the identifier.
type BulkFailure struct {
	ID      string        `json:"id,omitempty"`
	Product *ProductInput `json:"product,omitempty"`
	Message string        `json:"message"`
}

// BulkDetails is the per-item breakdown returned by every bulk operation.
type BulkDetails struct {
	Success []BulkSuccess `json:"success"`
	Failed  []BulkFailure `json:"failed"`
}

type BulkCreateResult struct {
	Created int         `json:"created"`
	Failed  int         `json:"failed"`
	Details BulkDetails `json:"details"`
}

type BulkUpdateResult struct {
	Updated int         `json:"updated"`
	Failed  int         `json:"failed"`
	Details BulkDetails `json:"details"`
}

type BulkDeleteResult struct {
	Deleted int         `json:"deleted"`
	Failed  int         `json:"failed"`
	Details BulkDetails `json:"details"`
}
