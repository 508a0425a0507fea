package model

// Product is a bookable catalog item with a per-day price.
// Category and features are referenced by ID, never embedded, so deleting
// either side cannot orphan the other.
type Product struct {
	ID          string   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string   `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description" bson:"description" validate:"required,min=2,max=2000"`
	PriceCents  int64    `json:"price_cents" bson:"price_cents" validate:"min=0"`
	CategoryID  string   `json:"category_id,omitempty" bson:"category_id,omitempty" validate:"omitempty,mongodb"`
	Images      []string `json:"images" bson:"images" validate:"omitempty,dive,url"`
	FeatureIDs  []string `json:"feature_ids" bson:"feature_ids" validate:"omitempty,dive,mongodb"`
}

// HasPrice reports whether the product is priced and therefore bookable.
func (p *Product) HasPrice() bool {
	return p.PriceCents > 0
}
