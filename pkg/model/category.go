package model

type Category struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
}
