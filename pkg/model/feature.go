package model

type Feature struct {
	ID   string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name string `json:"name" bson:"name" validate:"required,min=2,max=50"`
	Icon string `json:"icon" bson:"icon" validate:"omitempty,max=200"`
}
