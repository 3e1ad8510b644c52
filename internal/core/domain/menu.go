package domain

// MenuItem is a single entry of the menu resource.
type MenuItem struct {
	ID   int    `json:"id" bson:"item_id"`
	Name string `json:"name" bson:"name"`
}
