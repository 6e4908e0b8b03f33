package models

// Tag is a row of the shared tag vocabulary. Names are unique and compared literally.
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
