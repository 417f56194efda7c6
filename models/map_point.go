package models

type PointType string

const (
	PointTypePost    PointType = "post"
	PointTypeHabitat PointType = "habitat"
)

// MapPoint is one marker on the world map.
type MapPoint struct {
	ID        string    `json:"id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	Type      PointType `json:"type"`
	AnimalID  string    `json:"animalId,omitempty"`
}
