package models

import "time"

type Category string

const (
	CategoryMammal       Category = "Mammal"
	CategoryBird         Category = "Bird"
	CategoryReptile      Category = "Reptile"
	CategoryAmphibian    Category = "Amphibian"
	CategoryFish         Category = "Fish"
	CategoryInvertebrate Category = "Invertebrate"
)

var Categories = []Category{
	CategoryMammal,
	CategoryBird,
	CategoryReptile,
	CategoryAmphibian,
	CategoryFish,
	CategoryInvertebrate,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Region is a point of an animal's natural habitat.
type Region struct {
	Lat   float64 `json:"lat" yaml:"lat"`
	Lng   float64 `json:"lng" yaml:"lng"`
	Label string  `json:"label" yaml:"label"`
}

type Animal struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ScientificName string    `json:"scientificName,omitempty"`
	Description    string    `json:"description,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Category       Category  `json:"category,omitempty"`
	NativeRegions  []Region  `json:"nativeRegions"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
