package menu

import (
	"time"

	"github.com/google/uuid"
)

// Category groups menu items on the public menu.
type Category string

const (
	CategoryAppetizers Category = "appetizers"
	CategorySoups      Category = "soups"
	CategoryPoultry    Category = "poultry"
	CategoryBeef       Category = "beef"
	CategoryPork       Category = "pork"
	CategorySeafood    Category = "seafood"
	CategoryVegetarian Category = "vegetarian"
	CategoryRice       Category = "rice"
	CategoryNoodles    Category = "noodles"
	CategoryDesserts   Category = "desserts"
	CategoryBeverages  Category = "beverages"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAppetizers, CategorySoups, CategoryPoultry, CategoryBeef,
		CategoryPork, CategorySeafood, CategoryVegetarian, CategoryRice,
		CategoryNoodles, CategoryDesserts, CategoryBeverages:
		return true
	}
	return false
}

// Item is a dish on the menu. Name and Description carry the English copy;
// the Zh fields hold the Chinese translation shown alongside it.
type Item struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	NameZh        string    `json:"name_zh,omitempty"`
	Description   string    `json:"description,omitempty"`
	DescriptionZh string    `json:"description_zh,omitempty"`
	Price         float64   `json:"price"`
	Category      Category  `json:"category"`
	ImageURL      string    `json:"image_url,omitempty"`
	IsAvailable   bool      `json:"is_available"`
	SpicyLevel    int       `json:"spicy_level"`
	IsVegetarian  bool      `json:"is_vegetarian"`
	IsGlutenFree  bool      `json:"is_gluten_free"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateItemRequest adds a dish to the menu.
type CreateItemRequest struct {
	Name          string   `json:"name" binding:"required"`
	NameZh        string   `json:"name_zh"`
	Description   string   `json:"description"`
	DescriptionZh string   `json:"description_zh"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	Category      Category `json:"category" binding:"required"`
	ImageURL      string   `json:"image_url"`
	SpicyLevel    int      `json:"spicy_level" binding:"gte=0,lte=5"`
	IsVegetarian  bool     `json:"is_vegetarian"`
	IsGlutenFree  bool     `json:"is_gluten_free"`
}

// UpdateItemRequest edits a dish. Nil fields are left unchanged.
type UpdateItemRequest struct {
	Name          *string   `json:"name"`
	NameZh        *string   `json:"name_zh"`
	Description   *string   `json:"description"`
	DescriptionZh *string   `json:"description_zh"`
	Price         *float64  `json:"price"`
	Category      *Category `json:"category"`
	ImageURL      *string   `json:"image_url"`
	IsAvailable   *bool     `json:"is_available"`
	SpicyLevel    *int      `json:"spicy_level"`
	IsVegetarian  *bool     `json:"is_vegetarian"`
	IsGlutenFree  *bool     `json:"is_gluten_free"`
}
