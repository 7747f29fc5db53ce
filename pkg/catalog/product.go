package catalog

import "time"

// Fitment is one vehicle a product is compatible with. A product carries
// any number of these; the vehicle predicate is a containment test against
// the set.
type Fitment struct {
	Year       string `json:"year"`
	Make       string `json:"make"`
	Model      string `json:"model"`
	Trim       string `json:"trim"`
	Drivetrain string `json:"drivetrain,omitempty"`
}

type Product struct {
	Id            uint      `json:"id"`
	Sku           string    `json:"sku"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Category      string    `json:"category,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	Price         float64   `json:"price"`
	TireSize      string    `json:"tire_size,omitempty"`
	WheelDiameter float64   `json:"wheel_diameter,omitempty"`
	LiftHeight    float64   `json:"lift_height,omitempty"`
	OnSale        bool      `json:"on_sale,omitempty"`
	FreeShipping  bool      `json:"free_shipping,omitempty"`
	ComboOnly     bool      `json:"combo_only,omitempty"`
	Fitments      []Fitment `json:"fitments,omitempty"`
	Created       time.Time `json:"created,omitempty"`
	Img           string    `json:"img,omitempty"`
}

// Page is one repository response. Total is the exact count for the whole
// predicate, not the page.
type Page struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}
