package models

import "time"

// PropertyDraft is a normalized, persistable property record produced by the
// import pipeline. Drafts are always created unpublished; an editor reviews
// and fills any gaps before publishing.
type PropertyDraft struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`

	City       string `json:"city" db:"city"`
	CityID     *int64 `json:"city_id" db:"city_id"`
	District   string `json:"district" db:"district"`
	DistrictID *int64 `json:"district_id" db:"district_id"`
	Complex    string `json:"complex" db:"complex"`
	ComplexID  *int64 `json:"complex_id" db:"complex_id"`

	Address     string   `json:"address" db:"address"`
	Street      string   `json:"street" db:"street"`
	HouseNumber string   `json:"house_number" db:"house_number"`
	Latitude    *float64 `json:"latitude" db:"latitude"`
	Longitude   *float64 `json:"longitude" db:"longitude"`

	Area        float64 `json:"area" db:"area"`
	KitchenArea float64 `json:"kitchen_area" db:"kitchen_area"`
	Rooms       int     `json:"rooms" db:"rooms"`
	Floor       int     `json:"floor" db:"floor"`
	TotalFloors int     `json:"total_floors" db:"total_floors"`
	YearBuilt   int     `json:"year_built" db:"year_built"`
	Ceiling     float64 `json:"ceiling" db:"ceiling"`

	Price    float64 `json:"price" db:"price"`
	Currency string  `json:"currency" db:"currency"`

	// Free text kept alongside the resolved code so an unmatched value is
	// never lost.
	BuildingType string `json:"building_type" db:"building_type"`
	Condition    string `json:"condition" db:"condition"`

	BuildingTypeCode string   `json:"building_type_code" db:"building_type_code"`
	RenovationCode   string   `json:"renovation_code" db:"renovation_code"`
	ParkingCode      string   `json:"parking_code" db:"parking_code"`
	FurnitureCode    string   `json:"furniture_code" db:"furniture_code"`
	ToiletCode       string   `json:"toilet_code" db:"toilet_code"`
	BalconyCode      string   `json:"balcony_code" db:"balcony_code"`
	SecurityCodes    []string `json:"security_codes" db:"security_codes"`

	Photos []string `json:"photos" db:"photos"`

	OwnerID  int64 `json:"owner_id" db:"owner_id"`
	AgencyID int64 `json:"agency_id" db:"agency_id"`

	IsPublished bool   `json:"is_published" db:"is_published"`
	ImportURL   string `json:"import_url" db:"import_url"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
