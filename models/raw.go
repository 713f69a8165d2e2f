package models

// RawListing is the flat bag of strings scraped from a single krisha.kz
// advert page. Every field is best effort: a missing element on the page
// leaves the field empty, it never aborts the parse.
type RawListing struct {
	Title        string   `json:"title"`
	PriceRaw     string   `json:"price_raw"`
	AddressRaw   string   `json:"address_raw"`
	City         string   `json:"city"`
	District     string   `json:"district"`
	Street       string   `json:"street"`
	HouseNumber  string   `json:"house_number"`
	AreaFull     string   `json:"area_full"`  // "62 м², Площадь кухни — 12 м²"
	FloorInfo    string   `json:"floor_info"` // "4 из 9"
	Rooms        string   `json:"rooms"`
	BuildingType string   `json:"building_type"`
	YearBuilt    string   `json:"year_built"`
	Condition    string   `json:"condition"`
	Bathroom     string   `json:"bathroom"`
	Balcony      string   `json:"balcony"`
	Parking      string   `json:"parking"`
	Furniture    string   `json:"furniture"`
	Security     string   `json:"security"` // comma separated free text
	Ceiling      string   `json:"ceiling"`
	Complex      string   `json:"complex"`
	Description  string   `json:"description"`
	Photos       []string `json:"photos"`
	SourceURL    string   `json:"source_url"`
}
