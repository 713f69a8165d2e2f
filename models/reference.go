package models

// Reference data: long-lived rows maintained by administrative operations,
// read-only from the import pipeline's perspective.

type City struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type District struct {
	ID     int64  `json:"id" db:"id"`
	CityID int64  `json:"city_id" db:"city_id"`
	Name   string `json:"name" db:"name"`
}

// Complex is a residential complex. Details carries the raw attribute map
// captured from the source site; the pipeline only reads the geo keys.
type Complex struct {
	ID      int64          `json:"id" db:"id"`
	Name    string         `json:"name" db:"name"`
	Address string         `json:"address" db:"address"`
	Details map[string]any `json:"details" db:"details"`
}

// Lat returns the complex latitude from the details map, nil when absent.
func (c *Complex) Lat() *float64 { return c.detailFloat("map.lat") }

// Lon returns the complex longitude from the details map, nil when absent.
func (c *Complex) Lon() *float64 { return c.detailFloat("map.lon") }

func (c *Complex) detailFloat(key string) *float64 {
	if c == nil || c.Details == nil {
		return nil
	}
	switch v := c.Details[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

// Dictionary identifies one controlled-vocabulary table. The value doubles
// as the table name; storage validates it against the known set before
// building a query.
type Dictionary string

const (
	DictBuilding   Dictionary = "flat_building"
	DictRenovation Dictionary = "flat_renovation"
	DictParking    Dictionary = "flat_parking"
	DictFurniture  Dictionary = "live_furniture"
	DictToilet     Dictionary = "flat_toilet"
	DictBalcony    Dictionary = "flat_balcony"
	DictSecurity   Dictionary = "flat_security"
	DictDoor       Dictionary = "flat_door"
	DictFlooring   Dictionary = "flat_flooring"
	DictPhone      Dictionary = "flat_phone"
	DictInternet   Dictionary = "inet_type"
	DictOptions    Dictionary = "flat_options"
)

// Dictionaries lists every controlled vocabulary, in seed order.
var Dictionaries = []Dictionary{
	DictBuilding, DictRenovation, DictParking, DictFurniture,
	DictToilet, DictBalcony, DictSecurity, DictDoor,
	DictFlooring, DictPhone, DictInternet, DictOptions,
}

// VocabEntry is one row of a controlled vocabulary. Code is the stable
// machine key, FormID the source site's form value, Name the human-readable
// label used for fuzzy matching against scraped text.
type VocabEntry struct {
	Code   string `json:"code" db:"code" yaml:"code"`
	FormID int    `json:"id" db:"form_id" yaml:"id"`
	Name   string `json:"name" db:"name" yaml:"name"`
}
