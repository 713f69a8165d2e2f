package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"krisha_importer/models"
)

// References is the read-only reference-data lookup surface the normalizer
// resolves scraped text against. Every lookup matches case-insensitively
// and returns (nil, nil) when no row matches: a failed resolution is a gap
// in the draft, never a pipeline failure.
//
// Match direction: a row matches when its stored name contains the scraped
// token as a substring.
type References interface {
	CityByName(ctx context.Context, name string) (*models.City, error)
	DistrictByName(ctx context.Context, cityID *int64, name string) (*models.District, error)
	ComplexByName(ctx context.Context, name string) (*models.Complex, error)
	VocabularyByName(ctx context.Context, dict models.Dictionary, name string) (*models.VocabEntry, error)
	Vocabulary(ctx context.Context, dict models.Dictionary) ([]models.VocabEntry, error)
}

// Normalizer turns a raw parsed listing into a persistable draft by
// resolving free-text values against reference data and coercing the
// semi-structured numeric fields.
type Normalizer struct {
	refs References
}

func NewNormalizer(refs References) *Normalizer {
	return &Normalizer{refs: refs}
}

const (
	defaultCurrency  = "₸"
	defaultYearBuilt = 1800
)

var (
	rePrice      = regexp.MustCompile(`^([\d\s.,]+)\s*([^\d\s]*)`)
	reRoomsTitle = regexp.MustCompile(`^(\d+)-комнатная`)
	reAreaTitle  = regexp.MustCompile(`·\s*([\d.,]+)\s*м²`)
	reFloorTitle = regexp.MustCompile(`·\s*(\d+)/(\d+)\s*этаж`)
	reFloorParam = regexp.MustCompile(`^(\d+)\s+из\s+(\d+)$`)
	reAreaLead   = regexp.MustCompile(`^([\d.,\s]+)`)
	reKitchen    = regexp.MustCompile(`Площадь кухни\s*—\s*([\d.,\s]+)\s*м²`)
	reNonDigit   = regexp.MustCompile(`\D`)
	reNonNumeric = regexp.MustCompile(`[^\d.,]`)
)

// Normalize resolves raw against the reference tables and assembles an
// unpublished draft. A missing or unmatched value leaves the corresponding
// field at its zero/default; only reference-store failures return an error.
func (n *Normalizer) Normalize(ctx context.Context, raw *models.RawListing) (*models.PropertyDraft, error) {
	draft := &models.PropertyDraft{
		Title:        raw.Title,
		Description:  raw.Description,
		Address:      raw.AddressRaw,
		Street:       raw.Street,
		HouseNumber:  raw.HouseNumber,
		City:         raw.City,
		District:     raw.District,
		Complex:      raw.Complex,
		BuildingType: raw.BuildingType,
		Condition:    raw.Condition,
		Photos:       raw.Photos,
		ImportURL:    raw.SourceURL,
		IsPublished:  false,
	}

	if err := n.resolveLocation(ctx, raw, draft); err != nil {
		return nil, err
	}
	if err := n.resolveComplex(ctx, raw, draft); err != nil {
		return nil, err
	}
	if err := n.resolveVocabularies(ctx, raw, draft); err != nil {
		return nil, err
	}
	if err := n.resolveSecurity(ctx, raw, draft); err != nil {
		return nil, err
	}

	draft.Price, draft.Currency = parsePrice(raw.PriceRaw)
	draft.Rooms = parseRooms(raw.Title, raw.Rooms)
	draft.Area, draft.KitchenArea = parseArea(raw.Title, raw.AreaFull)
	draft.Floor, draft.TotalFloors = parseFloor(raw.Title, raw.FloorInfo)
	draft.YearBuilt = parseYear(raw.YearBuilt)
	draft.Ceiling = parseCeiling(raw.Ceiling)

	return draft, nil
}

func (n *Normalizer) resolveLocation(ctx context.Context, raw *models.RawListing, draft *models.PropertyDraft) error {
	if raw.City == "" {
		return nil
	}
	city, err := n.refs.CityByName(ctx, raw.City)
	if err != nil {
		return err
	}
	if city == nil {
		return nil
	}
	draft.City = city.Name
	draft.CityID = &city.ID

	if raw.District == "" {
		return nil
	}
	district, err := n.refs.DistrictByName(ctx, &city.ID, raw.District)
	if err != nil {
		return err
	}
	if district != nil {
		draft.District = district.Name
		draft.DistrictID = &district.ID
	}
	return nil
}

func (n *Normalizer) resolveComplex(ctx context.Context, raw *models.RawListing, draft *models.PropertyDraft) error {
	if raw.Complex == "" {
		return nil
	}
	cx, err := n.refs.ComplexByName(ctx, raw.Complex)
	if err != nil {
		return err
	}
	if cx == nil {
		return nil
	}
	draft.Complex = cx.Name
	draft.ComplexID = &cx.ID
	draft.Latitude = cx.Lat()
	draft.Longitude = cx.Lon()
	return nil
}

func (n *Normalizer) resolveVocabularies(ctx context.Context, raw *models.RawListing, draft *models.PropertyDraft) error {
	targets := []struct {
		dict  models.Dictionary
		value string
		code  *string
	}{
		{models.DictBuilding, raw.BuildingType, &draft.BuildingTypeCode},
		{models.DictRenovation, raw.Condition, &draft.RenovationCode},
		{models.DictParking, raw.Parking, &draft.ParkingCode},
		{models.DictFurniture, raw.Furniture, &draft.FurnitureCode},
		{models.DictToilet, raw.Bathroom, &draft.ToiletCode},
		{models.DictBalcony, raw.Balcony, &draft.BalconyCode},
	}

	for _, t := range targets {
		if t.value == "" {
			continue
		}
		entry, err := n.refs.VocabularyByName(ctx, t.dict, t.value)
		if err != nil {
			return err
		}
		if entry != nil {
			*t.code = entry.Code
		}
	}
	return nil
}

// resolveSecurity splits the multi-valued security text on commas and maps
// each token against the full security vocabulary. Unmatched tokens are
// dropped silently; matched codes are deduplicated.
func (n *Normalizer) resolveSecurity(ctx context.Context, raw *models.RawListing, draft *models.PropertyDraft) error {
	if raw.Security == "" {
		return nil
	}
	entries, err := n.refs.Vocabulary(ctx, models.DictSecurity)
	if err != nil {
		return err
	}

	byName := make(map[string]string, len(entries))
	for _, e := range entries {
		byName[strings.ToLower(e.Name)] = e.Code
	}

	seen := map[string]bool{}
	for _, token := range strings.Split(raw.Security, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		code, ok := byName[token]
		if !ok || seen[code] {
			continue
		}
		seen[code] = true
		draft.SecurityCodes = append(draft.SecurityCodes, code)
	}
	return nil
}

// parsePrice separates the leading numeric run from the trailing currency
// symbol. When the pattern does not apply it keeps the digits and falls
// back to the tenge symbol.
func parsePrice(priceRaw string) (float64, string) {
	priceRaw = strings.TrimSpace(strings.ReplaceAll(priceRaw, "\u00a0", " "))
	if priceRaw == "" {
		return 0, defaultCurrency
	}

	if m := rePrice.FindStringSubmatch(priceRaw); m != nil {
		digits := strings.ReplaceAll(m[1], " ", "")
		currency := m[2]
		if currency == "" {
			currency = defaultCurrency
		}
		return toFloat(digits), currency
	}

	return toFloat(reNonDigit.ReplaceAllString(priceRaw, "")), defaultCurrency
}

func parseRooms(title, roomsParam string) int {
	if m := reRoomsTitle.FindStringSubmatch(title); m != nil {
		return toInt(m[1])
	}
	return toInt(reNonDigit.ReplaceAllString(roomsParam, ""))
}

// parseArea reads the compound live.square value, which carries the total
// area and optionally the kitchen area, and falls back to the title
// pattern for the total.
func parseArea(title, areaFull string) (area, kitchen float64) {
	if areaFull != "" {
		if m := reAreaLead.FindStringSubmatch(areaFull); m != nil {
			area = toFloat(decimalize(m[1]))
		}
		if m := reKitchen.FindStringSubmatch(areaFull); m != nil {
			kitchen = toFloat(decimalize(m[1]))
		}
	}
	if area == 0 {
		if m := reAreaTitle.FindStringSubmatch(title); m != nil {
			area = toFloat(strings.ReplaceAll(m[1], ",", "."))
		}
	}
	return area, kitchen
}

func parseFloor(title, floorInfo string) (floor, total int) {
	if m := reFloorTitle.FindStringSubmatch(title); m != nil {
		return toInt(m[1]), toInt(m[2])
	}
	if m := reFloorParam.FindStringSubmatch(strings.TrimSpace(floorInfo)); m != nil {
		return toInt(m[1]), toInt(m[2])
	}
	return 0, 0
}

func parseYear(yearRaw string) int {
	if year := toInt(reNonDigit.ReplaceAllString(yearRaw, "")); year > 0 {
		return year
	}
	return defaultYearBuilt
}

// parseCeiling strips everything but digits and separators, normalizes the
// decimal comma and parses; anything unparsable yields 0.
func parseCeiling(ceilingRaw string) float64 {
	cleaned := reNonNumeric.ReplaceAllString(ceilingRaw, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	return toFloat(cleaned)
}

// decimalize strips everything but digits and separators from a captured
// numeric run and normalizes the decimal comma.
func decimalize(s string) string {
	s = reNonNumeric.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, ",", ".")
}

func toFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func toInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}
