package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The extractors are pure functions over a parsed document. Each pulls one
// category of data and tolerates missing elements: absence yields an empty
// string or slice, never an error.

// BasicData is the title/price/address block of an advert page.
type BasicData struct {
	Title       string
	PriceRaw    string
	AddressRaw  string
	City        string
	District    string
	Street      string
	HouseNumber string
}

// Parameters is the flattened attribute table of an advert page, keyed by
// the source's own parameter codes and mapped to named fields.
type Parameters struct {
	BuildingType string
	Complex      string
	YearBuilt    string
	Condition    string
	Bathroom     string
	Balcony      string
	Parking      string
	Furniture    string
	Security     string
	Ceiling      string
	AreaFull     string
	FloorInfo    string
	Rooms        string
}

var (
	reTitleAddress   = regexp.MustCompile(`·\s*([^·]+)$`)
	rePriceTail      = regexp.MustCompile(`\s*за\s*~.*$`)
	reAreaInAddress  = regexp.MustCompile(`(?i)[\d.,]+\s*м²\s*,?\s*`)
	reHouseNumber    = regexp.MustCompile(`^(.*?)\s+([\d/\-]+)$`)
	reNumericOnly    = regexp.MustCompile(`^[\d/\-]+$`)
	reStreetPrefix   = regexp.MustCompile(`(?i)^(ул\.?|улица|проспект|просп\.?|пр-т|пр-кт|пер\.?|переулок|бульвар|бул\.?|шоссе|ш\.?|аллея|ал\.?|микрорайон|мкрн?\.?|жилой комплекс|жк)\s*`)
	reTranslateTail  = regexp.MustCompile(`(?is)Перевести.*$`)
	reInaccurateNote = regexp.MustCompile(`(?i)Перевод может быть неточным`)
	reShowOriginal   = regexp.MustCompile(`(?i)Показать оригинал`)
	reBlankLines     = regexp.MustCompile(`\n{2,}`)
)

// ExtractBasicData pulls the advert title, raw price and address strings,
// guesses city/district from the first address line, and derives the street
// and house number from the trailing title segment.
func ExtractBasicData(doc *goquery.Document) BasicData {
	b := BasicData{
		Title:      text(doc, ".offer__advert-title h1"),
		PriceRaw:   text(doc, ".offer__price"),
		AddressRaw: text(doc, ".offer__location"),
	}

	firstLine := strings.TrimSpace(strings.SplitN(b.AddressRaw, "\n", 2)[0])
	parts := splitTrim(firstLine, ",")
	if len(parts) > 0 {
		b.City = parts[0]
	}
	if len(parts) > 1 {
		b.District = parts[1]
	}

	b.Street, b.HouseNumber = streetFromTitle(b.Title)
	return b
}

// streetFromTitle parses the street and house number out of the last
// "·"-separated segment of the advert title. The segment may also contain
// the area and a "за ~<price>" tail, both stripped first.
func streetFromTitle(title string) (street, house string) {
	m := reTitleAddress.FindStringSubmatch(title)
	if m == nil {
		return "", ""
	}
	segment := rePriceTail.ReplaceAllString(strings.TrimSpace(m[1]), "")
	segment = strings.TrimSpace(reAreaInAddress.ReplaceAllString(segment, ""))

	parts := splitTrim(segment, ",")
	if len(parts) == 0 {
		return "", ""
	}

	last := parts[len(parts)-1]
	if hm := reHouseNumber.FindStringSubmatch(last); hm != nil {
		street, house = strings.TrimSpace(hm[1]), hm[2]
	} else if reNumericOnly.MatchString(last) {
		house = last
		if len(parts) > 1 {
			street = strings.Join(parts[:len(parts)-1], ", ")
		}
	} else {
		street = last
	}

	if street == "" && len(parts) > 1 {
		street = strings.Join(parts[:len(parts)-1], ", ")
	}
	street = strings.TrimSpace(reStreetPrefix.ReplaceAllString(street, ""))
	return street, house
}

// ExtractParameters flattens both attribute regions of the page (the short
// description list and the detailed parameters list) into one map keyed by
// the source's parameter codes, then picks out the fields used downstream.
func ExtractParameters(doc *goquery.Document) Parameters {
	params := map[string]string{}

	doc.Find(".offer__short-description .offer__info-item").Each(func(_ int, item *goquery.Selection) {
		key, ok := item.Attr("data-name")
		if !ok || key == "" {
			key = strings.TrimSpace(item.Find(".offer__info-title").First().Text())
		}
		value := strings.TrimSpace(item.Find(".offer__advert-short-info").First().Text())
		if key != "" {
			params[key] = value
		}
	})

	doc.Find(".offer__parameters dl").Each(func(_ int, dl *goquery.Selection) {
		dt := dl.Find("dt").First()
		dd := dl.Find("dd").First()
		if dt.Length() == 0 || dd.Length() == 0 {
			return
		}
		key, ok := dt.Attr("data-name")
		if !ok || key == "" {
			key = strings.TrimSpace(dt.Text())
		}
		if key != "" {
			params[key] = strings.TrimSpace(dd.Text())
		}
	})

	return Parameters{
		BuildingType: params["flat.building"],
		Complex:      params["map.complex"],
		YearBuilt:    params["house.year"],
		Condition:    params["flat.renovation"],
		Bathroom:     params["flat.toilet"],
		Balcony:      params["flat.balcony"],
		Parking:      params["flat.parking"],
		Furniture:    params["live.furniture"],
		Security:     params["flat.security"],
		Ceiling:      params["flat.ceiling"],
		AreaFull:     params["live.square"],
		FloorInfo:    params["flat.floor"],
		Rooms:        params["live.rooms"],
	}
}

// ExtractPhotos walks the gallery thumbnails preferring the direct
// high-res attribute, then the webp <source> srcset, then the <img> src.
// URLs are deduplicated; an empty gallery falls back to the main photo.
func ExtractPhotos(doc *goquery.Document) []string {
	var urls []string
	seen := map[string]bool{}

	doc.Find(".gallery__small-item").Each(func(_ int, item *goquery.Selection) {
		photoURL, _ := item.Attr("data-photo-url")
		if photoURL == "" {
			if srcset, ok := item.Find(`source[type="image/webp"]`).First().Attr("srcset"); ok {
				if fields := strings.Fields(srcset); len(fields) > 0 {
					photoURL = fields[0]
				}
			}
		}
		if photoURL == "" {
			photoURL, _ = item.Find("img").First().Attr("src")
		}
		if photoURL != "" && !seen[photoURL] {
			seen[photoURL] = true
			urls = append(urls, photoURL)
		}
	})

	if len(urls) == 0 {
		if src, ok := doc.Find(".gallery__main img").First().Attr("src"); ok && src != "" {
			urls = append(urls, src)
		}
	}

	return urls
}

// ExtractDescription pulls the free-text description, trying the primary
// selector then the fallback, and strips translation-widget boilerplate.
func ExtractDescription(doc *goquery.Document) string {
	description := text(doc, ".offer__description .text")
	if description == "" {
		description = text(doc, ".a-description__text")
	}
	return cleanText(description)
}

func cleanText(s string) string {
	s = reTranslateTail.ReplaceAllString(s, "")
	s = reInaccurateNote.ReplaceAllString(s, "")
	s = reShowOriginal.ReplaceAllString(s, "")
	s = reBlankLines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

func text(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

func splitTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
