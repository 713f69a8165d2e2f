package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"krisha_importer/models"
)

// Loader produces a rendered page for a listing URL.
type Loader interface {
	Load(ctx context.Context, url string) (*RenderedPage, error)
}

// Parser orchestrates the page loader and the field extractors into one raw
// parsed listing.
type Parser struct {
	loader Loader
}

func New(loader Loader) *Parser {
	return &Parser{loader: loader}
}

// Parse loads the page, builds a static DOM from the rendered HTML and runs
// every extractor against it. The extractors operate on the detached parse
// tree, not the live page, so the browser session is released as soon as
// this function returns, on every exit path.
func (p *Parser) Parse(ctx context.Context, url string) (*models.RawListing, error) {
	page, err := p.loader.Load(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() {
		if page.Session != nil {
			page.Session.Close()
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	basic := ExtractBasicData(doc)
	params := ExtractParameters(doc)

	return &models.RawListing{
		Title:        basic.Title,
		PriceRaw:     basic.PriceRaw,
		AddressRaw:   basic.AddressRaw,
		City:         basic.City,
		District:     basic.District,
		Street:       basic.Street,
		HouseNumber:  basic.HouseNumber,
		AreaFull:     params.AreaFull,
		FloorInfo:    params.FloorInfo,
		Rooms:        params.Rooms,
		BuildingType: params.BuildingType,
		YearBuilt:    params.YearBuilt,
		Condition:    params.Condition,
		Bathroom:     params.Bathroom,
		Balcony:      params.Balcony,
		Parking:      params.Parking,
		Furniture:    params.Furniture,
		Security:     params.Security,
		Ceiling:      params.Ceiling,
		Complex:      params.Complex,
		Description:  ExtractDescription(doc),
		Photos:       ExtractPhotos(doc),
		SourceURL:    url,
	}, nil
}
