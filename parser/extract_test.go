package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to parse fixture %s: %v", name, err)
	}
	return doc
}

func TestExtractBasicData_Full(t *testing.T) {
	doc := loadFixture(t, "offer_full.html")

	b := ExtractBasicData(doc)
	if b.Title != "2-комнатная квартира · 47 м² · 4/9 этаж, мкр Самал-2, Мендикулова 105 за ~35 млн 〒" {
		t.Fatalf("unexpected title %q", b.Title)
	}
	if b.PriceRaw != "34 999 000 〒" {
		t.Fatalf("unexpected price %q", b.PriceRaw)
	}
	if b.City != "Алматы" {
		t.Fatalf("expected city Алматы, got %q", b.City)
	}
	if b.District != "Медеуский р-н" {
		t.Fatalf("expected district Медеуский р-н, got %q", b.District)
	}
	if b.Street != "Мендикулова" {
		t.Fatalf("expected street Мендикулова, got %q", b.Street)
	}
	if b.HouseNumber != "105" {
		t.Fatalf("expected house 105, got %q", b.HouseNumber)
	}
}

func TestExtractBasicData_NoTitleAddress(t *testing.T) {
	doc := loadFixture(t, "offer_fallbacks.html")

	b := ExtractBasicData(doc)
	if b.City != "Астана" {
		t.Fatalf("expected city Астана, got %q", b.City)
	}
	if b.District != "Есильский р-н" {
		t.Fatalf("expected district Есильский р-н, got %q", b.District)
	}
	if b.Street != "" || b.HouseNumber != "" {
		t.Fatalf("expected no street/house without title segment, got %q/%q", b.Street, b.HouseNumber)
	}
}

func TestExtractParameters_DataNameKeys(t *testing.T) {
	doc := loadFixture(t, "offer_full.html")

	p := ExtractParameters(doc)
	if p.BuildingType != "монолитный" {
		t.Fatalf("unexpected building type %q", p.BuildingType)
	}
	if p.Complex != "Керемет" {
		t.Fatalf("unexpected complex %q", p.Complex)
	}
	if p.YearBuilt != "2014" {
		t.Fatalf("unexpected year %q", p.YearBuilt)
	}
	if p.AreaFull != "47 м², Площадь кухни — 12.5 м²" {
		t.Fatalf("unexpected area %q", p.AreaFull)
	}
	if p.Condition != "свежий ремонт" {
		t.Fatalf("unexpected condition %q", p.Condition)
	}
	if p.Bathroom != "раздельный" {
		t.Fatalf("unexpected bathroom %q", p.Bathroom)
	}
	if p.Security != "домофон, сигнализация, неизвестная фича" {
		t.Fatalf("unexpected security %q", p.Security)
	}
	if p.Ceiling != "2.8 м" {
		t.Fatalf("unexpected ceiling %q", p.Ceiling)
	}
}

func TestExtractParameters_TextKeyFallback(t *testing.T) {
	doc := loadFixture(t, "offer_fallbacks.html")

	p := ExtractParameters(doc)
	if p.FloorInfo != "5 из 9" {
		t.Fatalf("expected floor info from text key, got %q", p.FloorInfo)
	}
	if p.Rooms != "3" {
		t.Fatalf("expected rooms 3, got %q", p.Rooms)
	}
	if p.BuildingType != "кирпичный" {
		t.Fatalf("expected building type from dt text key, got %q", p.BuildingType)
	}
}

func TestExtractPhotos_DedupAndFallbackChain(t *testing.T) {
	doc := loadFixture(t, "offer_full.html")

	photos := ExtractPhotos(doc)
	want := []string{
		"https://photos.kcdn.online/webp/01/full.webp",
		"https://photos.kcdn.online/webp/02/thumb.webp",
		"https://photos.kcdn.online/jpg/03/thumb.jpg",
	}
	if len(photos) != len(want) {
		t.Fatalf("expected %d photos, got %d: %v", len(want), len(photos), photos)
	}
	for i, url := range want {
		if photos[i] != url {
			t.Fatalf("photo %d: expected %s, got %s", i, url, photos[i])
		}
	}
}

func TestExtractPhotos_MainPhotoFallback(t *testing.T) {
	doc := loadFixture(t, "offer_fallbacks.html")

	photos := ExtractPhotos(doc)
	if len(photos) != 1 {
		t.Fatalf("expected 1 photo, got %d: %v", len(photos), photos)
	}
	if photos[0] != "https://photos.kcdn.online/jpg/main/full.jpg" {
		t.Fatalf("unexpected photo %s", photos[0])
	}
}

func TestExtractPhotos_Empty(t *testing.T) {
	doc := loadFixture(t, "offer_empty.html")

	if photos := ExtractPhotos(doc); len(photos) != 0 {
		t.Fatalf("expected no photos, got %v", photos)
	}
}

func TestExtractDescription_StripsTranslationBoilerplate(t *testing.T) {
	doc := loadFixture(t, "offer_full.html")

	got := ExtractDescription(doc)
	want := "Продам уютную квартиру в центре.\nРядом школа и парк."
	if got != want {
		t.Fatalf("unexpected description:\n got: %q\nwant: %q", got, want)
	}
}

func TestExtractDescription_FallbackSelector(t *testing.T) {
	doc := loadFixture(t, "offer_fallbacks.html")

	if got := ExtractDescription(doc); got != "Светлая квартира с видом на реку." {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestExtract_MissingElements(t *testing.T) {
	doc := loadFixture(t, "offer_empty.html")

	b := ExtractBasicData(doc)
	if b.Title != "" || b.PriceRaw != "" || b.City != "" {
		t.Fatalf("expected empty basic data, got %+v", b)
	}
	p := ExtractParameters(doc)
	if p.BuildingType != "" || p.AreaFull != "" {
		t.Fatalf("expected empty parameters, got %+v", p)
	}
	if d := ExtractDescription(doc); d != "" {
		t.Fatalf("expected empty description, got %q", d)
	}
}
