package catalog

import (
	"math"
	"strings"
	"time"
)

// Origin tags where a photo came from. Built-in photos ship with the static
// city catalog; custom photos are uploaded by the photographer at runtime.
type Origin string

const (
	OriginBuiltIn Origin = "builtin"
	OriginCustom  Origin = "custom"
)

// Language is a supported site language
type Language string

const (
	LangEN Language = "en"
	LangAR Language = "ar"
	LangFR Language = "fr"
)

// DefaultLanguage is the site's launch language
const DefaultLanguage = LangAR

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	switch l {
	case LangEN, LangAR, LangFR:
		return true
	}
	return false
}

// Coords is a latitude/longitude pair. A nil or malformed slice marks a photo
// that cannot be placed on the map.
type Coords []float64

// Valid reports whether c is a pair of finite numbers
func (c Coords) Valid() bool {
	if len(c) != 2 {
		return false
	}
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Photo is a displayable unit of content
type Photo struct {
	ID            string    `json:"id"`
	Origin        Origin    `json:"origin"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	TitleAr       string    `json:"titleAr,omitempty"`
	TitleFr       string    `json:"titleFr,omitempty"`
	Description   string    `json:"description,omitempty"`
	DescriptionAr string    `json:"descriptionAr,omitempty"`
	DescriptionFr string    `json:"descriptionFr,omitempty"`
	LocationName  string    `json:"locationName"`
	Coords        Coords    `json:"coords,omitempty"`
	Price         float64   `json:"price,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`

	// MediaKey is the blob key in the media backend. Set only for custom
	// photos stored in local or S3 mode; inline data-URI photos have none.
	MediaKey string `json:"mediaKey,omitempty"`
}

// IsCustom reports whether the photo was uploaded at runtime. Records
// persisted before the origin tag existed are recognized by their generated
// "custom-" ID prefix.
func (p *Photo) IsCustom() bool {
	if p.Origin != "" {
		return p.Origin == OriginCustom
	}
	return strings.HasPrefix(p.ID, "custom")
}

// LocalizedTitle returns the title in the given language, falling back to the
// base title when no variant exists
func (p *Photo) LocalizedTitle(lang Language) string {
	switch lang {
	case LangAR:
		if p.TitleAr != "" {
			return p.TitleAr
		}
	case LangFR:
		if p.TitleFr != "" {
			return p.TitleFr
		}
	}
	return p.Title
}

// City is a fixed geographic anchor in the static catalog. Cities are never
// created, mutated or deleted at runtime.
type City struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	NameAr        string  `json:"nameAr"`
	NameFr        string  `json:"nameFr"`
	Description   string  `json:"description"`
	DescriptionAr string  `json:"descriptionAr"`
	DescriptionFr string  `json:"descriptionFr"`
	Center        Coords  `json:"center"`
	Zoom          int     `json:"zoom"`
	Photos        []Photo `json:"photos"`
}

// LocalizedName returns the city name in the given language
func (c *City) LocalizedName(lang Language) string {
	switch lang {
	case LangAR:
		if c.NameAr != "" {
			return c.NameAr
		}
	case LangFR:
		if c.NameFr != "" {
			return c.NameFr
		}
	}
	return c.Name
}

// LocalizedDescription returns the city description in the given language
func (c *City) LocalizedDescription(lang Language) string {
	switch lang {
	case LangAR:
		if c.DescriptionAr != "" {
			return c.DescriptionAr
		}
	case LangFR:
		if c.DescriptionFr != "" {
			return c.DescriptionFr
		}
	}
	return c.Description
}
