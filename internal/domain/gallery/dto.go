package gallery

import "github.com/elhabassi/portfolio-api/internal/domain/catalog"

// PhotoResponse is a catalog photo plus per-viewer purchase state. The front
// end renders a watermark over any photo that has not been purchased.
type PhotoResponse struct {
	catalog.Photo
	Purchased bool `json:"purchased"`
}

// UploadForm carries the multipart fields of an upload request
type UploadForm struct {
	Title   string  `json:"title" validate:"required,max=200"`
	TitleAr string  `json:"title_ar" validate:"max=200"`
	TitleFr string  `json:"title_fr" validate:"max=200"`
	CityID  string  `json:"city_id"`
	Lat     float64 `json:"lat" validate:"omitempty,latitude_range"`
	Lng     float64 `json:"lng" validate:"omitempty,longitude_range"`
	Price   float64 `json:"price" validate:"gte=0"`
}

// LanguageRequest switches the persisted site language
type LanguageRequest struct {
	Language string `json:"language" validate:"required,lang"`
}

// PurchaseResponse reports purchase state after a purchase call
type PurchaseResponse struct {
	PhotoID   string `json:"photo_id"`
	Purchased bool   `json:"purchased"`
}

// CityResponse is a static city with its name and description localized
type CityResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Center      catalog.Coords `json:"center"`
	Zoom        int            `json:"zoom"`
	PhotoCount  int            `json:"photo_count"`
}
