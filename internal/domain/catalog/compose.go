package catalog

// FilterAll is the sentinel city filter that matches every photo
const FilterAll = "all"

// Compose derives the effective photo catalog: custom photos (newest first,
// in their stored order) followed by every built-in photo whose ID has not
// been soft-deleted. Pure function of its inputs.
func Compose(custom []Photo, deletedBuiltin map[string]struct{}) []Photo {
	out := make([]Photo, 0, len(custom))
	out = append(out, custom...)

	for _, city := range moroccoCities {
		for _, p := range city.Photos {
			if _, deleted := deletedBuiltin[p.ID]; deleted {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

// FilterByCity keeps photos whose location matches the canonical city name.
// The FilterAll sentinel returns the input unchanged.
func FilterByCity(photos []Photo, cityName string) []Photo {
	if cityName == FilterAll {
		return photos
	}
	out := make([]Photo, 0, len(photos))
	for _, p := range photos {
		if p.LocationName == cityName {
			out = append(out, p)
		}
	}
	return out
}

// PhotosForCity returns the map view's photo set for one city: the city's
// built-in photos minus soft-deleted ones, followed by custom photos taken
// there. Map placement requires valid coordinates, so photos without them are
// excluded here (they still appear in grid listings).
func PhotosForCity(city *City, custom []Photo, deletedBuiltin map[string]struct{}) []Photo {
	if city == nil {
		return nil
	}

	out := make([]Photo, 0, len(city.Photos))
	for _, p := range city.Photos {
		if _, deleted := deletedBuiltin[p.ID]; deleted {
			continue
		}
		if !p.Coords.Valid() {
			continue
		}
		out = append(out, p)
	}

	for _, p := range custom {
		if p.LocationName == city.Name && p.Coords.Valid() {
			out = append(out, p)
		}
	}
	return out
}
