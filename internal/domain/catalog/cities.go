package catalog

// moroccoCities is the built-in city dataset. It ships with the binary and is
// the photographer's curated base portfolio; runtime uploads layer on top.
var moroccoCities = []City{
	{
		ID:            "marrakech",
		Name:          "Marrakech",
		NameAr:        "مراكش",
		NameFr:        "Marrakech",
		Description:   "The Red City, home to the vibrant Jemaa el-Fnaa and majestic palaces.",
		DescriptionAr: "المدينة الحمراء، موطن ساحة جامع الفناء النابضة بالحياة والقصور المهيبة.",
		DescriptionFr: "La Ville Rouge, abritant la vibrante place Jemaa el-Fna et des palais majestueux.",
		Center:        Coords{31.6295, -7.9811},
		Zoom:          12,
		Photos: []Photo{
			{
				ID:           "m1",
				Origin:       OriginBuiltIn,
				URL:          "https://images.unsplash.com/photo-1597212618440-806262de4f6b?auto=format&fit=crop&q=80&w=1200",
				Title:        "Koutoubia Dusk",
				TitleAr:      "الكتبية وقت الغروب",
				TitleFr:      "Koutoubia au Crépuscule",
				Description:  "The golden hour lighting hitting the minaret.",
				LocationName: "Marrakech",
				Coords:       Coords{31.6237, -7.9936},
			},
			{
				ID:           "m2",
				Origin:       OriginBuiltIn,
				URL:          "https://images.unsplash.com/photo-1539667468225-8df6675ca531?auto=format&fit=crop&q=80&w=1200",
				Title:        "Traditional Tanjiya",
				TitleAr:      "طباخ الطنجية التقليدي",
				TitleFr:      "Cuisinier de Tanjiya",
				Description:  "Traditional cooking in the heart of Marrakech Medina.",
				LocationName: "Marrakech",
				Coords:       Coords{31.6260, -7.9890},
			},
		},
	},
	{
		ID:            "chefchaouen",
		Name:          "Chefchaouen",
		NameAr:        "شفشاون",
		NameFr:        "Chefchaouen",
		Description:   "The Blue Pearl of the Rif Mountains.",
		DescriptionAr: "الجوهرة الزرقاء في جبال الريف.",
		DescriptionFr: "La Perle Bleue des montagnes du Rif.",
		Center:        Coords{35.1688, -5.2636},
		Zoom:          14,
		Photos: []Photo{
			{
				ID:           "c1",
				Origin:       OriginBuiltIn,
				URL:          "https://images.unsplash.com/photo-1543310321-72f122558661?auto=format&fit=crop&q=80&w=1200",
				Title:        "Blue Alleyway",
				TitleAr:      "زقاق أزرق",
				TitleFr:      "Ruelle Bleue",
				Description:  "Traditional steps leading into the heart of the Medina.",
				LocationName: "Chefchaouen",
				Coords:       Coords{35.1691, -5.2625},
			},
		},
	},
	{
		ID:            "merzouga",
		Name:          "Merzouga",
		NameAr:        "مرزوكة",
		NameFr:        "Merzouga",
		Description:   "Gateway to the Erg Chebbi dunes and the vast Sahara Desert.",
		DescriptionAr: "بوابة عروق الشبي والصحراء الكبرى الشاسعة.",
		DescriptionFr: "Porte des dunes de l'Erg Chebbi et du vaste désert du Sahara.",
		Center:        Coords{31.0983, -3.9840},
		Zoom:          10,
		Photos: []Photo{
			{
				ID:           "s1",
				Origin:       OriginBuiltIn,
				URL:          "https://images.unsplash.com/photo-1489493585363-d69421e0dee3?auto=format&fit=crop&q=80&w=1200",
				Title:        "Dunes at Dawn",
				TitleAr:      "كثبان الفجر",
				TitleFr:      "Dunes à l'Aube",
				Description:  "Shadows playing across the crest of Erg Chebbi.",
				LocationName: "Sahara Desert",
				Coords:       Coords{31.1044, -3.9612},
			},
		},
	},
}

// Cities returns the immutable built-in city catalog
func Cities() []City {
	return moroccoCities
}

// CityByID looks up a built-in city, or nil
func CityByID(id string) *City {
	for i := range moroccoCities {
		if moroccoCities[i].ID == id {
			return &moroccoCities[i]
		}
	}
	return nil
}

// CityByName looks up a built-in city by canonical name, or nil
func CityByName(name string) *City {
	for i := range moroccoCities {
		if moroccoCities[i].Name == name {
			return &moroccoCities[i]
		}
	}
	return nil
}

// BuiltinPhotoIDs returns the IDs of every built-in photo across all cities
func BuiltinPhotoIDs() []string {
	var ids []string
	for _, city := range moroccoCities {
		for _, p := range city.Photos {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// MoroccoCenter is the country centroid, the map's default anchor
var MoroccoCenter = Coords{31.7917, -7.0926}
