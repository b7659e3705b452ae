// Package catalog holds the static lists the marketplace offers in its forms:
// known produce per category, stock photos and the mandals of Telangana.
package catalog

import "strings"

const imageBase = "https://images.pexels.com/photos/"
const imageParams = "?auto=compress&cs=tinysrgb&w=400"

// DefaultImage is used for produce the catalog does not know.
const DefaultImage = imageBase + "1656663/pexels-photo-1656663.jpeg" + imageParams

var images = map[string]string{
	// vegetables
	"tomato":      "533280/pexels-photo-533280.jpeg",
	"onion":       "144248/potatoes-vegetables-erdfrucht-bio-144248.jpeg",
	"potato":      "144248/potatoes-vegetables-erdfrucht-bio-144248.jpeg",
	"carrot":      "143133/pexels-photo-143133.jpeg",
	"cabbage":     "2255935/pexels-photo-2255935.jpeg",
	"cauliflower": "1656663/pexels-photo-1656663.jpeg",
	"brinjal":     "321551/pexels-photo-321551.jpeg",
	"okra":        "4198018/pexels-photo-4198018.jpeg",
	"spinach":     "2255935/pexels-photo-2255935.jpeg",
	"cucumber":    "2329440/pexels-photo-2329440.jpeg",

	// fruits
	"apple":       "102104/pexels-photo-102104.jpeg",
	"banana":      "61127/pexels-photo-61127.jpeg",
	"orange":      "161559/background-bitter-breakfast-bright-161559.jpeg",
	"mango":       "918327/pexels-photo-918327.jpeg",
	"grapes":      "708777/pexels-photo-708777.jpeg",
	"pomegranate": "65256/pomegranate-open-cores-fruit-65256.jpeg",
	"watermelon":  "1313267/pexels-photo-1313267.jpeg",
	"papaya":      "1263349/pexels-photo-1263349.jpeg",
	"guava":       "4198018/pexels-photo-4198018.jpeg",
	"pineapple":   "947879/pexels-photo-947879.jpeg",

	// pulses and grains
	"rice":         "723198/pexels-photo-723198.jpeg",
	"wheat":        "416607/pexels-photo-416607.jpeg",
	"lentils":      "1640777/pexels-photo-1640777.jpeg",
	"chickpeas":    "4198018/pexels-photo-4198018.jpeg",
	"blackgram":    "1640777/pexels-photo-1640777.jpeg",
	"greengram":    "1640777/pexels-photo-1640777.jpeg",
	"redgram":      "1640777/pexels-photo-1640777.jpeg",
	"kidney_beans": "1640777/pexels-photo-1640777.jpeg",
	"black_beans":  "1640777/pexels-photo-1640777.jpeg",
	"soybeans":     "1640777/pexels-photo-1640777.jpeg",
}

var names = map[string][]string{
	"vegetables": {"tomato", "onion", "potato", "carrot", "cabbage", "cauliflower", "brinjal", "okra", "spinach", "cucumber"},
	"fruits":     {"apple", "banana", "orange", "mango", "grapes", "pomegranate", "watermelon", "papaya", "guava", "pineapple"},
	"pulses":     {"rice", "wheat", "lentils", "chickpeas", "blackgram", "greengram", "redgram", "kidney_beans", "black_beans", "soybeans"},
}

// Mandals are the sub-districts a user address may name.
var Mandals = []string{
	"Hyderabad", "Secunderabad", "Rangareddy", "Medchal", "Vikarabad",
	"Warangal", "Karimnagar", "Nizamabad", "Khammam", "Nalgonda",
	"Mahbubnagar", "Adilabad", "Medak", "Sangareddy", "Siddipet",
}

// DefaultState is the state pre-filled in addresses.
const DefaultState = "Telangana"

// Names returns the known produce of a category, nil for an unknown one.
func Names(category string) []string {
	list, ok := names[category]
	if !ok {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

func key(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// ImageFor returns the stock photo for a produce name ("Kidney beans" matches
// kidney_beans), or DefaultImage.
func ImageFor(name string) string {
	if p, ok := images[key(name)]; ok {
		return imageBase + p + imageParams
	}
	return DefaultImage
}

func IsMandal(name string) bool {
	for _, m := range Mandals {
		if strings.EqualFold(m, strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
