package matching

// synonymGroups maps informal or regional ingredient names to one canonical
// key. Keys and values are in normalized form. The table is static; catalog
// imports may carry additional per-entry synonyms on top of these.
var synonymGroups = map[string]string{
	// tomato
	"jitomate":    "tomate",
	"tomate rojo": "tomate",
	"tomate bola": "tomate",
	"tomato":      "tomate",
	// onion
	"cebolla blanca": "cebolla",
	"cebolla morada": "cebolla",
	"onion":          "cebolla",
	// chile
	"chile verde": "chile",
	"aji":         "chile",
	"chili":       "chile",
	// potato
	"papa":   "patata",
	"potato": "patata",
	// avocado
	"palta":   "aguacate",
	"avocado": "aguacate",
	// corn
	"elote":  "maiz",
	"choclo": "maiz",
	"corn":   "maiz",
	// beans
	"frijol negro": "frijol",
	"poroto":       "frijol",
	"judia":        "frijol",
	"bean":         "frijol",
	// peanut
	"cacahuate": "mani",
	"cacahuete": "mani",
	"peanut":    "mani",
	// banana
	"platano": "banana",
	"guineo":  "banana",
	// pork
	"puerco":  "cerdo",
	"chancho": "cerdo",
	"pork":    "cerdo",
	// beef
	"carne de re": "re", // "res" singularized by the normalizer
	"beef":        "re",
	// cilantro
	"coriandro": "cilantro",
	"culantro":  "cilantro",
	"coriander": "cilantro",
	// pea
	"chicharo": "guisante",
	"arveja":   "guisante",
	"pea":      "guisante",
	// zucchini
	"calabacita": "calabacin",
	"zucchini":   "calabacin",
	// strawberry
	"fresa":      "frutilla",
	"strawberry": "frutilla",
}

// canonicalKey resolves a normalized name through the synonym-group table.
// Names without a group map to themselves.
func canonicalKey(normalized string) string {
	if canonical, ok := synonymGroups[normalized]; ok {
		return canonical
	}
	return normalized
}

// sameSynonymGroup reports whether two normalized names resolve to the same
// canonical key.
func sameSynonymGroup(a, b string) bool {
	return canonicalKey(a) == canonicalKey(b)
}
