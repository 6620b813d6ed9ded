package commands

import "strings"

const seedImageBase = "https://www.urvann.com/images/products/"

var seedCategories = [][]string{
	{"Indoor"},
	{"Outdoor"},
	{"Air Purifying"},
	{"Home Decor"},
	{"Succulent"},
	{"Flowering"},
	{"Medicinal"},
	{"Decor"},
	{"Edible"},
	{"Shade"},
}

type seedPlant struct {
	name       string
	price      float64
	categories []string
}

func (p seedPlant) image() string {
	return seedImageBase + strings.ReplaceAll(strings.ToLower(p.name), " ", "-") + ".webp"
}

var seedPlants = []seedPlant{
	{"Money Plant", 99, []string{"Indoor", "Air Purifying", "Home Decor"}},
	{"Areca Palm", 249, []string{"Indoor", "Air Purifying"}},
	{"Bougainvillea", 199, []string{"Outdoor", "Flowering"}},
	{"Snake Plant", 149, []string{"Indoor", "Succulent", "Air Purifying"}},
	{"Peace Lily", 129, []string{"Indoor", "Flowering", "Air Purifying"}},
	{"Spider Plant", 79, []string{"Indoor", "Air Purifying", "Home Decor"}},
	{"Aloe Vera", 69, []string{"Succulent", "Air Purifying", "Medicinal"}},
	{"ZZ Plant", 179, []string{"Indoor", "Air Purifying"}},
	{"Lucky Bamboo", 99, []string{"Indoor", "Home Decor"}},
	{"Jade Plant", 89, []string{"Succulent", "Indoor", "Home Decor"}},
	{"Rose", 119, []string{"Outdoor", "Flowering"}},
	{"Tulsi", 49, []string{"Outdoor", "Medicinal"}},
	{"English Ivy", 89, []string{"Indoor", "Outdoor", "Air Purifying"}},
	{"Fiddle Leaf Fig", 299, []string{"Indoor", "Home Decor"}},
	{"Bougainvillea Pink", 219, []string{"Outdoor", "Flowering"}},
	{"Boston Fern", 99, []string{"Indoor", "Air Purifying"}},
	{"Rubber Plant", 159, []string{"Indoor", "Air Purifying"}},
	{"Tecoma", 109, []string{"Outdoor", "Flowering"}},
	{"Mogra", 69, []string{"Outdoor", "Flowering"}},
	{"Croton", 99, []string{"Indoor", "Home Decor"}},
	{"Dieffenbachia", 119, []string{"Indoor", "Air Purifying"}},
	{"Philodendron", 149, []string{"Indoor", "Air Purifying"}},
	{"Pothos", 79, []string{"Indoor", "Air Purifying", "Home Decor"}},
	{"Dracaena", 129, []string{"Indoor", "Air Purifying"}},
	{"Cactus", 59, []string{"Succulent", "Outdoor"}},
	{"Bamboo Palm", 189, []string{"Indoor", "Air Purifying"}},
	{"Gerbera Daisy", 89, []string{"Outdoor", "Flowering"}},
	{"Aglaonema", 129, []string{"Indoor", "Air Purifying"}},
	{"Schefflera", 109, []string{"Indoor", "Air Purifying"}},
	{"Marigold", 39, []string{"Outdoor", "Flowering"}},
	{"Petunia", 69, []string{"Outdoor", "Flowering"}},
	{"Coleus", 79, []string{"Outdoor", "Shade"}},
	{"Succulent Mix", 199, []string{"Succulent", "Indoor"}},
	{"Hibiscus", 129, []string{"Outdoor", "Flowering"}},
	{"Kalanchoe", 99, []string{"Succulent", "Indoor"}},
	{"Syngonium", 89, []string{"Indoor", "Air Purifying"}},
	{"Palm Bonsai", 299, []string{"Indoor", "Decor"}},
	{"Chrysanthemum", 79, []string{"Outdoor", "Flowering"}},
	{"Calathea", 149, []string{"Indoor", "Decor"}},
	{"Lily", 99, []string{"Outdoor", "Flowering"}},
	{"Datura", 59, []string{"Outdoor", "Flowering"}},
	{"Ixora", 89, []string{"Outdoor", "Flowering"}},
	{"Sedum", 69, []string{"Succulent", "Outdoor"}},
	{"Palm Chamaedorea", 159, []string{"Indoor", "Air Purifying"}},
	{"Rajnigandha", 79, []string{"Outdoor", "Flowering"}},
	{"Mint", 49, []string{"Outdoor", "Edible"}},
	{"Euphorbia", 59, []string{"Succulent", "Outdoor"}},
	{"Portulaca", 39, []string{"Outdoor", "Flowering"}},
	{"Tulip", 129, []string{"Outdoor", "Flowering"}},
	{"Jasmine", 69, []string{"Outdoor", "Flowering"}},
}
