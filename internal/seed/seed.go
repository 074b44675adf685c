// Package seed provides the starting catalog of a user who never saved anything.
package seed

import (
	"smashcost-backend/internal/models"
	"smashcost-backend/internal/supply"
)

const (
	smashImage   = "https://i.ibb.co/pBf6mpnh/Smash.jpg"
	defaultSide  = "frites-portion"
	defaultDrink = "coca-33cl"
)

var standardPrices = models.SellingPrices{Single: 8.90, Menu: 12.90, Student: 9.90}

// StudentMenuProducts are the products sold in the student menu by default.
var StudentMenuProducts = []string{"smash", "doublecheese"}

func free(id, name, label string, cost float64) models.Ingredient {
	return models.Ingredient{ID: id, Name: name, QuantityLabel: label, Cost: cost}
}

// linked keeps the hand-entered cost as a fallback value; it is ignored while the link exists.
func linked(id, name, label string, cost float64, supplyID string, qty float64) models.Ingredient {
	return models.Ingredient{ID: id, Name: name, QuantityLabel: label, Cost: cost, SupplyID: supplyID, QuantityValue: models.Float(qty)}
}

// Defaults returns fresh copies of the starting products and supplies.
func Defaults() ([]models.Product, supply.Catalog) {
	return Products(), Supplies()
}

func Products() []models.Product {
	return []models.Product{
		{
			ID:               "smash",
			Name:             "SMASH",
			Composition:      "Pain brioché • Deux steaks smashés (2x45g) • Cheddar fondu • Batavia, tomate, pickles, oignons",
			ImagePlaceholder: smashImage,
			Ingredients: []models.Ingredient{
				linked("1", "Pain Martins", "1 unité", 0.53, "pain-martins", 1),
				linked("9", "Sauce Smash", "18ml", 0.068, "sauce-smash-dps", 18),
				linked("2", "Viande Smash (Boule)", "2 boules", 1.035, "steak-vrac", 2),
				linked("3", "Cheddar", "2 tranches", 0.15, "cheddar-tranche", 2),
				linked("4", "Compoté d'oignons", "15g", 0.053, "oignons-dps", 15),
				linked("5", "Sauce barbecue", "20g", 0.04, "sauce-bbq-dps", 20),
				linked("6", "Salade Batavia", "2 feuilles", 0, "batavia-unite", 2),
				linked("7", "Tomate", "1 tranche (10g)", 0, "tomate-cagette", 10),
				linked("8", "Cornichons (Pickles)", "3 rondelles (10g)", 0, "cornichons-seau", 10),
			},
			SellingPrices: standardPrices,
			MenuSideID:    defaultSide,
			MenuDrinkID:   defaultDrink,
		},
		{
			ID:               "doublecheese",
			Name:             "DOUBLECHEESE",
			Composition:      "Pain Martins • Double Steak • Double Cheddar • Oignons crus • Cornichons • Ketchup/Moutarde",
			ImagePlaceholder: smashImage,
			Ingredients: []models.Ingredient{
				linked("1", "Pain Martins", "1 unité", 0.53, "pain-martins", 1),
				linked("2", "Viande Smash (Boule)", "2 boules", 1.035, "steak-vrac", 2),
				linked("3", "Cheddar", "2 tranches", 0.15, "cheddar-tranche", 2),
				free("4", "Oignons Crus (Ciselés)", "10g", 0.02),
				linked("5", "Cornichons (Pickles)", "3 rondelles (10g)", 0, "cornichons-seau", 10),
				free("6", "Ketchup", "1 trait (10g)", 0.03),
				free("7", "Moutarde Américaine", "1 trait (5g)", 0.02),
			},
			SellingPrices: models.SellingPrices{Single: 6.90, Menu: 12.90, Student: 9.90},
			MenuSideID:    defaultSide,
			MenuDrinkID:   defaultDrink,
		},
		{
			ID:          "crunchy",
			Name:        "CRUNCHY",
			Composition: "Pain brioché • Poulet frit croustillant • Cheddar • Coleslaw • Sauce Mayo-Spicy",
			Ingredients: []models.Ingredient{
				free("1", "Pain Brioché", "1 unité", 0.55),
				free("2", "Filet Poulet Pané", "150g", 1.90),
				linked("3", "Cheddar", "1 tranche", 0.08, "cheddar-tranche", 1),
				free("4", "Coleslaw Maison", "Portion", 0.35),
				free("5", "Sauce Mayo-Spicy", "Portion", 0.15),
				free("6", "Pickles Oignons Rouges", "Portion", 0.10),
			},
			SellingPrices: standardPrices,
			MenuSideID:    defaultSide,
			MenuDrinkID:   defaultDrink,
		},
		{
			ID:          "red-smoky",
			Name:        "RED SMOKY",
			Composition: "Pain Red Bun • Steak Black Angus • Bacon fumé • Cheddar • Sauce Fumée",
			Ingredients: []models.Ingredient{
				free("1", "Red Bun (Paprika)", "1 unité", 0.70),
				free("2", "Steak Angus", "150g", 2.10),
				free("3", "Bacon Fumé", "2 tranches", 0.60),
				linked("4", "Cheddar Affiné", "1 tranche", 0.08, "cheddar-tranche", 1),
				free("5", "Oignons Caramélisés", "Portion", 0.20),
				linked("6", "Sauce Smoky BBQ", "Portion", 0.15, "sauce-bbq-dps", 20),
			},
			SellingPrices: standardPrices,
			MenuSideID:    defaultSide,
			MenuDrinkID:   defaultDrink,
		},
		{
			ID:          "truffle",
			Name:        "TRUFFLE",
			Composition: "Pain Brioché • Steak • Gouda à la truffe • Champignons • Sauce Truffe",
			Ingredients: []models.Ingredient{
				free("1", "Pain Brioché", "1 unité", 0.60),
				linked("2", "Viande Smash (Boule)", "150g", 1.725, "steak-vrac", 3.33),
				free("3", "Gouda Truffé", "1 tranche", 0.80),
				free("4", "Champignons sautés", "Portion", 0.40),
				free("5", "Sauce Mayonnaise Truffe", "Portion", 0.50),
				free("6", "Roquette", "Poignée", 0.20),
			},
			SellingPrices: standardPrices,
			MenuSideID:    defaultSide,
			MenuDrinkID:   "lemonaid-passion",
		},
		{
			ID:          "crispy",
			Name:        "CRISPY",
			Composition: "Pain Brioché • Galette de Pomme de terre • Steak • Raclette • Oignons frits",
			Ingredients: []models.Ingredient{
				free("1", "Pain Brioché", "1 unité", 0.60),
				linked("2", "Viande Smash (Boule)", "150g", 1.725, "steak-vrac", 3.33),
				free("3", "Rosti Pdt", "1 unité", 0.45),
				free("4", "Fromage Raclette", "1 tranche", 0.50),
				free("5", "Oignons Frits", "Portion", 0.15),
				free("6", "Sauce Poivre", "Portion", 0.15),
			},
			SellingPrices: standardPrices,
			MenuSideID:    defaultSide,
			MenuDrinkID:   defaultDrink,
		},
		{
			ID:          "hot-mango",
			Name:        "HOT MANGO",
			Composition: "Pain Brioché • Poulet • Chutney Mangue • Piments Jalapeños • Cheddar",
			Ingredients: []models.Ingredient{
				free("1", "Pain Brioché", "1 unité", 0.60),
				free("2", "Poulet Grillé", "1 filet", 1.80),
				free("3", "Chutney Mangue", "Portion", 0.40),
				free("4", "Jalapeños", "3 rondelles", 0.15),
				linked("5", "Cheddar", "1 tranche", 0.08, "cheddar-tranche", 1),
				free("6", "Sauce Hot", "Portion", 0.15),
			},
			SellingPrices: standardPrices,
			MenuSideID:    defaultSide,
			MenuDrinkID:   "oasis-33cl",
		},
	}
}

func item(id, name string, price, qty float64, unit, supplier string) models.SupplyItem {
	return models.SupplyItem{ID: id, Name: name, PackagePrice: price, PackageQuantity: qty, UnitLabel: unit, Supplier: supplier}
}

func Supplies() supply.Catalog {
	return supply.Catalog{
		item("steak-vrac", "Viande Smash (Boule)", 11.50, 22.22, "boule", "Boucherie Osmanli"),
		item("cheddar-tranche", "Cheddar en tranches", 6.49, 88, "tranche", "DPS Market"),
		item("pain-martins", "Pain Martin's", 31.99, 60, "unité", "DPS Market"),
		item("sauce-smash-dps", "Sauce Smash", 3.39, 900, "ml", "DPS Market"),
		item("sauce-bbq-dps", "Sauce Barbecue", 9.99, 5000, "ml", "DPS Market"),
		item("oignons-dps", "Oignons surgelés", 4.99, 2500, "g", "DPS Market"),
		item("tomate-cagette", "Tomate (Cagette 6kg)", 11.99, 6000, "g", "DPS Market"),
		item("batavia-unite", "Salade Batavia (60f)", 1.28, 60, "feuille", "DPS Market"),
		item("cornichons-seau", "Cornichons (Seau 2kg)", 15.39, 2000, "g", "DPS Market"),

		// sides, 10kg of fries at 275g a portion
		item("frites-portion", "Frites", 22.39, 36.36, "portion", "DPS Market"),
		item("frites-cheddar", "Frites Cheddar", 15.00, 16.66, "portion", "DPS Market"),
		item("frites-cheddar-bacon", "Frites Cheddar Bacon", 22.00, 16.66, "portion", "DPS Market"),
		item("frites-cheddar-oignons", "Frites Cheddar Oignons Frits", 18.00, 16.66, "portion", "DPS Market"),

		// drinks, packs of 24
		item("coca-33cl", "Coca-Cola (33cl)", 15.99, 24, "unité", "DPS Market"),
		item("coca-zero-33cl", "Coca Zéro (33cl)", 15.19, 24, "unité", "DPS Market"),
		item("fuzetea-33cl", "Fuzetea Pêche (33cl)", 12.79, 24, "unité", "DPS Market"),
		item("oasis-33cl", "Oasis Tropical (33cl)", 13.99, 24, "unité", "DPS Market"),
		item("hawai-33cl", "Hawai (33cl)", 16.85, 24, "unité", "DPS Market"),
		item("san-pelle-50cl", "San Pellegrino (50cl)", 12.00, 24, "unité", "DPS Market"),
		item("capri-sun-20cl", "Capri-Sun (20cl)", 3.59, 10, "unité", "DPS Market"),
		item("cristalline-50cl", "Cristalline (50cl)", 4.04, 24, "unité", "DPS Market"),

		item("lemonaid-passion", "Lemonaid Passion (33cl)", 17.88, 12, "unité", "Le Comptoir"),
		item("lemonaid-citron", "Lemonaid Citron Vert (33cl)", 17.88, 12, "unité", "Le Comptoir"),
		item("lemonaid-orange", "Lemonaid Orange Sanguine (33cl)", 17.88, 12, "unité", "Le Comptoir"),
		item("charitea", "ChariTea (33cl)", 17.88, 12, "unité", "Le Comptoir"),
	}
}
