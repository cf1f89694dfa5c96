package seed

import "github.com/Rahnken/recipe-tracker/internal/models"

type ingredientLine struct {
	Name     string
	Quantity float64
	Unit     string
	Notes    string
}

type defaultRecipe struct {
	Name         string
	Description  string
	Servings     int
	PrepTime     int
	CookTime     int
	MealType     models.MealTypes
	Ingredients  []ingredientLine
	Instructions []string
}

// DefaultRecipeNames lists the seeded recipes in insertion order.
func DefaultRecipeNames() []string {
	names := make([]string, len(defaultRecipes))
	for i, r := range defaultRecipes {
		names[i] = r.Name
	}
	return names
}

var defaultRecipes = []defaultRecipe{
	{
		Name:        "Classic Oatmeal",
		Description: "Hearty breakfast oatmeal with optional toppings",
		Servings:    1,
		PrepTime:    2,
		CookTime:    5,
		MealType:    models.MealTypes{models.MealTypeBreakfast},
		Ingredients: []ingredientLine{
			{Name: "Rolled Oats", Quantity: 50, Unit: "grams"},
			{Name: "Water", Quantity: 250, Unit: "ml"},
			{Name: "Salt", Quantity: 0.25, Unit: "teaspoon"},
			{Name: "Honey", Quantity: 1, Unit: "tablespoon", Notes: "optional"},
			{Name: "Banana", Quantity: 1, Unit: "whole", Notes: "optional"},
		},
		Instructions: []string{
			"Add oats and water to a microwave-safe bowl",
			"Add a pinch of salt",
			"Microwave for 2-3 minutes, stirring halfway",
			"Add honey and sliced banana if desired",
		},
	},
	{
		Name:        "Scrambled Eggs on Toast",
		Description: "Quick and protein-rich breakfast",
		Servings:    1,
		PrepTime:    5,
		CookTime:    5,
		MealType:    models.MealTypes{models.MealTypeBreakfast},
		Ingredients: []ingredientLine{
			{Name: "Eggs", Quantity: 2, Unit: "whole"},
			{Name: "Milk", Quantity: 30, Unit: "ml"},
			{Name: "Butter", Quantity: 1, Unit: "tablespoon"},
			{Name: "Salt", Quantity: 0.25, Unit: "teaspoon"},
			{Name: "Black Pepper", Quantity: 0.25, Unit: "teaspoon"},
			{Name: "Bread", Quantity: 2, Unit: "slices"},
		},
		Instructions: []string{
			"Beat eggs with milk, salt, and pepper",
			"Melt butter in a non-stick pan over medium heat",
			"Pour in egg mixture and stir gently until set",
			"Toast bread while eggs are cooking",
			"Serve eggs over toast",
		},
	},
	{
		Name:        "Chicken Caesar Salad",
		Description: "Classic salad with grilled chicken and creamy dressing",
		Servings:    2,
		PrepTime:    15,
		CookTime:    15,
		MealType:    models.MealTypes{models.MealTypeLunch},
		Ingredients: []ingredientLine{
			{Name: "Chicken Breast", Quantity: 300, Unit: "grams"},
			{Name: "Romaine Lettuce", Quantity: 1, Unit: "head"},
			{Name: "Parmesan Cheese", Quantity: 50, Unit: "grams"},
			{Name: "Caesar Dressing", Quantity: 4, Unit: "tablespoons"},
			{Name: "Croutons", Quantity: 50, Unit: "grams"},
			{Name: "Olive Oil", Quantity: 1, Unit: "tablespoon"},
			{Name: "Salt", Quantity: 0.5, Unit: "teaspoon"},
			{Name: "Black Pepper", Quantity: 0.5, Unit: "teaspoon"},
		},
		Instructions: []string{
			"Season chicken with salt and pepper",
			"Heat olive oil in a pan and cook chicken until done",
			"Chop romaine lettuce and place in a large bowl",
			"Slice cooked chicken",
			"Add chicken, croutons, and parmesan to lettuce",
			"Toss with caesar dressing before serving",
		},
	},
	{
		Name:        "Spaghetti Bolognese",
		Description: "Classic Italian pasta with meat sauce",
		Servings:    4,
		PrepTime:    15,
		CookTime:    45,
		MealType:    models.MealTypes{models.MealTypeDinner},
		Ingredients: []ingredientLine{
			{Name: "Spaghetti", Quantity: 400, Unit: "grams"},
			{Name: "Ground Beef", Quantity: 500, Unit: "grams"},
			{Name: "Onion", Quantity: 1, Unit: "whole"},
			{Name: "Garlic", Quantity: 3, Unit: "cloves"},
			{Name: "Tomato Sauce", Quantity: 700, Unit: "ml"},
			{Name: "Olive Oil", Quantity: 2, Unit: "tablespoons"},
			{Name: "Salt", Quantity: 1, Unit: "teaspoon"},
			{Name: "Black Pepper", Quantity: 0.5, Unit: "teaspoon"},
			{Name: "Dried Oregano", Quantity: 1, Unit: "teaspoon"},
			{Name: "Parmesan Cheese", Quantity: 50, Unit: "grams", Notes: "for serving"},
		},
		Instructions: []string{
			"Dice onion and mince garlic",
			"Heat olive oil and cook onion until softened",
			"Add garlic and cook for 1 minute",
			"Add ground beef and cook until browned",
			"Add tomato sauce, oregano, salt, and pepper",
			"Simmer for 30 minutes",
			"Cook spaghetti according to package instructions",
			"Serve sauce over pasta with grated parmesan",
		},
	},
	{
		Name:        "Trail Mix",
		Description: "Healthy snack mix of nuts and dried fruits",
		Servings:    4,
		PrepTime:    5,
		CookTime:    0,
		MealType:    models.MealTypes{models.MealTypeSnack},
		Ingredients: []ingredientLine{
			{Name: "Almonds", Quantity: 100, Unit: "grams"},
			{Name: "Cashews", Quantity: 100, Unit: "grams"},
			{Name: "Raisins", Quantity: 50, Unit: "grams"},
			{Name: "Dried Cranberries", Quantity: 50, Unit: "grams"},
			{Name: "Dark Chocolate Chips", Quantity: 50, Unit: "grams"},
		},
		Instructions: []string{
			"Combine all ingredients in a large bowl",
			"Mix well",
			"Store in an airtight container",
		},
	},
}
