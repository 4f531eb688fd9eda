package generation

// CuisineRandom is the unset cuisine sentinel sent to the backend.
const CuisineRandom = "Random"

// DietaryFilter is a named restriction drawn from a fixed vocabulary.
type DietaryFilter string

const (
	DietaryVegan      DietaryFilter = "Vegan"
	DietaryVegetarian DietaryFilter = "Vegetarian"
	DietaryGlutenFree DietaryFilter = "Gluten-Free"
	DietaryDairyFree  DietaryFilter = "Dairy-Free"
	DietaryKeto       DietaryFilter = "Keto"
	DietaryPaleo      DietaryFilter = "Paleo"
)

// DietaryFilters lists the vocabulary in display order.
var DietaryFilters = []DietaryFilter{
	DietaryVegan,
	DietaryVegetarian,
	DietaryGlutenFree,
	DietaryDairyFree,
	DietaryKeto,
	DietaryPaleo,
}

// ParseDietaryFilter resolves a filter name against the vocabulary.
func ParseDietaryFilter(name string) (DietaryFilter, error) {
	for _, f := range DietaryFilters {
		if string(f) == name {
			return f, nil
		}
	}
	return "", ErrUnknownDietaryFilter
}

// Cuisines lists the selectable cuisine styles. Random is the unset value.
var Cuisines = []string{
	CuisineRandom,
	"Italian",
	"Mexican",
	"Indian",
	"Chinese",
	"Mediterranean",
	"Thai",
	"French",
	"Japanese",
	"Greek",
}

// IngredientCategory groups the predefined ingredient buttons.
type IngredientCategory struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// IngredientCatalog is the predefined set of ingredients offered for selection.
// Custom ingredients are accepted in addition to these.
var IngredientCatalog = []IngredientCategory{
	{Name: "Meats & Proteins", Items: []string{"Chicken", "Beef", "Fish", "Pork", "Lamb", "Shrimp", "Tofu", "Tempeh", "Eggs"}},
	{Name: "Vegetables", Items: []string{"Carrot", "Spinach", "Onion", "Tomato", "Bell Pepper", "Zucchini", "Cauliflower", "Broccoli"}},
	{Name: "Spices & Herbs", Items: []string{"Garlic", "Ginger", "Basil", "Oregano", "Thyme", "Cumin", "Turmeric", "Paprika", "Chili Flakes"}},
	{Name: "Base & Carbs", Items: []string{"Rice", "Pasta", "Potatoes", "Couscous", "Quinoa", "Bread"}},
}
