package models

import "strings"

// Category is one of the fixed expense categories. The set is closed: any
// value outside it is normalised to CategoryMisc.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryGroceries     Category = "groceries"
	CategoryTravel        Category = "travel"
	CategoryStays         Category = "stays"
	CategoryBills         Category = "bills"
	CategorySubscription  Category = "subscription"
	CategoryShopping      Category = "shopping"
	CategoryGifts         Category = "gifts"
	CategoryDrinks        Category = "drinks"
	CategoryFuels         Category = "fuels"
	CategoryDebt          Category = "debt"
	CategoryHealth        Category = "health"
	CategoryEntertainment Category = "entertainment"
	CategoryMisc          Category = "misc"
)

// Categories lists every category in prompt order.
var Categories = []Category{
	CategoryFood, CategoryGroceries, CategoryTravel, CategoryStays, CategoryBills,
	CategorySubscription, CategoryShopping, CategoryGifts, CategoryDrinks, CategoryFuels,
	CategoryDebt, CategoryHealth, CategoryEntertainment, CategoryMisc,
}

var categorySet = func() map[Category]struct{} {
	m := make(map[Category]struct{}, len(Categories))
	for _, c := range Categories {
		m[c] = struct{}{}
	}
	return m
}()

// ParseCategory lower-cases and trims s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categorySet[c]; ok {
		return c, true
	}
	return CategoryMisc, false
}

// NormalizeCategory is ParseCategory without the ok flag.
func NormalizeCategory(s string) Category {
	c, _ := ParseCategory(s)
	return c
}

// Valid reports whether c belongs to the fixed set.
func (c Category) Valid() bool {
	_, ok := categorySet[c]
	return ok
}

func (c Category) String() string { return string(c) }

// CategoryNames returns the categories as plain strings.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}
