package domain

import "strings"

// Category classifies a tracked product.
type Category string

const (
	CategorySmartphone Category = "smartphone"
	CategoryLaptop     Category = "laptop"
	CategoryAccessory  Category = "accessory"
)

// ParseCategory resolves a category from user input.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategorySmartphone:
		return CategorySmartphone, nil
	case CategoryLaptop:
		return CategoryLaptop, nil
	case CategoryAccessory:
		return CategoryAccessory, nil
	}
	return "", ErrUnknownCategory
}
