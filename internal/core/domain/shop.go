package domain

import "strings"

// ShopCode is the stable identifier for a supported storefront.
type ShopCode string

// Supported storefronts. Codes are persisted; never rename them.
const (
	ShopTecStore    ShopCode = "tecstore"
	ShopNeptun      ShopCode = "neptun"
	ShopGjirafaMall ShopCode = "gjirafamall"
	ShopAztech      ShopCode = "aztech"
	ShopShopAz      ShopCode = "shopaz"
)

// AllShopCodes returns every supported shop code in declaration order.
func AllShopCodes() []ShopCode {
	return []ShopCode{ShopTecStore, ShopNeptun, ShopGjirafaMall, ShopAztech, ShopShopAz}
}

// ParseShopCode resolves a shop code from user input. It accepts the
// stable code as well as loosely formatted display names ("Neptun KS").
func ParseShopCode(s string) (ShopCode, error) {
	normalized := strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.TrimSpace(s)))
	for _, code := range AllShopCodes() {
		if normalized == string(code) {
			return code, nil
		}
	}
	// Display-name forms collapse to the code once separators are stripped,
	// except "neptunks" which carries the country suffix.
	if normalized == "neptunks" {
		return ShopNeptun, nil
	}
	return "", ErrUnknownShop
}

// Display returns the human-readable storefront name.
func (c ShopCode) Display() string {
	switch c {
	case ShopTecStore:
		return "TecStore"
	case ShopNeptun:
		return "Neptun KS"
	case ShopGjirafaMall:
		return "GjirafaMall"
	case ShopAztech:
		return "Aztech"
	case ShopShopAz:
		return "ShopAz"
	default:
		return string(c)
	}
}

// Valid reports whether the code belongs to the supported set.
func (c ShopCode) Valid() bool {
	for _, code := range AllShopCodes() {
		if c == code {
			return true
		}
	}
	return false
}

// Shop is a storefront whose listings are scraped.
type Shop struct {
	// ID is the persistent identifier assigned by the store.
	ID string

	// Code is the stable shop identifier.
	Code ShopCode

	// Name is the display name shown to users.
	Name string

	// BaseURL is the storefront's root URL.
	BaseURL string
}
