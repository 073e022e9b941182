package connectors

import (
	"fmt"

	"github.com/custodia-labs/pricewatch/internal/connectors/aztech"
	"github.com/custodia-labs/pricewatch/internal/connectors/gjirafamall"
	"github.com/custodia-labs/pricewatch/internal/connectors/neptun"
	"github.com/custodia-labs/pricewatch/internal/connectors/shopaz"
	"github.com/custodia-labs/pricewatch/internal/connectors/tecstore"
	"github.com/custodia-labs/pricewatch/internal/core/domain"
	"github.com/custodia-labs/pricewatch/internal/core/ports/driven"
)

// Build assembles the connectors for the given shop codes, in the
// order given. A shop may contribute more than one connector;
// GjirafaMall runs both its listing and its pinned product page. The
// fetcher is handed to connectors that fetch beyond their listing
// pages. An unknown code fails the whole build.
func Build(shops []domain.ShopCode, fetcher driven.Fetcher) ([]driven.Connector, error) {
	if len(shops) == 0 {
		shops = domain.AllShopCodes()
	}

	var built []driven.Connector
	for _, code := range shops {
		switch code {
		case domain.ShopTecStore:
			built = append(built, tecstore.New())
		case domain.ShopNeptun:
			built = append(built, neptun.New())
		case domain.ShopGjirafaMall:
			built = append(built, gjirafamall.New(fetcher), gjirafamall.NewProduct())
		case domain.ShopAztech:
			built = append(built, aztech.New())
		case domain.ShopShopAz:
			built = append(built, shopaz.New())
		default:
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownShop, code)
		}
	}
	return built, nil
}
