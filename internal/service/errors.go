package service

import (
	"fmt"

	"github.com/dukerupert/presswork/internal/domain"
)

// Validation failures shown next to the add-to-cart control. They are built
// per call because ValidationError is mutable.

func errQuantityTooLarge(op string) error {
	return domain.NewValidationError(op, "quantity", fmt.Sprintf("must be at most %d", domain.MaxLineQuantity))
}

func errSelectionIncomplete(op string) error {
	return domain.NewValidationError(op, "variants", "Select an option for every group")
}

func errUnknownVariant(op string) error {
	return domain.NewValidationError(op, "variants", "Selection does not match this product's options")
}

var (
	ErrMissingProductID = domain.Errorf(domain.EINVALID, "catalog.load", "Product id is required")
	ErrSizeNotOffered   = domain.Errorf(domain.EINVALID, "price.calculate", "This product does not take custom sizes")
)
