package domain

import "github.com/google/uuid"

// EditPayloadVersion is bumped whenever the hand-off shape changes.
const EditPayloadVersion = 1

// EditPayload is handed to the configurator when a cart line is opened for
// editing. Version 0 marks payloads written before versioning existed.
type EditPayload struct {
	Version    int           `json:"version" validate:"gte=0"`
	CartLineID uuid.UUID     `json:"cart_id" validate:"required"`
	Quantity   int32         `json:"quantity" validate:"gte=1"`
	Variants   []EditVariant `json:"variants" validate:"dive"`
}

type EditVariant struct {
	Group          string `json:"group"`
	Value          string `json:"value"`
	VariantValueID int64  `json:"product_variant_value_id"`
}

// RestoreStrategy records how an edit payload entry was mapped back onto the catalog.
type RestoreStrategy string

const (
	RestoreByID   RestoreStrategy = "id"
	RestoreByName RestoreStrategy = "name"
)

// RestoredSelection is the result of mapping an edit payload onto a freshly
// loaded catalog. Unmatched holds entries neither ids nor names could place.
type RestoredSelection struct {
	CartLineID uuid.UUID
	Quantity   int32
	Selection  Selection
	Unmatched  []EditVariant
	Fuzzy      int
}
