package harvest

import "github.com/shopspring/decimal"

type CreateInput struct {
	CropType string
	Amount   decimal.Decimal
	Location string
	Notes    string
}

// EditInput carries only the fields the farmer sent; nil leaves a field unchanged.
type EditInput struct {
	CropType *string
	Amount   *decimal.Decimal
	Location *string
	Notes    *string
}
