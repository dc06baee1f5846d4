package inputrequest

import "time"

type ItemInput struct {
	Name     string
	Quantity int
	Unit     string
}

type CreateInput struct {
	Items         []ItemInput
	PreferredDate *time.Time
	Notes         string
}

type ReviewInput struct {
	Status  string
	Remarks string
}
