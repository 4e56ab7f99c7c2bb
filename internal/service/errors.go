package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrNotAuthorized      = errors.New("not authorized")

	ErrInvalidCategoryRef = errors.New("invalid category id")
	ErrInvalidShopRef     = errors.New("invalid shop id")
	ErrInvalidProductRef  = errors.New("invalid product id")
	ErrCategoryInUse      = errors.New("category still has active shops")

	ErrEndBeforeStart  = errors.New("end date must be after start date")
	ErrEndDateInPast   = errors.New("end date must be in the future")
	ErrInvalidFloor    = errors.New("floor must be at least 1")
	ErrInvalidPriority = errors.New("priority must be between 0 and 10")
	ErrNegativePrice   = errors.New("price cannot be negative")

	ErrOfferNotActive = errors.New("offer is not currently active")
)
