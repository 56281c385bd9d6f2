package domain

import "errors"

var (
	ErrFeeStructureNotFound = errors.New("fee_structure_not_found")
	ErrEmptySpecificMonths  = errors.New("empty_specific_months")
	ErrInvalidEntryAmount   = errors.New("invalid_entry_amount")
)
