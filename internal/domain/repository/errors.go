package repository

import "errors"

// Storage-level uniqueness conflicts. Implementations return these (possibly
// wrapped) so callers can map them to domain errors.
var (
	ErrPendingOrderExists = errors.New("pending order already exists for buyer and listing")
	ErrActiveChatExists   = errors.New("active chat already exists for listing and participants")
)
