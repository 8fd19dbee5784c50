package booking

import (
	"context"

	"github.com/nekogravitycat/brf-booking-backend/internal/resource"
)

// houseLookup resolves an apartment's house on demand; UnknownHouse is "".
type houseLookup func(ctx context.Context, apartmentID string) (string, error)

// allowAccess applies the access rules to an active resource.
// The deny list wins over the allow list, and the house is only looked up
// when the resource restricts houses.
func allowAccess(ctx context.Context, res *resource.Resource, apartmentID string, isAdmin bool, house houseLookup) (bool, error) {
	if res == nil || !res.IsActive {
		return false, nil
	}
	if isAdmin {
		return true, nil
	}
	if res.DenyApartmentIDs.Contains(apartmentID) {
		return false, nil
	}
	if res.AllowHouses.Empty() {
		return true, nil
	}

	h, err := house(ctx, apartmentID)
	if err != nil {
		return false, err
	}
	if h == "" {
		return false, nil
	}
	return res.AllowHouses.Contains(h), nil
}

// withinFutureWindow checks daysAhead against [MinFutureDays, MaxFutureDays).
// Past dates are only held to the upper bound.
func withinFutureWindow(res *resource.Resource, daysAhead int) bool {
	if daysAhead >= res.MaxFutureDays {
		return false
	}
	if daysAhead >= 0 && daysAhead < res.MinFutureDays {
		return false
	}
	return true
}
