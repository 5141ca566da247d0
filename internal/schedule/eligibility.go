package schedule

import "github.com/shubhammalhotra1708/booking-app-sub000/internal/model"

// Eligibility describes which staff may perform a service. When Restricted
// is false every active staff member of the shop qualifies.
type Eligibility struct {
	Restricted bool
	StaffIDs   []model.StaffID
}

// ResolveEligibility derives the policy from a service's capability rows.
func ResolveEligibility(mappings []*model.StaffService) Eligibility {
	if len(mappings) == 0 {
		return Eligibility{}
	}
	seen := make(map[model.StaffID]struct{}, len(mappings))
	ids := make([]model.StaffID, 0, len(mappings))
	for _, m := range mappings {
		if _, ok := seen[m.StaffID]; ok {
			continue
		}
		seen[m.StaffID] = struct{}{}
		ids = append(ids, m.StaffID)
	}
	return Eligibility{Restricted: true, StaffIDs: ids}
}

// Allows reports whether the given staff member is eligible.
func (e Eligibility) Allows(id model.StaffID) bool {
	if !e.Restricted {
		return true
	}
	for _, s := range e.StaffIDs {
		if s == id {
			return true
		}
	}
	return false
}
