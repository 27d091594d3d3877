package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ResolveServices matches the requested ids against a salon's catalog and
// sums their durations. Every requested entry counts, so an id listed twice
// contributes its duration twice.
func ResolveServices(salonServices []Service, requested []uuid.UUID) (int, []Service, error) {
	if len(requested) == 0 {
		return 0, nil, InvalidRequest("at least one service is required")
	}

	byID := make(map[uuid.UUID]Service, len(salonServices))
	for _, svc := range salonServices {
		byID[svc.ID] = svc
	}

	total := 0
	matched := make([]Service, 0, len(requested))
	for _, id := range requested {
		svc, ok := byID[id]
		if !ok {
			return 0, nil, NotFound(fmt.Sprintf("service %s is not offered by this salon", id))
		}
		if svc.DurationMinutes <= 0 {
			return 0, nil, InvalidRequest(fmt.Sprintf("service %s has no duration", id))
		}
		total += svc.DurationMinutes
		matched = append(matched, svc)
	}
	return total, matched, nil
}
