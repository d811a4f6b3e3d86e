package flight

import (
	"sort"

	"flybooker/pkg/logger"
)

func (s *Service) applySorting(flights []Flight, opts SortOptions) []Flight {
	if len(flights) == 0 {
		return flights
	}

	sorted := make([]Flight, len(flights))
	copy(sorted, flights)

	switch opts.By {
	case "price":
		s.sortByPrice(sorted, opts.Order)
	case "duration":
		s.sortByDuration(sorted, opts.Order)
	case "departure_time":
		s.sortByDepartureTime(sorted, opts.Order)
	default:
		s.logger.Warn("invalid sort criteria", logger.Field{Key: "sort_by", Value: opts.By})
	}

	return sorted
}

// Using Sort Stable to prevent UI jumping when values are equal
func (s *Service) sortByPrice(flights []Flight, order string) {
	sort.SliceStable(flights, func(i, j int) bool {
		if order == "desc" {
			return flights[i].Price > flights[j].Price
		}
		return flights[i].Price < flights[j].Price
	})
}

func (s *Service) sortByDuration(flights []Flight, order string) {
	sort.SliceStable(flights, func(i, j int) bool {
		if order == "desc" {
			return flights[i].DurationMinutes > flights[j].DurationMinutes
		}
		return flights[i].DurationMinutes < flights[j].DurationMinutes
	})
}

func (s *Service) sortByDepartureTime(flights []Flight, order string) {
	sort.SliceStable(flights, func(i, j int) bool {
		if order == "desc" {
			return flights[i].DepartureTime.After(flights[j].DepartureTime)
		}
		return flights[i].DepartureTime.Before(flights[j].DepartureTime)
	})
}
