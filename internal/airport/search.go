package airport

import (
	"fmt"
	"sort"
	"strings"
)

const (
	minQueryLength = 2
	maxSuggestions = 6
)

// Suggestion is one autocomplete candidate. The consumer stores Code and
// shows DisplayText.
type Suggestion struct {
	Code            string `json:"code"`
	DisplayText     string `json:"displayText"`
	FullDisplayText string `json:"fullDisplayText"`
	City            string `json:"city"`
	AirportName     string `json:"airportName"`
	Country         string `json:"country"`
	MatchScore      int    `json:"matchScore"`
}

// Search returns at most 6 scored suggestions for the query. Queries shorter
// than 2 characters yield no results. Only the highest applicable rule fires
// per entry: city starts-with (3), city contains (2), airport name contains
// (2), alternative name contains (1), code contains (1).
func Search(query string) []Suggestion {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return nil
	}

	q := strings.ToLower(query)
	results := make([]Suggestion, 0)

	for code, details := range Directory {
		score := matchScore(code, details, q)
		if score == 0 {
			continue
		}

		results = append(results, Suggestion{
			Code:            code,
			DisplayText:     fmt.Sprintf("%s (%s)", details.City, code),
			FullDisplayText: fmt.Sprintf("%s - %s", details.City, details.AirportName),
			City:            details.City,
			AirportName:     details.AirportName,
			Country:         details.Country,
			MatchScore:      score,
		})
	}

	// Highest score first, ties broken by city name for a stable order.
	sort.Slice(results, func(i, j int) bool {
		if results[i].MatchScore != results[j].MatchScore {
			return results[i].MatchScore > results[j].MatchScore
		}
		return results[i].City < results[j].City
	})

	if len(results) > maxSuggestions {
		results = results[:maxSuggestions]
	}
	return results
}

func matchScore(code string, details Airport, q string) int {
	city := strings.ToLower(details.City)

	switch {
	case strings.HasPrefix(city, q):
		return 3
	case strings.Contains(city, q):
		return 2
	case strings.Contains(strings.ToLower(details.AirportName), q):
		return 2
	}

	for _, alt := range details.AlternativeNames {
		if strings.Contains(strings.ToLower(alt), q) {
			return 1
		}
	}

	if strings.Contains(strings.ToLower(code), q) {
		return 1
	}
	return 0
}
