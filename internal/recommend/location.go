package recommend

// PrimaryCity returns the most common city among favorites as a canonical
// key. On a tie the city that reached the top count first wins. It returns
// "" when no favorite has a city.
func PrimaryCity(favorites []Restaurant) string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, f := range favorites {
		key := canonical(f.City)
		if key == "" {
			continue
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	primary, best := "", 0
	for _, city := range order {
		if counts[city] > best {
			primary, best = city, counts[city]
		}
	}
	return primary
}

// inCity keeps pool entries located in city, skipping excludeID.
func inCity(pool []Restaurant, city, excludeID string) []Restaurant {
	key := canonical(city)
	out := make([]Restaurant, 0)
	for _, r := range pool {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if canonical(r.City) == key {
			out = append(out, r)
		}
	}
	return out
}
