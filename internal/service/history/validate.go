package history

import (
	"Aletheia/internal/domain/models"
	"Aletheia/pkg/util"
)

// Valid reports whether a cached history series is safe to serve: present,
// dated with parseable calendar days in ascending order, and with every
// price in (0, ceiling]. An invalid series is repaired lazily on read,
// never rejected at write time.
func Valid(series []models.PricePoint, ceiling float64) bool {
	if len(series) == 0 {
		return false
	}

	prev := ""
	for _, p := range series {
		if p.Price <= 0 || p.Price > ceiling {
			return false
		}
		if _, ok := util.ParseDay(p.Date); !ok {
			return false
		}
		if prev != "" && p.Date < prev {
			return false
		}
		prev = p.Date
	}
	return true
}
