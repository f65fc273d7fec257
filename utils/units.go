package utils

import (
	"fmt"
	"time"
)

func SiUnits(number float64, decimals int) string {
	switch {
	case number >= 1e12:
		return fmt.Sprintf("%.*f T", decimals, number/1e12)
	case number >= 1e9:
		return fmt.Sprintf("%.*f G", decimals, number/1e9)
	case number >= 1e6:
		return fmt.Sprintf("%.*f M", decimals, number/1e6)
	case number >= 1e3:
		return fmt.Sprintf("%.*f K", decimals, number/1e3)
	}

	return fmt.Sprintf("%.*f ", decimals, number)
}

// HashRate formats hashes done over elapsed as "<n> <si>H/s"
func HashRate(hashes uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return SiUnits(0, 2) + "H/s"
	}
	return SiUnits(float64(hashes)/elapsed.Seconds(), 2) + "H/s"
}
