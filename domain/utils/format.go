package utils

import "fmt"

// FormatCoins renders a coin amount for user-facing messages, switching to
// short notation for large balances (12.5k coins, 3.20M coins).
func FormatCoins(value int64) string {
	abs := value
	sign := ""
	if value < 0 {
		abs = -value
		sign = "-"
	}

	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%s%.2fM coins", sign, float64(abs)/1_000_000)
	case abs >= 10_000:
		return fmt.Sprintf("%s%dk coins", sign, abs/1_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s%.1fk coins", sign, float64(abs)/1_000)
	default:
		return fmt.Sprintf("%s%d coins", sign, abs)
	}
}

// PluralDays renders a day count for cooldown messages
func PluralDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
