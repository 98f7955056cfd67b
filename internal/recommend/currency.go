package recommend

import (
	"math"
	"strconv"
	"strings"
)

// All monetary fields leaving the engine carry exactly one rupee marker.
const currencyMarker = "₹"

var currencyTokens = []string{
	"₹", "$", "€", "£", "¥",
	"USD", "EUR", "GBP", "INR", "JPY",
	"Rs.", "Rs", "rupees", "rupee", "dollars", "dollar",
}

// FormatINR форматирует сумму в рупиях с индийской группировкой разрядов.
func FormatINR(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	grouped := groupIndian(strconv.FormatInt(amount, 10))
	if negative {
		return "-" + currencyMarker + grouped
	}
	return currencyMarker + grouped
}

// NormalizeCurrency приводит любую денежную строку к канонической форме.
// Идемпотентна: повторная нормализация возвращает ту же строку.
func NormalizeCurrency(value string) string {
	amount, ok := ParseAmount(value)
	if !ok {
		return FormatINR(0)
	}
	return FormatINR(int64(math.Round(amount)))
}

// ParseAmount извлекает числовое значение из денежной строки.
func ParseAmount(value string) (float64, bool) {
	cleaned := strings.TrimSpace(value)
	for _, token := range currencyTokens {
		cleaned = strings.ReplaceAll(cleaned, token, "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// groupIndian applies the 2-3-3 lakh/crore digit grouping: the last three
// digits form one group, everything above groups in pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	parts := make([]string, 0, len(head)/2+1)
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}

	return strings.Join(parts, ",") + "," + tail
}
