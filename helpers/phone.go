package helpers

import "strings"

func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneCandidates expands a phone number into the stored forms it may match:
// local with trunk zero, international with and without "+", and the bare
// subscriber number. Non-numeric input (a username) is returned as is.
func PhoneCandidates(input, countryCode string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	if !looksLikePhone(input) {
		return []string{input}
	}
	digits := DigitsOnly(input)

	var subscriber string
	switch {
	case countryCode != "" && strings.HasPrefix(digits, countryCode) && len(digits) > len(countryCode)+6:
		subscriber = strings.TrimPrefix(digits[len(countryCode):], "0")
	case strings.HasPrefix(digits, "0"):
		subscriber = strings.TrimLeft(digits, "0")
	default:
		subscriber = digits
	}

	seen := map[string]bool{}
	var out []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	add(input)
	add(digits)
	if subscriber != "" {
		add("0" + subscriber)
		add(subscriber)
		if countryCode != "" {
			add(countryCode + subscriber)
			add("+" + countryCode + subscriber)
			add(countryCode + "0" + subscriber)
		}
	}
	return out
}

func looksLikePhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits > 0
}
