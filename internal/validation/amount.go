// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidAmount возвращается для сумм, не являющихся положительным
// десятичным числом с не более чем двумя знаками после точки.
var ErrInvalidAmount = errors.New("invalid amount")

// Максимальная сумма в центах. Страхует от переполнения при сложении.
const maxAmountCents = int64(1_000_000_000_000)

// ParseAmount разбирает денежную сумму вида "25" или "25.00" и возвращает
// её в центах. Знак, пустая строка и более двух знаков после точки не
// допускаются; сумма должна быть строго положительной.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && frac == "") {
		return 0, ErrInvalidAmount
	}
	if hasFrac && len(frac) > 2 {
		return 0, ErrInvalidAmount
	}

	cents := int64(0)
	for _, ch := range whole {
		if !unicode.IsDigit(ch) {
			return 0, ErrInvalidAmount
		}
		cents = cents*10 + int64(ch-'0')
		if cents > maxAmountCents {
			return 0, ErrInvalidAmount
		}
	}
	cents *= 100

	if hasFrac {
		fracCents := int64(0)
		for _, ch := range frac {
			if !unicode.IsDigit(ch) {
				return 0, ErrInvalidAmount
			}
			fracCents = fracCents*10 + int64(ch-'0')
		}
		if len(frac) == 1 {
			fracCents *= 10
		}
		cents += fracCents
	}

	if cents <= 0 || cents > maxAmountCents {
		return 0, ErrInvalidAmount
	}

	return cents, nil
}

// IsValidEmail выполняет минимальную проверку адреса электронной почты.
// Подтверждение адреса остаётся за пользователем.
func IsValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\n")
}
