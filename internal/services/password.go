package services

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

//go:embed common_passwords.txt
var commonPasswordsRaw string

var commonPasswords = func() map[string]struct{} {
	set := map[string]struct{}{}
	for _, line := range strings.Split(commonPasswordsRaw, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line != "" {
			set[line] = struct{}{}
		}
	}
	return set
}()

const (
	minPasswordLength = 8
	maxSimilarity     = 0.7
)

var nonWord = regexp.MustCompile(`\W+`)

// PasswordAttribute is a user attribute the password must not resemble.
type PasswordAttribute struct {
	Label string
	Value string
}

// ValidatePassword applies the password policy and returns every failed rule.
func ValidatePassword(password string, attrs ...PasswordAttribute) []string {
	problems := []string{}
	if problem := similarityProblem(password, attrs); problem != "" {
		problems = append(problems, problem)
	}
	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		problems = append(problems, "This password is too common.")
	}
	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	return problems
}

func similarityProblem(password string, attrs []PasswordAttribute) string {
	lowered := strings.ToLower(password)
	for _, attr := range attrs {
		value := strings.ToLower(attr.Value)
		if value == "" {
			continue
		}
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			if exceedsLengthRatio(lowered, part) {
				continue
			}
			if quickRatio(lowered, part) >= maxSimilarity {
				return "The password is too similar to the " + attr.Label + "."
			}
		}
	}
	return ""
}

// exceedsLengthRatio skips attribute values too short to be meaningfully similar.
func exceedsLengthRatio(password, value string) bool {
	pwdLen := len([]rune(password))
	valueLen := len([]rune(value))
	bound := maxSimilarity / 2 * float64(pwdLen)
	return pwdLen >= 10*valueLen && float64(valueLen) < bound
}

// quickRatio is 2*M/T where M counts characters shared by both strings as multisets.
func quickRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	avail := map[rune]int{}
	for _, r := range rb {
		avail[r]++
	}
	matches := 0
	for _, r := range ra {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
