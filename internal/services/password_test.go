package services

import (
	"strings"
	"testing"
)

func TestValidatePassword_Accepts(t *testing.T) {
	if problems := ValidatePassword("Str0ng!Pass", PasswordAttribute{Label: "username", Value: "bob"}); len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
}

func TestValidatePassword_Rules(t *testing.T) {
	cases := map[string]string{
		"short":     "too short",
		"password":  "too common",
		"87654329":  "entirely numeric",
		"Password1": "too common",
	}
	for password, want := range cases {
		problems := ValidatePassword(password)
		found := false
		for _, problem := range problems {
			if strings.Contains(problem, want) {
				found = true
			}
		}
		if !found {
			t.Fatalf("ValidatePassword(%q) = %v, want %q", password, problems, want)
		}
	}
}

func TestValidatePassword_Similarity(t *testing.T) {
	problems := ValidatePassword("alexander1", PasswordAttribute{Label: "username", Value: "alexander"})
	if len(problems) == 0 || !strings.Contains(problems[0], "similar to the username") {
		t.Fatalf("expected similarity problem, got %v", problems)
	}
	problems = ValidatePassword("q9#Lm2vX!r", PasswordAttribute{Label: "email address", Value: "bob@example.com"})
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
}

func TestQuickRatio(t *testing.T) {
	if got := quickRatio("abcd", "abcd"); got != 1 {
		t.Fatalf("identical strings ratio = %v", got)
	}
	if got := quickRatio("abcd", "wxyz"); got != 0 {
		t.Fatalf("disjoint strings ratio = %v", got)
	}
	if got := quickRatio("aab", "ab"); got != 0.8 {
		t.Fatalf("quickRatio(aab, ab) = %v", got)
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding %q", hash)
	}
	if !VerifyPassword("Str0ng!Pass", hash) {
		t.Fatalf("password should verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("wrong password must not verify")
	}
	if VerifyPassword("Str0ng!Pass", "$argon2id$broken") {
		t.Fatalf("malformed hash must not verify")
	}
}

func TestVerifyPassword_RejectsDegenerateArgon2Params(t *testing.T) {
	hash, err := HashPassword("Str0ng!Pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	parts := strings.Split(hash, "$")
	for _, params := range []string{"m=65536,t=3,p=0", "m=0,t=3,p=1", "m=65536,t=0,p=1", "m=65536,t=3,p=256", "m=65536,t=3"} {
		tampered := append([]string(nil), parts...)
		tampered[3] = params
		if VerifyPassword("Str0ng!Pass", strings.Join(tampered, "$")) {
			t.Fatalf("%s: tampered hash verified", params)
		}
	}
	emptyKey := append([]string(nil), parts...)
	emptyKey[5] = ""
	if VerifyPassword("anything", strings.Join(emptyKey, "$")) {
		t.Fatalf("hash without key material verified")
	}
}
