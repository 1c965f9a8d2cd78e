package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jwtkit/jwtkit/internal/issuer"
	"github.com/jwtkit/jwtkit/internal/models"
)

const maxStringLength = 255

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// validate collects errors and returns a *ValidationError if any exist.
func validate(checks ...func() string) error {
	var errs []string
	for _, check := range checks {
		if msg := check(); msg != "" {
			errs = append(errs, msg)
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func requireNonEmpty(field, value string) string {
	if strings.TrimSpace(value) == "" {
		return fmt.Sprintf("%s is required", field)
	}
	return ""
}

func checkMaxLength(field, value string, max int) string {
	if len(value) > max {
		return fmt.Sprintf("%s exceeds maximum length of %d", field, max)
	}
	return ""
}

func checkInList(field, value string, allowed []string) string {
	for _, v := range allowed {
		if value == v {
			return ""
		}
	}
	return fmt.Sprintf("%s has invalid value %q (allowed: %s)", field, value, strings.Join(allowed, ", "))
}

func checkInIntList(field string, value int, allowed []int) string {
	for _, v := range allowed {
		if value == v {
			return ""
		}
	}
	parts := make([]string, len(allowed))
	for i, v := range allowed {
		parts[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("%s has invalid value %d (allowed: %s)", field, value, strings.Join(parts, ", "))
}

func checkPositive(field string, value int) string {
	if value <= 0 {
		return fmt.Sprintf("%s must be positive", field)
	}
	return ""
}

func checkNotReserved(field, claim string) string {
	if issuer.IsReservedClaim(claim) {
		return fmt.Sprintf("%s uses reserved claim %q", field, claim)
	}
	return ""
}

// ValidateName validates a name path parameter.
func ValidateName(name string) error {
	return validate(
		func() string { return requireNonEmpty("name", name) },
		func() string { return checkMaxLength("name", name, maxStringLength) },
	)
}

// validateKeyRequest validates key creation parameters after defaults
// have been applied.
func validateKeyRequest(name, algorithm string, keySize int) error {
	return validate(
		func() string { return requireNonEmpty("name", name) },
		func() string { return checkMaxLength("name", name, maxStringLength) },
		func() string { return checkInList("algorithm", algorithm, models.Algorithms) },
		func() string { return checkInIntList("key_size", keySize, models.KeySizes) },
	)
}

// validateProfile validates required fields, the TTL, audiences and
// static claims of a token profile.
func validateProfile(p *models.Profile) error {
	checks := []func() string{
		func() string { return requireNonEmpty("name", p.Name) },
		func() string { return checkMaxLength("name", p.Name, maxStringLength) },
		func() string { return requireNonEmpty("key_name", p.KeyName) },
		func() string { return checkPositive("ttl_seconds", p.TTLSeconds) },
	}

	for i, aud := range p.Audiences {
		aud := aud
		i := i
		checks = append(checks, func() string {
			return requireNonEmpty(fmt.Sprintf("audiences[%d]", i), aud)
		})
		checks = append(checks, func() string {
			return checkMaxLength(fmt.Sprintf("audiences[%d]", i), aud, maxStringLength)
		})
	}

	for claim := range p.Claims {
		claim := claim
		checks = append(checks, func() string {
			return checkNotReserved("claims", claim)
		})
	}

	return validate(checks...)
}

// validateTokenRequest validates the subject and request claims on
// token issuance.
func validateTokenRequest(subject string, claims map[string]any) error {
	checks := []func() string{
		func() string { return requireNonEmpty("subject", subject) },
		func() string { return checkMaxLength("subject", subject, maxStringLength) },
	}

	for claim := range claims {
		claim := claim
		checks = append(checks, func() string {
			return checkNotReserved("claims", claim)
		})
	}

	return validate(checks...)
}
