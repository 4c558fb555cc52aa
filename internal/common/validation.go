package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCount parses the number of animals to create. Negative values are
// accepted and mean "create nothing".
func ParseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid number of animals: %s", s)
	}
	return n, nil
}

// ValidateCard validates a business network card name (user@network)
func ValidateCard(card string) error {
	if card == "" {
		return fmt.Errorf("card cannot be empty")
	}

	user, network, ok := strings.Cut(card, "@")
	if !ok || user == "" || network == "" {
		return fmt.Errorf("card must look like user@network: %s", card)
	}

	if strings.ContainsAny(card, " \t\n") {
		return fmt.Errorf("card cannot contain whitespace: %s", card)
	}

	return nil
}

// ValidateClass validates a fully qualified transaction class name
func ValidateClass(class string) error {
	if class == "" {
		return fmt.Errorf("transaction class cannot be empty")
	}

	parts := strings.Split(class, ".")
	if len(parts) < 2 {
		return fmt.Errorf("transaction class must be namespace-qualified: %s", class)
	}

	for _, part := range parts {
		if part == "" {
			return fmt.Errorf("invalid transaction class (empty segment): %s", class)
		}
		for i, c := range part {
			if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || (i > 0 && c >= '0' && c <= '9')) {
				return fmt.Errorf("invalid character in transaction class: %s", class)
			}
		}
	}

	return nil
}

// ValidateOwner validates a participant relationship such as
// resource:org.acme.beef_network.Farmer#Fazendeiro_1
func ValidateOwner(owner string) error {
	ref, found := strings.CutPrefix(owner, "resource:")
	if !found {
		return fmt.Errorf("owner must be a resource reference (resource:<type>#<id>): %s", owner)
	}

	typ, id, ok := strings.Cut(ref, "#")
	if !ok || id == "" {
		return fmt.Errorf("owner reference is missing an identifier: %s", owner)
	}

	return ValidateClass(typ)
}

// ValidateNotEmpty validates that a string is not empty
func ValidateNotEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("value cannot be empty")
	}
	return nil
}
