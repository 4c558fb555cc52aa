package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zoro11031/beef-tracer/create-animals/internal/animal"
	"github.com/zoro11031/beef-tracer/create-animals/internal/composer"
)

// Configuration key constants to prevent typos and enable autocomplete
const (
	// Composer invocation
	KeySubmitCommand = "SUBMIT_COMMAND" // Command prefix, split into argv words
	KeyCard          = "CARD"
	KeyClass         = "TRANSACTION_CLASS"
	KeyTimeout       = "SUBMIT_TIMEOUT" // Go duration, "0" disables

	// Animal attributes shared by every record
	KeyOwner    = "ANIMAL_OWNER"
	KeyBreed    = "ANIMAL_BREED"
	KeyLocation = "ANIMAL_LOCATION"
	KeyWeight   = "ANIMAL_WEIGHT"

	// Logging
	KeyLogLevel = "LOG_LEVEL"
)

// Default values for configuration keys
var Defaults = map[string]string{
	KeySubmitCommand: composer.DefaultSubmitCommand,
	KeyCard:          composer.DefaultCard,
	KeyClass:         animal.DefaultClass,
	KeyTimeout:       "0",
	KeyOwner:         animal.DefaultOwner,
	KeyBreed:         animal.DefaultBreed,
	KeyLocation:      animal.DefaultLocation,
	KeyWeight:        animal.DefaultWeight,
	KeyLogLevel:      "error",
}

// KnownKeys returns every supported key in sorted order.
func KnownKeys() []string {
	keys := make([]string, 0, len(Defaults))
	for k := range Defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateKey rejects keys the tool does not read.
func ValidateKey(key string) error {
	if _, ok := Defaults[key]; !ok {
		return fmt.Errorf("unknown config key: %s (known keys: %s)", key, strings.Join(KnownKeys(), ", "))
	}
	return nil
}
