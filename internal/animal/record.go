// Package animal models the synthetic livestock records submitted to the
// beef-tracer network and renders the createAnimal transaction payload.
package animal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultClass is the transaction type registered by the beef network model.
	DefaultClass = "org.acme.beef_network.createAnimal"

	DefaultOwner    = "resource:org.acme.beef_network.Farmer#Fazendeiro_1"
	DefaultBreed    = "Nelore"
	DefaultLocation = "Santa Helena de Goias/GO"
	DefaultWeight   = "106.51 Kg"
)

// Attributes holds the fields shared by every record in a batch.
type Attributes struct {
	Owner    string `yaml:"owner"`
	Breed    string `yaml:"breed"`
	Location string `yaml:"location"`
	Weight   string `yaml:"weight"`
}

// DefaultAttributes returns the attribute set used when nothing is overridden.
func DefaultAttributes() Attributes {
	return Attributes{
		Owner:    DefaultOwner,
		Breed:    DefaultBreed,
		Location: DefaultLocation,
		Weight:   DefaultWeight,
	}
}

// Merge returns a copy of a with every non-empty field of o applied on top.
func (a Attributes) Merge(o Attributes) Attributes {
	if o.Owner != "" {
		a.Owner = o.Owner
	}
	if o.Breed != "" {
		a.Breed = o.Breed
	}
	if o.Location != "" {
		a.Location = o.Location
	}
	if o.Weight != "" {
		a.Weight = o.Weight
	}
	return a
}

// Validate checks that no attribute is blank.
func (a Attributes) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"owner", a.Owner},
		{"breed", a.Breed},
		{"location", a.Location},
		{"weight", a.Weight},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("attribute %s cannot be empty", f.name)
		}
	}
	return nil
}

// Record is one animal about to be created on the ledger.
type Record struct {
	GeneticID string
	Attributes
}

// NewRecord builds the record for a numeric genetic ID.
func NewRecord(id int64, attrs Attributes) Record {
	return Record{
		GeneticID:  strconv.FormatInt(id, 10),
		Attributes: attrs,
	}
}

// Payload renders the transaction JSON for class. The field order and the
// ", " separators match what the composer network expects; each value is
// escaped on its own.
func (r Record) Payload(class string) string {
	fields := [][2]string{
		{"$class", class},
		{"geneticId", r.GeneticID},
		{"owner", r.Owner},
		{"breed", r.Breed},
		{"location", r.Location},
		{"weight", r.Weight},
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteJSON(f[0]))
		b.WriteByte(':')
		b.WriteString(quoteJSON(f[1]))
	}
	b.WriteByte('}')
	return b.String()
}

func quoteJSON(s string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail
	_ = enc.Encode(s)
	return strings.TrimSuffix(b.String(), "\n")
}

// ParseGeneticID parses a decimal genetic identifier.
func ParseGeneticID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid genetic ID %q: must be an integer", s)
	}
	return id, nil
}
