package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const submittedPrefix = "submitted-"

// Markers manages the marker files written for each genetic ID that was
// accepted by the ledger.
type Markers struct {
	dir string
}

// NewMarkers creates a new Markers instance. An empty dir selects
// ~/.local/create-animals.
func NewMarkers(dir string) *Markers {
	if dir == "" {
		dir = filepath.Join(homeDir(), ".local", "create-animals")
	}

	return &Markers{
		dir: dir,
	}
}

// validateMarkerName ensures the marker name is safe and doesn't contain path traversal characters
func validateMarkerName(name string) error {
	if name == "" {
		return fmt.Errorf("marker name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("marker name cannot contain path separators: %s", name)
	}
	if name == ".." || name == "." {
		return fmt.Errorf("marker name cannot be '.' or '..': %s", name)
	}
	return nil
}

func submittedName(geneticID string) string {
	return submittedPrefix + geneticID
}

// MarkSubmitted records that the animal with geneticID was created on the
// given card. The marker body holds the card and submission time.
func (m *Markers) MarkSubmitted(geneticID, card string) error {
	name := submittedName(geneticID)
	if err := validateMarkerName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create marker directory: %w", err)
	}

	body := fmt.Sprintf("card=%s\nsubmitted=%s\n", card, time.Now().Format(time.RFC3339))
	if err := os.WriteFile(filepath.Join(m.dir, name), []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to create marker file: %w", err)
	}
	return nil
}

// IsSubmitted checks if a marker exists for geneticID.
// If error is not nil, the returned bool should not be trusted
func (m *Markers) IsSubmitted(geneticID string) (bool, error) {
	name := submittedName(geneticID)
	if err := validateMarkerName(name); err != nil {
		return false, err
	}

	_, err := os.Stat(filepath.Join(m.dir, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	// Other error (permission denied, I/O error, etc.)
	return false, fmt.Errorf("failed to check marker existence: %w", err)
}

// Remove deletes the marker for geneticID
func (m *Markers) Remove(geneticID string) error {
	name := submittedName(geneticID)
	if err := validateMarkerName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(m.dir, name))
	if os.IsNotExist(err) {
		return nil // Not an error if it doesn't exist
	}
	return err
}

// RemoveAll removes all marker files
func (m *Markers) RemoveAll() error {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return nil // Directory doesn't exist, nothing to remove
	}

	return os.RemoveAll(m.dir)
}

// SubmittedIDs returns every recorded genetic ID, numerically ordered where
// the IDs are integers.
func (m *Markers) SubmittedIDs() ([]string, error) {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read marker directory: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), submittedPrefix) {
			continue
		}
		ids = append(ids, strings.TrimPrefix(entry.Name(), submittedPrefix))
	}

	sort.SliceStable(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids, nil
}

// Dir returns the marker directory path
func (m *Markers) Dir() string {
	return m.dir
}
