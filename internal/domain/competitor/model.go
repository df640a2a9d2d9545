package competitor

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrDuplicateCompetitor = errors.New("duplicate competitor in roster")

// Competitor is one club taking part in a competition season.
type Competitor struct {
	ID   string
	Name string
}

func (c Competitor) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("competitor id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.Newf("competitor name is required: id=%s", c.ID)
	}

	return nil
}

// ValidateRoster checks every entry and rejects repeated ids.
func ValidateRoster(items []Competitor) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, exists := seen[item.ID]; exists {
			return errors.Wrapf(ErrDuplicateCompetitor, "id=%s", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	return nil
}

func IDs(items []Competitor) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

// Index maps competitor id to its roster position.
func Index(items []Competitor) map[string]int {
	out := make(map[string]int, len(items))
	for i, item := range items {
		out[item.ID] = i
	}
	return out
}

// Subset returns roster entries for ids, preserving the order of ids.
// Unknown ids are skipped.
func Subset(items []Competitor, ids []string) []Competitor {
	byID := make(map[string]Competitor, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	out := make([]Competitor, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, item)
	}
	return out
}
