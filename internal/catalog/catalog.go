// Package catalog holds the fixed set of badges the engine knows how to
// evaluate. The catalog is built once, validated, and then only read, so a
// *Catalog is safe for any number of concurrent readers.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// ErrNotFound is returned by Get for keys that are not in the catalog.
var ErrNotFound = errors.New("badge not found")

// Definition is the validated input form of a catalog entry.
type Definition struct {
	Key              string `validate:"required,max=64"`
	Name             string `validate:"required,max=128"`
	Description      string
	Icon             string
	Category         string `validate:"required"`
	Family           string `validate:"required,oneof=dare checklist invitation combo"`
	Metric           string `validate:"required,oneof=dares_completed dares_completion_pct checklist_completed checklist_completion_pct invites_sent invites_accepted all_streams"`
	RequirementType  string `validate:"required,oneof=count_threshold percentage_threshold time_relative compound_all_of"`
	RequirementValue int    `validate:"gt=0"`
	Scope            string `validate:"required,oneof=global per_trip"`
}

func (d Definition) badge() domain.Badge {
	return domain.Badge{
		Key:              d.Key,
		Name:             d.Name,
		Description:      d.Description,
		Icon:             d.Icon,
		Category:         d.Category,
		Family:           domain.Family(d.Family),
		Metric:           domain.Metric(d.Metric),
		RequirementType:  domain.RequirementType(d.RequirementType),
		RequirementValue: d.RequirementValue,
		Scope:            domain.Scope(d.Scope),
	}
}

// Catalog is an immutable, key-indexed set of badges.
type Catalog struct {
	byKey   map[string]domain.Badge
	ordered []domain.Badge
}

var validate = validator.New()

// New validates defs and builds a Catalog. Keys must be unique and each
// metric must belong to the badge's family.
func New(defs []Definition) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]domain.Badge, len(defs))}
	for _, d := range defs {
		if err := validate.Struct(d); err != nil {
			return nil, fmt.Errorf("catalog: badge %q: %w", d.Key, err)
		}
		if _, dup := c.byKey[d.Key]; dup {
			return nil, fmt.Errorf("catalog: duplicate badge key %q", d.Key)
		}
		b := d.badge()
		if fam, ok := metricFamily[b.Metric]; !ok || fam != b.Family {
			return nil, fmt.Errorf("catalog: badge %q: metric %q does not belong to family %q", d.Key, d.Metric, d.Family)
		}
		if b.RequirementType == domain.RequirementPercentage && b.RequirementValue > 100 {
			return nil, fmt.Errorf("catalog: badge %q: percentage above 100", d.Key)
		}
		c.byKey[b.Key] = b
		c.ordered = append(c.ordered, b)
	}
	sort.SliceStable(c.ordered, func(i, j int) bool {
		if c.ordered[i].Category != c.ordered[j].Category {
			return c.ordered[i].Category < c.ordered[j].Category
		}
		return c.ordered[i].Key < c.ordered[j].Key
	})
	return c, nil
}

// MustNew is New that panics on an invalid catalog.
func MustNew(defs []Definition) *Catalog {
	c, err := New(defs)
	if err != nil {
		panic(err)
	}
	return c
}

var metricFamily = map[domain.Metric]domain.Family{
	domain.MetricDaresCompleted:         domain.FamilyDare,
	domain.MetricDaresCompletionPct:     domain.FamilyDare,
	domain.MetricChecklistCompleted:     domain.FamilyChecklist,
	domain.MetricChecklistCompletionPct: domain.FamilyChecklist,
	domain.MetricInvitesSent:            domain.FamilyInvitation,
	domain.MetricInvitesAccepted:        domain.FamilyInvitation,
	domain.MetricAllStreams:             domain.FamilyCombo,
}

// Get returns the badge for key or ErrNotFound.
func (c *Catalog) Get(key string) (domain.Badge, error) {
	b, ok := c.byKey[key]
	if !ok {
		return domain.Badge{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return b, nil
}

// List returns every badge ordered by category, then key. The slice is a
// copy; callers may modify it.
func (c *Catalog) List() []domain.Badge {
	out := make([]domain.Badge, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// ByFamily returns the badges owned by family, in List order.
func (c *Catalog) ByFamily(family domain.Family) []domain.Badge {
	var out []domain.Badge
	for _, b := range c.ordered {
		if b.Family == family {
			out = append(out, b)
		}
	}
	return out
}

// Keys returns the keys of ByFamily(family).
func (c *Catalog) Keys(family domain.Family) []string {
	var out []string
	for _, b := range c.ByFamily(family) {
		out = append(out, b.Key)
	}
	return out
}
