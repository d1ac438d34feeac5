package importing

import "github.com/google/uuid"

// GroupOverride routes one product group at commit time: an explicit
// target product, a category rename, and per-row label renames keyed by
// row position.
type GroupOverride struct {
	TargetProductID *uuid.UUID     `json:"target_product_id,omitempty"`
	CategoryName    string         `json:"category_name,omitempty"`
	Labels          map[int]string `json:"labels,omitempty"`
}

// Overrides maps productKey -> GroupOverride. Supplied at commit time,
// never persisted as its own entity.
type Overrides struct {
	Groups map[string]GroupOverride `json:"groups"`
}

// Apply rewrites the given rows in place and returns the overrides
// re-keyed by each group's post-override ProductKey. A category override
// recomputes the key of every row in the group, so rows that grouped
// together before the override still group together after it.
func (o *Overrides) Apply(rows []ImportRow) map[string]GroupOverride {
	effective := make(map[string]GroupOverride)
	if o == nil || len(o.Groups) == 0 {
		return effective
	}
	for i := range rows {
		override, ok := o.Groups[rows[i].ProductKey]
		if !ok {
			continue
		}
		if label, ok := override.Labels[rows[i].Position]; ok && label != "" {
			rows[i].Label = label
			rows[i].DisplayName = label
		}
		if override.CategoryName != "" {
			rows[i].OverrideCategory(override.CategoryName)
		}
		effective[rows[i].ProductKey] = override
	}
	return effective
}
