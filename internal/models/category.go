// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category is the closed set of article categories the site publishes
// under. The slug doubles as the stable lookup identifier in the content
// store, so the set must stay in sync with the published site navigation.
type Category string

const (
	CategoryAIUtilization Category = "ai-utilization"
	CategoryOrganization  Category = "organization-development"
	CategoryWellBeing     Category = "well-being"
	CategoryEngineering   Category = "engineering"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryAIUtilization,
	CategoryOrganization,
	CategoryWellBeing,
	CategoryEngineering,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DocumentID returns the deterministic content-store document id for the
// category. Using a fixed derived id makes lookup-or-create idempotent
// across repeated runs.
func (c Category) DocumentID() string {
	return "category-" + string(c)
}

// Title returns a human-readable category name.
func (c Category) Title() string {
	switch c {
	case CategoryAIUtilization:
		return "AI Utilization"
	case CategoryOrganization:
		return "Organization Development"
	case CategoryWellBeing:
		return "Well-Being"
	case CategoryEngineering:
		return "Engineering"
	default:
		return string(c)
	}
}
