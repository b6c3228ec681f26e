// File: pkg/storage/model.go
package storage

import (
	"time"

	"ecsdash/pkg/common"
)

// Placeholders substituted for facets that could not be resolved
const (
	RegionUnavailable = "Access Denied"
	DefaultRegion     = "us-east-1"
)

type VersioningState string

const (
	VersioningEnabled   VersioningState = "Enabled"
	VersioningSuspended VersioningState = "Suspended"
	VersioningDisabled  VersioningState = "Disabled"
	VersioningUnknown   VersioningState = "Unknown"
)

// A bucket as returned by the provider's listing call
type BucketSummary struct {
	Name      string
	CreatedAt time.Time
}

// A bucket summary merged with its per-bucket metadata facets
type BucketDetail struct {
	Name       string          `json:"name"`
	Provider   common.Provider `json:"provider,omitempty"`
	CreatedAt  time.Time       `json:"creationDate"`
	Region     string          `json:"region"`
	Versioning VersioningState `json:"versioning"`
	AgeInDays  int             `json:"ageInDays"`
}

// Whole days elapsed between created and now. Never negative
func AgeInDays(created, now time.Time) int {
	if created.IsZero() || !now.After(created) {
		return 0
	}
	return int(now.Sub(created) / (24 * time.Hour))
}
