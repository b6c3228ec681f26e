// File: internal/server/responses.go
package server

import (
	"time"

	"ecsdash/internal/sysinfo"
	"ecsdash/pkg/storage"
)

// Note attached to bucket listing failures
const bucketPermissionsNote = "Make sure the ECS task role has S3 permissions"

type Uptime struct {
	Raw       float64 `json:"raw"`
	Formatted string  `json:"formatted"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Uptime    Uptime          `json:"uptime"`
	System    sysinfo.Host    `json:"system"`
	Process   sysinfo.Process `json:"process"`
	Developer string          `json:"developer,omitempty"`
}

type ContainerInfo struct {
	Hostname  string `json:"hostname"`
	Platform  string `json:"platform"`
	GoVersion string `json:"goVersion"`
}

type EnvironmentInfo struct {
	AWSRegion string `json:"awsRegion"`
	Env       string `json:"env"`
}

type AWSInfoResponse struct {
	Region      string          `json:"region"`
	Service     string          `json:"service"`
	Container   ContainerInfo   `json:"container"`
	Environment EnvironmentInfo `json:"environment"`
	Developer   string          `json:"developer,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

type BucketsResponse struct {
	Success        bool                   `json:"success"`
	Provider       string                 `json:"provider"`
	Buckets        []storage.BucketDetail `json:"buckets"`
	TotalCount     int                    `json:"totalCount"`
	DisplayedCount int                    `json:"displayedCount"`
	Developer      string                 `json:"developer,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}

type StatsResponse struct {
	Requests  uint64    `json:"requests"`
	StartedAt time.Time `json:"startedAt"`
	Uptime    Uptime    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Note      string    `json:"note,omitempty"`
	Developer string    `json:"developer,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
