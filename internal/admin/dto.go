// AngelaMos | 2026
// dto.go

package admin

import "github.com/angelamos/artvia-backend/internal/order"

type StatsResponse struct {
	Orders   order.StatsResponse `json:"orders"`
	Database BackendStatus       `json:"database"`
	Redis    BackendStatus       `json:"redis"`
	Runtime  RuntimeStats        `json:"runtime"`
}

type BackendStatus struct {
	Healthy bool           `json:"healthy"`
	Pool    map[string]any `json:"pool,omitempty"`
}

type RuntimeStats struct {
	GoVersion     string `json:"goVersion"`
	Goroutines    int    `json:"goroutines"`
	CPUs          int    `json:"cpus"`
	MemAllocBytes uint64 `json:"memAllocBytes"`
	MemSysBytes   uint64 `json:"memSysBytes"`
	NumGC         uint32 `json:"numGC"`
	Uptime        string `json:"uptime"`
}
