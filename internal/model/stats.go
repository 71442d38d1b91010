package model

// LowLoadHour is one of the lowest-load hours reported by the stats endpoint.
type LowLoadHour struct {
	Day    string  `json:"day"`
	Hour   int     `json:"hour"`
	LoadKW float64 `json:"load_kw"`
	Label  string  `json:"label"`
}

// Stats holds aggregate dashboard statistics.
type Stats struct {
	AvgNetworkLoad      float64       `json:"avg_network_load"`
	LowLoadHours        []LowLoadHour `json:"low_load_hours"`
	TotalCrewHours      float64       `json:"total_crew_hours"`
	TotalCrewMembers    int           `json:"total_crew_members"`
	TotalPatches        int           `json:"total_patches"`
	TotalPatchHours     float64       `json:"total_patch_hours"`
	HighPriorityPatches int           `json:"high_priority_patches"`
}

// BestHour is the single optimal patching hour.
type BestHour struct {
	Day       string  `json:"day"`
	Hour      int     `json:"hour"`
	LoadKW    float64 `json:"load_kw"`
	TimeLabel string  `json:"time_label"`
}
