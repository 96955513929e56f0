package export

// Request describes an EDL export of an open session's project.
type Request struct {
	SessionID string  `json:"session_id"`
	FrameRate float64 `json:"frame_rate"`
	OutputDir string  `json:"output_dir"`
}

// Result reports where the EDL landed and how many events it carries.
type Result struct {
	Status     string `json:"status"`
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
	EventCount int    `json:"event_count"`
}
