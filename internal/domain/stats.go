package domain

// TenureStats summarizes reporter tenure for a single project.
type TenureStats struct {
	Project      string  `json:"project"`
	Namespace    string  `json:"namespace"`
	Reporters    int     `json:"reporters"`
	Issues       int     `json:"issues"`
	MeanTenure   float64 `json:"mean_tenure"`
	MedianTenure float64 `json:"median_tenure"`
	P90Tenure    float64 `json:"p90_tenure"`
	MaxTenure    int     `json:"max_tenure"`
}
