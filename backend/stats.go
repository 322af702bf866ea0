package backend

import (
	"fmt"
	"math"
	"strings"

	"github.com/Jaysum57/CropGuard-sub000/profile"
)

// healthyLabel is the classifier label for a plant with no disease.
const healthyLabel = "healthy"

// ScanRow is one row of the scans table, as far as stats are concerned.
type ScanRow struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	DiseaseID  *string `json:"disease_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// IsHealthy reports whether the scan found no disease.
func (r ScanRow) IsHealthy() bool {
	return r.DiseaseID == nil && strings.Contains(strings.ToLower(r.Label), healthyLabel)
}

/*
ComputeStats summarizes a user's scans.

DiseasesDetected is always PlantsScanned - HealthyScans. Accuracy is the mean
classifier confidence as a whole percentage ("94%"), or "0%" with no scans.
Confidences above 1 are taken as already being percentages.
*/
func ComputeStats(rows []ScanRow) profile.UserStats {
	var healthy int
	var sum float64
	for _, r := range rows {
		if r.IsHealthy() {
			healthy++
		}
		c := r.Confidence
		if c <= 1 {
			c *= 100
		}
		sum += c
	}

	accuracy := 0
	if len(rows) > 0 {
		accuracy = int(math.Round(sum / float64(len(rows))))
	}

	return profile.UserStats{
		PlantsScanned:    len(rows),
		DiseasesDetected: len(rows) - healthy,
		HealthyScans:     healthy,
		Accuracy:         fmt.Sprintf("%d%%", accuracy),
	}
}
