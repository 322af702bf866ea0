package profile

// Profile is a user's public profile. Every field is optional.
type Profile struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	Website   *string `json:"website"`
	AvatarURL *string `json:"avatar_url"`
}

/*
UserStats summarizes a user's scan history.

The producer keeps DiseasesDetected == PlantsScanned - HealthyScans.
The cache stores whatever it is given and never checks.
*/
type UserStats struct {
	PlantsScanned    int    `json:"plantsScanned"`
	DiseasesDetected int    `json:"diseasesDetected"`
	HealthyScans     int    `json:"healthyScans"`
	Accuracy         string `json:"accuracy"`
}
