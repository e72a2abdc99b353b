// internal/workers/application/score-application/models.go
package scoreapplication

type Input struct {
	ApplicationID   string   `json:"applicationId"`
	ResumeKey       string   `json:"resumeKey"`
	JobRequirements []string `json:"jobRequirements"`
}

type Output struct {
	ApplicationID string `json:"applicationId"`
	AtsScore      int    `json:"atsScore"`
	Status        string `json:"status"`
}
