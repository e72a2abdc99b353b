// internal/workers/application/submit-application/models.go
package submitapplication

type Input struct {
	SeekerID       string `json:"seekerId"`
	JobID          string `json:"jobId"`
	ResumeFileName string `json:"resumeFileName"`
	ResumeData     string `json:"resumeData"` // base64-encoded binary
}

type Output struct {
	ApplicationID     string `json:"applicationId"`
	ApplicationStatus string `json:"applicationStatus"`
	AtsScore          int    `json:"atsScore"`
	ResumeKey         string `json:"resumeKey"`
	CreatedAt         string `json:"createdAt"` // ISO 8601
}
