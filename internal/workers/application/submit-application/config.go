// internal/workers/application/submit-application/config.go
package submitapplication

import "time"

type Config struct {
	Timeout      time.Duration
	ResumePrefix string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      60 * time.Second,
		ResumePrefix: "resumes/",
	}
}
