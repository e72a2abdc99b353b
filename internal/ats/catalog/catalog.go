// internal/ats/catalog/catalog.go

// Package catalog owns the recognized-skill vocabulary used by resume
// scoring. The catalog is immutable once constructed; swapping it is a
// deployment-time decision, never a per-request one.
package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Catalog is an immutable, ordered list of lower-case skill keywords.
type Catalog struct {
	entries []string
}

// New builds a catalog from the given entries. Entries are lower-cased,
// trimmed and deduplicated, preserving first-occurrence order.
func New(entries []string) Catalog {
	seen := make(map[string]bool, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return Catalog{entries: out}
}

// Entries returns a copy of the catalog entries in order.
func (c Catalog) Entries() []string {
	out := make([]string, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of catalog entries.
func (c Catalog) Len() int {
	return len(c.entries)
}

// LoadFile reads a catalog from a YAML file with a top-level `skills` list.
func LoadFile(path string) (Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return Catalog{}, fmt.Errorf("failed to read skill catalog %s: %w", path, err)
	}

	skills := v.GetStringSlice("skills")
	if len(skills) == 0 {
		return Catalog{}, fmt.Errorf("skill catalog %s has no skills", path)
	}

	return New(skills), nil
}

// Default returns the built-in catalog of common technology skills.
func Default() Catalog {
	return New(defaultSkills)
}

var defaultSkills = []string{
	// Programming Languages
	"html5", "html", "css3", "css", "javascript", "js", "es6", "typescript", "python", "java", "c++", "c#", "php", "ruby", "go", "rust", "kotlin", "swift",
	// Frontend Frameworks & Libraries
	"react", "react.js", "reactjs", "next.js", "nextjs", "angular", "vue", "vue.js", "svelte", "tailwind", "bootstrap", "material-ui", "mui",
	// Backend Frameworks
	"node.js", "nodejs", "express", "express.js", "django", "flask", "spring", "spring boot", "hibernate", "fastapi", "nestjs",
	// Databases
	"mongodb", "mysql", "postgresql", "postgres", "redis", "sql", "nosql", "firebase", "dynamodb", "cassandra", "oracle",
	// APIs & Architecture
	"restful", "rest api", "api", "graphql", "grpc", "microservices", "websocket",
	// DevOps & Cloud
	"docker", "kubernetes", "k8s", "aws", "azure", "gcp", "vercel", "netlify", "heroku", "ci/cd", "jenkins", "github actions", "gitlab ci",
	// Version Control
	"git", "github", "gitlab", "bitbucket",
	// Design & UI/UX
	"ui/ux", "ui", "ux", "figma", "sketch", "adobe xd", "photoshop", "illustrator", "user research", "usability testing", "wireframing", "prototyping", "responsive design", "typography",
	// Testing
	"jest", "mocha", "cypress", "selenium", "junit", "pytest", "testing",
	// Other
	"agile", "scrum", "jira", "confluence", "slack",
}
