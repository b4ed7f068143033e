package tools

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
)

// Requirement represents one startup precondition for the investigation
// pipeline: a binary on PATH, a local container image, or a credential in
// the environment.
type Requirement struct {
	Name     string // Display name
	Kind     RequirementKind
	Value    string // Binary name, image name, or env var name
	Required bool
	FixHint  string // How to satisfy the requirement
}

// RequirementKind discriminates how a requirement is verified
type RequirementKind string

const (
	RequireBinary RequirementKind = "binary"
	RequireImage  RequirementKind = "image"
	RequireEnv    RequirementKind = "env"
)

// CheckResult represents the result of checking a single requirement
type CheckResult struct {
	Requirement Requirement
	Found       bool
	Detail      string // Path, image digest, or "set" for credentials
}

// DefaultRequirements returns the preconditions for a full investigation run.
// The scanning tools themselves (subfinder, whatweb, httpx) live inside the
// sandbox image, so only docker, the image, and API credentials are checked
// on the host.
func DefaultRequirements(image string) []Requirement {
	return []Requirement{
		{
			Name:     "docker",
			Kind:     RequireBinary,
			Value:    "docker",
			Required: true,
			FixHint:  "install docker and ensure the daemon is running",
		},
		{
			Name:     "sandbox image",
			Kind:     RequireImage,
			Value:    image,
			Required: true,
			FixHint:  "docker build -t " + image + " -f docker/Dockerfile.tools .",
		},
		{
			Name:     "DEEPSEEK_API_KEY",
			Kind:     RequireEnv,
			Value:    "DEEPSEEK_API_KEY",
			Required: true,
			FixHint:  "export DEEPSEEK_API_KEY=<key> (used for report generation)",
		},
		{
			Name:     "SHODAN_API_KEY",
			Kind:     RequireEnv,
			Value:    "SHODAN_API_KEY",
			Required: false,
			FixHint:  "export SHODAN_API_KEY=<key> (host-intel phase records an error without it)",
		},
	}
}

// CheckRequirements checks all requirements in the provided list
func CheckRequirements(reqs []Requirement) []CheckResult {
	results := make([]CheckResult, len(reqs))
	for i, req := range reqs {
		results[i] = CheckRequirement(req)
	}
	return results
}

// CheckRequirement verifies a single requirement
func CheckRequirement(req Requirement) CheckResult {
	result := CheckResult{Requirement: req}

	switch req.Kind {
	case RequireBinary:
		path, err := exec.LookPath(req.Value)
		if err != nil {
			return result
		}
		result.Found = true
		result.Detail = path

	case RequireImage:
		cmd := exec.Command("docker", "image", "inspect", "--format", "{{.Id}}", req.Value)
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out
		if err := cmd.Run(); err != nil {
			return result
		}
		result.Found = true
		result.Detail = shortDigest(out.String())

	case RequireEnv:
		if os.Getenv(req.Value) == "" {
			return result
		}
		result.Found = true
		result.Detail = "set"
	}

	return result
}

// shortDigest trims an image ID like sha256:abcdef... to a compact display form
func shortDigest(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "sha256:")
	if len(s) > 12 {
		s = s[:12]
	}
	return s
}
