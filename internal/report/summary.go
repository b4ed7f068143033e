package report

import (
	"encoding/json"
	"fmt"

	"github.com/wkarim/osintagent/internal/models"
)

// Sample caps keep the findings summary bounded regardless of how much the
// investigation discovered.
const (
	maxSubdomainSample = 20
	maxDetailSample    = 10
	maxTechSample      = 25
)

// Summary is the structured findings digest handed to the text-generation
// collaborator. Counts plus truncated samples, never raw unbounded lists.
type Summary struct {
	Target          string               `json:"target"`
	SubdomainCount  int                  `json:"subdomains_count"`
	SubdomainSample []string             `json:"subdomains_sample"`
	ShodanHostCount int                  `json:"shodan_hosts"`
	ShodanDetails   []models.HostDetail  `json:"shodan_details"`
	Technologies    []models.Fingerprint `json:"technologies"`
	Errors          []string             `json:"errors"`
}

// BuildSummary condenses investigation state into a Summary
func BuildSummary(inv *models.Investigation) Summary {
	return Summary{
		Target:          inv.Target,
		SubdomainCount:  len(inv.Subdomains),
		SubdomainSample: truncate(inv.Subdomains, maxSubdomainSample),
		ShodanHostCount: len(inv.ShodanHosts),
		ShodanDetails:   truncate(inv.ShodanDetails, maxDetailSample),
		Technologies:    truncate(inv.Technologies, maxTechSample),
		Errors:          inv.Errors,
	}
}

// SystemPrompt is the persona for report synthesis
const SystemPrompt = "You are a senior penetration tester writing a reconnaissance report."

// Prompt renders the user prompt for the text-generation collaborator,
// embedding the findings as JSON and the required report structure.
func (s Summary) Prompt() (string, error) {
	findings, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling findings summary: %w", err)
	}

	return fmt.Sprintf(`Generate a professional OSINT reconnaissance report based on these findings:

%s

Structure the report as follows:

# OSINT Reconnaissance Report: %s

## Executive Summary
Brief overview of findings and overall security posture.

## Discovered Assets
- Total subdomains found
- Notable subdomains (admin panels, APIs, dev environments)
- IP addresses and hosting information

## Exposed Services (from Shodan)
- Open ports and services
- Potential vulnerabilities (CVEs)
- Outdated software

## Technology Stack
- Web servers
- Frameworks and CMS platforms
- Notable version information

## Risk Assessment
Prioritized list of findings by security impact.

## Recommendations
Actionable next steps for further investigation or remediation.

Be specific, technical, and actionable. This is for a security professional.`,
		string(findings), s.Target), nil
}

// truncate returns at most n leading elements of s
func truncate[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
