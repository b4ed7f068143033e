package models

// Investigation is the shared state for one investigation run. One instance
// exists per run; phase handlers never mutate it directly — they return a
// Patch that the workflow driver merges via Apply.
type Investigation struct {
	Target string `json:"target"`

	// Findings. Subdomains keeps set semantics in first-seen order; the
	// remaining slices are append-only for the life of the run.
	Subdomains    []string      `json:"subdomains"`
	LiveHosts     []ProbeResult `json:"live_hosts"`
	ShodanHosts   []HostSummary `json:"shodan_hosts"`
	ShodanDetails []HostDetail  `json:"shodan_details"`
	Technologies  []Fingerprint `json:"technologies"`

	// Workflow control
	CurrentPhase    Phase    `json:"current_phase"`
	CompletedPhases []Phase  `json:"completed_phases"`
	Errors          []string `json:"errors"`

	// Final output, written exactly once by the report phase
	Report string `json:"report"`
}

// NewInvestigation creates an empty investigation state for a target
func NewInvestigation(target string) *Investigation {
	return &Investigation{
		Target:          target,
		Subdomains:      []string{},
		LiveHosts:       []ProbeResult{},
		ShodanHosts:     []HostSummary{},
		ShodanDetails:   []HostDetail{},
		Technologies:    []Fingerprint{},
		CompletedPhases: []Phase{},
		Errors:          []string{},
	}
}

// Patch is the partial state update a phase handler returns. Zero-value
// fields are ignored during merge, so a handler only sets what it changed.
type Patch struct {
	Subdomains      []string
	LiveHosts       []ProbeResult
	ShodanHosts     []HostSummary
	ShodanDetails   []HostDetail
	Technologies    []Fingerprint
	CurrentPhase    Phase
	CompletedPhases []Phase
	Errors          []string
	Report          string
}

// Apply merges a patch into the investigation using field-by-field rules:
// set-union for subdomains, append for result lists and errors,
// append-unique for completed phases, last-write for the current phase,
// and write-once for the report.
func (inv *Investigation) Apply(p Patch) {
	inv.Subdomains = mergeUnique(inv.Subdomains, p.Subdomains)
	inv.LiveHosts = append(inv.LiveHosts, p.LiveHosts...)
	inv.ShodanHosts = append(inv.ShodanHosts, p.ShodanHosts...)
	inv.ShodanDetails = append(inv.ShodanDetails, p.ShodanDetails...)
	inv.Technologies = append(inv.Technologies, p.Technologies...)
	inv.Errors = append(inv.Errors, p.Errors...)

	for _, phase := range p.CompletedPhases {
		if !inv.HasCompleted(phase) {
			inv.CompletedPhases = append(inv.CompletedPhases, phase)
		}
	}

	if p.CurrentPhase != "" {
		inv.CurrentPhase = p.CurrentPhase
	}
	if p.Report != "" && inv.Report == "" {
		inv.Report = p.Report
	}
}

// HasCompleted reports whether the given phase has already been marked done
func (inv *Investigation) HasCompleted(phase Phase) bool {
	for _, p := range inv.CompletedPhases {
		if p == phase {
			return true
		}
	}
	return false
}

// SampleSubdomains returns at most n subdomains in discovery order
func (inv *Investigation) SampleSubdomains(n int) []string {
	if len(inv.Subdomains) <= n {
		return inv.Subdomains
	}
	return inv.Subdomains[:n]
}

// mergeUnique appends items from add that are not already in base,
// preserving first-seen order.
func mergeUnique(base, add []string) []string {
	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[s] = true
	}
	for _, s := range add {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		base = append(base, s)
	}
	return base
}
