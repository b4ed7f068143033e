package models

// Technology represents a single technology identified on a probed URL
type Technology struct {
	Name    string            `json:"name"`
	Version string            `json:"version,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Fingerprint aggregates the technologies detected for one URL
type Fingerprint struct {
	URL          string       `json:"url"`
	Technologies []Technology `json:"technologies"`
	RawOutput    string       `json:"raw_output,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// ProbeResult represents a single live-host probe response
type ProbeResult struct {
	URL           string   `json:"url"`
	StatusCode    int      `json:"status_code"`
	Title         string   `json:"title,omitempty"`
	Technologies  []string `json:"technologies,omitempty"`
	ContentLength int64    `json:"content_length"`
}

// HostSummary is a single host returned by a host-intelligence search
type HostSummary struct {
	IP        string   `json:"ip"`
	Port      int      `json:"port,omitempty"`
	Hostnames []string `json:"hostnames,omitempty"`
	Org       string   `json:"org,omitempty"`
	Product   string   `json:"product,omitempty"`
}

// ServiceBanner describes one exposed service on a host
type ServiceBanner struct {
	Port    int    `json:"port"`
	Product string `json:"product,omitempty"`
	Version string `json:"version,omitempty"`
	Banner  string `json:"banner,omitempty"`
}

// HostDetail is the full host-intelligence record for a single IP
type HostDetail struct {
	IP        string          `json:"ip"`
	Hostnames []string        `json:"hostnames,omitempty"`
	Org       string          `json:"org,omitempty"`
	OS        string          `json:"os,omitempty"`
	Ports     []int           `json:"ports,omitempty"`
	Banners   []ServiceBanner `json:"banners,omitempty"`
	Vulns     []string        `json:"vulns,omitempty"`
}

// HostIntel bundles search summaries with the detail lookups performed for
// selected hosts during the shodan phase.
type HostIntel struct {
	Hosts   []HostSummary `json:"hosts"`
	Details []HostDetail  `json:"details"`
}
