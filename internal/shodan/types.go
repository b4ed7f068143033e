package shodan

// searchResponse is the wire format of /shodan/host/search
type searchResponse struct {
	Matches []hostMatch `json:"matches"`
	Total   int         `json:"total"`
}

// hostMatch is one service banner in a search result
type hostMatch struct {
	IPStr     string   `json:"ip_str"`
	Port      int      `json:"port"`
	Hostnames []string `json:"hostnames"`
	Org       string   `json:"org"`
	Product   string   `json:"product"`
}

// hostResponse is the wire format of /shodan/host/{ip}
type hostResponse struct {
	IPStr     string        `json:"ip_str"`
	Hostnames []string      `json:"hostnames"`
	Org       string        `json:"org"`
	OS        string        `json:"os"`
	Ports     []int         `json:"ports"`
	Data      []serviceData `json:"data"`
	Vulns     []string      `json:"vulns"`
}

// serviceData is one per-port service record inside a host lookup
type serviceData struct {
	Port    int    `json:"port"`
	Product string `json:"product"`
	Version string `json:"version"`
	Banner  string `json:"data"`
}

// apiError is Shodan's error envelope for non-200 responses
type apiError struct {
	Error string `json:"error"`
}
