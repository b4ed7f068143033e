package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wkarim/osintagent/internal/sandbox"
)

// subfinderLine is the JSONL record subfinder emits in -json mode
type subfinderLine struct {
	Host   string `json:"host"`
	Source string `json:"source"`
}

// RunSubfinder executes subfinder inside the sandbox and returns the
// discovered subdomains, deduplicated in first-seen order.
//
// Output handling: each line is parsed as JSON and the host field extracted.
// A non-JSON line is treated as a raw hostname when it contains a dot
// (subfinder falls back to plain text in some configurations). Malformed
// lines are skipped, never fatal.
func RunSubfinder(ctx context.Context, sb Sandbox, domain string, timeoutSeconds int) ([]string, error) {
	command := fmt.Sprintf("subfinder -d %s -silent -json", sandbox.Quote(domain))

	res, err := sb.Run(ctx, command, sandbox.RunOptions{TimeoutSeconds: timeoutSeconds})
	if err != nil {
		return nil, fmt.Errorf("subfinder execution failed: %w", err)
	}

	var subdomains []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(res.Stdout))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		host := ""
		var rec subfinderLine
		if err := json.Unmarshal([]byte(line), &rec); err == nil {
			host = rec.Host
		} else if strings.Contains(line, ".") {
			// Plain text fallback
			host = line
		}

		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		subdomains = append(subdomains, host)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subfinder output: %w", err)
	}

	return subdomains, nil
}
