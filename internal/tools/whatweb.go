package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/wkarim/osintagent/internal/models"
	"github.com/wkarim/osintagent/internal/sandbox"
)

// whatwebEntry is one result object from whatweb's JSON log. A single line
// may hold either one object or an array of them.
type whatwebEntry struct {
	Target  string                     `json:"target"`
	Plugins map[string]json.RawMessage `json:"plugins"`
}

// RunWhatWeb executes whatweb against one URL inside the sandbox and returns
// the aggregated technology fingerprint. The raw output and any stderr-derived
// error string travel alongside so the caller can diagnose partial results.
func RunWhatWeb(ctx context.Context, sb Sandbox, url string, timeoutSeconds int) (*models.Fingerprint, error) {
	command := fmt.Sprintf("whatweb %s --log-json=/dev/stdout --quiet", sandbox.Quote(url))

	res, err := sb.Run(ctx, command, sandbox.RunOptions{TimeoutSeconds: timeoutSeconds})
	if err != nil {
		return nil, fmt.Errorf("whatweb execution failed: %w", err)
	}

	fp := &models.Fingerprint{
		URL:          url,
		Technologies: []models.Technology{},
		RawOutput:    res.Stdout,
	}
	if res.ExitCode != 0 {
		fp.Error = strings.TrimSpace(res.Stderr)
	}

	scanner := bufio.NewScanner(strings.NewReader(res.Stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// whatweb emits either a bare object or an array of objects per line
		var entries []whatwebEntry
		if strings.HasPrefix(line, "[") {
			if err := json.Unmarshal([]byte(line), &entries); err != nil {
				continue
			}
		} else {
			var single whatwebEntry
			if err := json.Unmarshal([]byte(line), &single); err != nil {
				continue
			}
			entries = append(entries, single)
		}

		for _, entry := range entries {
			fp.Technologies = append(fp.Technologies, parsePlugins(entry.Plugins)...)
		}
	}

	return fp, nil
}

// parsePlugins converts a whatweb plugins mapping into technology records,
// sorted by plugin name so output order is deterministic.
func parsePlugins(plugins map[string]json.RawMessage) []models.Technology {
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	techs := make([]models.Technology, 0, len(names))
	for _, name := range names {
		tech := models.Technology{Name: name, Details: map[string]string{}}

		var fields map[string]any
		if err := json.Unmarshal(plugins[name], &fields); err == nil {
			tech.Version = firstString(fields["version"])
			for _, key := range []string{"string", "account", "module"} {
				if v := joinStrings(fields[key]); v != "" {
					tech.Details[key] = v
				}
			}
		}
		if len(tech.Details) == 0 {
			tech.Details = nil
		}

		techs = append(techs, tech)
	}
	return techs
}

// firstString extracts a scalar from a whatweb field that may be reported as
// a string or a list of strings; lists yield their first element.
func firstString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

// joinStrings flattens a string-or-list field into one comma-joined value
func joinStrings(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		var parts []string
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
