package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wkarim/osintagent/internal/models"
	"github.com/wkarim/osintagent/internal/sandbox"
)

// httpxLine is the JSONL record httpx emits per probed target
type httpxLine struct {
	URL           string   `json:"url"`
	StatusCode    int      `json:"status_code"`
	Title         string   `json:"title"`
	Technologies  []string `json:"tech"`
	ContentLength int64    `json:"content_length"`
}

// RunHttpx probes the given targets for live HTTP services inside the
// sandbox. Targets are fed to httpx on stdin via printf, one per line, and
// each output line is parsed independently; unparseable lines are skipped.
func RunHttpx(ctx context.Context, sb Sandbox, targets []string, timeoutSeconds int) ([]models.ProbeResult, error) {
	if len(targets) == 0 {
		return []models.ProbeResult{}, nil
	}

	quoted := make([]string, len(targets))
	for i, t := range targets {
		quoted[i] = sandbox.Quote(t)
	}
	command := fmt.Sprintf("printf '%%s\\n' %s | httpx -silent -json -status-code -title -tech-detect",
		strings.Join(quoted, " "))

	res, err := sb.Run(ctx, command, sandbox.RunOptions{TimeoutSeconds: timeoutSeconds})
	if err != nil {
		return nil, fmt.Errorf("httpx execution failed: %w", err)
	}

	var results []models.ProbeResult
	scanner := bufio.NewScanner(strings.NewReader(res.Stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec httpxLine
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		results = append(results, models.ProbeResult{
			URL:           rec.URL,
			StatusCode:    rec.StatusCode,
			Title:         rec.Title,
			Technologies:  rec.Technologies,
			ContentLength: rec.ContentLength,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read httpx output: %w", err)
	}

	return results, nil
}
