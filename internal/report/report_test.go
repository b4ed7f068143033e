package report

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wkarim/osintagent/internal/models"
)

func TestBuildSummaryTruncatesSamples(t *testing.T) {
	inv := models.NewInvestigation("example.com")
	for i := 0; i < 50; i++ {
		inv.Subdomains = append(inv.Subdomains, fmt.Sprintf("h%d.example.com", i))
		inv.ShodanDetails = append(inv.ShodanDetails, models.HostDetail{IP: fmt.Sprintf("10.0.0.%d", i)})
		inv.Technologies = append(inv.Technologies, models.Fingerprint{URL: fmt.Sprintf("https://h%d.example.com", i)})
	}
	inv.ShodanHosts = []models.HostSummary{{IP: "10.0.0.1"}}

	s := BuildSummary(inv)

	assert.Equal(t, 50, s.SubdomainCount)
	assert.Len(t, s.SubdomainSample, maxSubdomainSample)
	assert.Equal(t, "h0.example.com", s.SubdomainSample[0])
	assert.Len(t, s.ShodanDetails, maxDetailSample)
	assert.Len(t, s.Technologies, maxTechSample)
	assert.Equal(t, 1, s.ShodanHostCount)
}

func TestPromptEmbedsFindings(t *testing.T) {
	inv := models.NewInvestigation("example.com")
	inv.Subdomains = []string{"admin.example.com"}
	inv.Errors = []string{"shodan error: 401"}

	prompt, err := BuildSummary(inv).Prompt()
	require.NoError(t, err)

	assert.Contains(t, prompt, "# OSINT Reconnaissance Report: example.com")
	assert.Contains(t, prompt, "admin.example.com")
	assert.Contains(t, prompt, "shodan error: 401")
	assert.Contains(t, prompt, "## Risk Assessment")
}

func TestWriteArtifact(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteArtifact(dir, "ex ample.com", "# Report body")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "report_ex_ample_com.md"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Report body", string(data))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "report_example_com.md", FileName("example.com"))
	assert.Equal(t, "report_a_b_c.md", FileName("a/b;c"))
}
