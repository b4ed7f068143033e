package workflow

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/wkarim/osintagent/internal/config"
	"github.com/wkarim/osintagent/internal/llm"
	"github.com/wkarim/osintagent/internal/models"
	"github.com/wkarim/osintagent/internal/report"
	"github.com/wkarim/osintagent/internal/shodan"
	"github.com/wkarim/osintagent/internal/tools"
)

// NewCapabilities wires the production adapters into the capability set the
// phase handlers consume.
func NewCapabilities(sb tools.Sandbox, sc *shodan.Client, lc *llm.Client, cfg *config.Config) Capabilities {
	return Capabilities{
		Recon:       enumerateSubdomains(sb, cfg.Timeouts.Subfinder),
		Probe:       probeLiveHosts(sb, cfg.Timeouts.Httpx),
		HostIntel:   hostIntelLookup(sc, cfg.Shodan),
		Fingerprint: fingerprintTargets(sb, cfg.Timeouts.WhatWeb, cfg.Limits.FingerprintWorkers),
		Report:      generateReport(lc),
	}
}

func enumerateSubdomains(sb tools.Sandbox, timeoutSeconds int) Capability {
	return NewCapability("enumerate_subdomains", func(ctx context.Context, args map[string]any) (any, error) {
		domain, ok := args["domain"].(string)
		if !ok || domain == "" {
			return nil, fmt.Errorf("enumerate_subdomains: missing domain argument")
		}
		return tools.RunSubfinder(ctx, sb, domain, timeoutSeconds)
	})
}

func probeLiveHosts(sb tools.Sandbox, timeoutSeconds int) Capability {
	return NewCapability("probe_live_hosts", func(ctx context.Context, args map[string]any) (any, error) {
		targets, ok := args["targets"].([]string)
		if !ok {
			return nil, fmt.Errorf("probe_live_hosts: missing targets argument")
		}
		return tools.RunHttpx(ctx, sb, targets, timeoutSeconds)
	})
}

// hostIntelLookup searches the Shodan index for the target domain, then
// performs detailed lookups on at most cfg.MaxLookups distinct IPs.
func hostIntelLookup(sc *shodan.Client, cfg config.ShodanConfig) Capability {
	return NewCapability("host_intel_lookup", func(ctx context.Context, args map[string]any) (any, error) {
		domain, ok := args["domain"].(string)
		if !ok || domain == "" {
			return nil, fmt.Errorf("host_intel_lookup: missing domain argument")
		}

		hosts, err := sc.SearchDomain(ctx, domain, cfg.MaxResults)
		if err != nil {
			return nil, err
		}

		intel := &models.HostIntel{Hosts: hosts}
		seen := make(map[string]bool)
		for _, h := range hosts {
			if h.IP == "" || seen[h.IP] {
				continue
			}
			seen[h.IP] = true
			if len(intel.Details) >= cfg.MaxLookups {
				break
			}
			detail, err := sc.HostLookup(ctx, h.IP)
			if err != nil {
				fmt.Printf("[!] Shodan host lookup failed for %s: %v\n", h.IP, err)
				continue
			}
			intel.Details = append(intel.Details, *detail)
		}
		return intel, nil
	})
}

// fingerprintTargets runs whatweb against each URL with a bounded worker
// pool. Per-URL failures land in the result's Error field rather than
// failing the batch, and results come back in input order.
func fingerprintTargets(sb tools.Sandbox, timeoutSeconds, workers int) Capability {
	return NewCapability("fingerprint_targets", func(ctx context.Context, args map[string]any) (any, error) {
		urls, ok := args["urls"].([]string)
		if !ok {
			return nil, fmt.Errorf("fingerprint_targets: missing urls argument")
		}
		if workers < 1 {
			workers = 1
		}

		results := make([]models.Fingerprint, len(urls))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, url := range urls {
			i, url := i, url
			g.Go(func() error {
				fp, err := tools.RunWhatWeb(gctx, sb, url, timeoutSeconds)
				if err != nil {
					results[i] = models.Fingerprint{URL: url, Error: err.Error()}
					return nil
				}
				results[i] = *fp
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	})
}

func generateReport(lc *llm.Client) Capability {
	return NewCapability("generate_report", func(ctx context.Context, args map[string]any) (any, error) {
		summary, ok := args["summary"].(report.Summary)
		if !ok {
			return nil, fmt.Errorf("generate_report: missing summary argument")
		}
		prompt, err := summary.Prompt()
		if err != nil {
			return nil, err
		}
		return lc.Generate(ctx, report.SystemPrompt, prompt)
	})
}
