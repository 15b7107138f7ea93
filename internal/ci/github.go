package ci

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gomutate/cmu/internal/report"
)

// GitHubIntegration posts a mutation-testing summary as a PR comment,
// grounded on the teacher's (test-only, never-implemented) GitHub
// integration in internal/ci/github_test.go — this is a fresh
// implementation built to that same shape.
type GitHubIntegration struct {
	token      string
	repository string // "owner/repo"
	prNumber   int
	httpClient *http.Client
}

// NewGitHubIntegration creates a GitHub integration for one PR.
func NewGitHubIntegration(token, repository string, prNumber int) *GitHubIntegration {
	return &GitHubIntegration{
		token:      token,
		repository: repository,
		prNumber:   prNumber,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// CreatePRComment posts a formatted summary as an issue comment on the PR.
func (g *GitHubIntegration) CreatePRComment(ctx context.Context, summary report.Summary, gate *QualityGateResult) error {
	if g.token == "" {
		return fmt.Errorf("ci: no GitHub token configured, cannot post PR comment")
	}

	body := formatPRComment(summary, gate)

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("ci: failed to marshal PR comment: %w", err)
	}

	url := fmt.Sprintf("https://api.github.com/repos/%s/issues/%d/comments", g.repository, g.prNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ci: failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ci: failed to post PR comment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("ci: GitHub API returned status %d", resp.StatusCode)
	}

	return nil
}

func formatPRComment(summary report.Summary, gate *QualityGateResult) string {
	icon := "✅"
	if gate != nil && !gate.Pass {
		icon = "❌"
	}

	scoreText := "N/A"
	if summary.Stats.Total > 0 {
		scoreText = fmt.Sprintf("%.1f%%", summary.Stats.Score())
	}

	comment := fmt.Sprintf(
		"## %s Mutation Testing Report\n\n"+
			"| Metric | Value |\n|---|---|\n"+
			"| Total mutants | %d |\n| Killed | %d |\n| Survived | %d |\n| Mutation score | %s |\n",
		icon, summary.Stats.Total, summary.Stats.Killed, summary.Stats.Survived, scoreText,
	)

	if gate != nil {
		comment += fmt.Sprintf("\n**Quality gate:** %s — %s\n", gatePassText(gate.Pass), gate.Reason)
	}

	return comment
}

func gatePassText(pass bool) string {
	if pass {
		return "PASS"
	}

	return "FAIL"
}
