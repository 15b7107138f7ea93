package ci

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("GITHUB_PR_NUMBER", "")
	t.Setenv("GITHUB_EVENT_NAME", "")

	cfg := FromEnv()

	assert.Equal(t, 0, cfg.PRNumber)
	assert.Equal(t, "main", cfg.BaseRef)
	assert.False(t, cfg.IsPullRequest())
}

func TestFromEnv_PullRequest(t *testing.T) {
	t.Setenv("GITHUB_PR_NUMBER", "42")
	t.Setenv("GITHUB_EVENT_NAME", "pull_request")
	t.Setenv("GITHUB_REPOSITORY", "gomutate/cmu")

	cfg := FromEnv()

	assert.Equal(t, 42, cfg.PRNumber)
	assert.Equal(t, "gomutate/cmu", cfg.Repository)
	assert.True(t, cfg.IsPullRequest())
}
