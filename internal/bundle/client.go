// Package bundle pulls the pre-generated content tree from the project
// repository, so a fresh install can serve guidelines without running
// generation locally.
package bundle

import (
	"os"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v81/github"
)

// newGitHubClient builds a rate-limit-aware GitHub client. With
// GITHUB_TOKEN set the client is authenticated for the higher quota;
// anonymous access works for occasional pulls.
func newGitHubClient() (*github.Client, error) {
	rateLimiter, err := github_ratelimit.NewRateLimitWaiterClient(nil)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(rateLimiter)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return client, nil
}
