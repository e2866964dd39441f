package bundle

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v81/github"
)

// Defaults point at the repository that publishes the generated content
// tree alongside this module.
const (
	DefaultOwner    = "tmaasen"
	DefaultRepo     = "apple-dev-mcp-sub004"
	DefaultBasePath = "content"
)

// Fetcher downloads the published content bundle from GitHub.
type Fetcher struct {
	client   *github.Client
	owner    string
	repo     string
	basePath string
	log      *slog.Logger
}

// NewFetcher creates a fetcher for the given repository. Empty arguments
// fall back to the project defaults.
func NewFetcher(owner, repo, basePath string, log *slog.Logger) (*Fetcher, error) {
	client, err := newGitHubClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	if owner == "" {
		owner = DefaultOwner
	}
	if repo == "" {
		repo = DefaultRepo
	}
	if basePath == "" {
		basePath = DefaultBasePath
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{
		client:   client,
		owner:    owner,
		repo:     repo,
		basePath: basePath,
		log:      log,
	}, nil
}

// Pull downloads every JSON file under the bundle's base path into
// destDir, preserving the relative directory layout. It returns the
// number of files written. Individual file failures are logged and
// skipped; Pull fails only when listing fails or nothing could be
// written.
func (f *Fetcher) Pull(ctx context.Context, destDir string) (int, error) {
	paths, err := f.listJSON(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list content bundle: %w", err)
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no content found under %s/%s/%s", f.owner, f.repo, f.basePath)
	}

	written := 0
	for _, rel := range paths {
		data, err := f.fetchFile(ctx, rel)
		if err != nil {
			f.log.Warn("skipping bundle file", "path", rel, "error", err)
			continue
		}

		target := filepath.Join(destDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return written, fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", rel, err)
		}
		written++
	}

	if written == 0 {
		return 0, fmt.Errorf("failed to download any of %d bundle files", len(paths))
	}
	return written, nil
}

// CommitSHA returns the latest commit touching the bundle path, used to
// record which revision of the content a pull produced.
func (f *Fetcher) CommitSHA(ctx context.Context) (string, error) {
	commits, _, err := f.client.Repositories.ListCommits(ctx, f.owner, f.repo, &github.CommitsListOptions{
		Path:        f.basePath,
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return "", fmt.Errorf("failed to list commits: %w", err)
	}
	if len(commits) == 0 {
		return "", fmt.Errorf("no commits found for path %s", f.basePath)
	}
	return commits[0].GetSHA(), nil
}

// listJSON walks the repository tree below basePath and returns the
// paths of all JSON files, relative to basePath.
func (f *Fetcher) listJSON(ctx context.Context, subPath string) ([]string, error) {
	fullPath := f.basePath
	if subPath != "" {
		fullPath = path.Join(f.basePath, subPath)
	}

	_, dirContents, _, err := f.client.Repositories.GetContents(ctx, f.owner, f.repo, fullPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", fullPath, err)
	}

	var paths []string
	for _, item := range dirContents {
		if item.Type == nil || item.Name == nil {
			continue
		}
		rel := *item.Name
		if subPath != "" {
			rel = path.Join(subPath, *item.Name)
		}

		switch *item.Type {
		case "file":
			if strings.HasSuffix(*item.Name, ".json") {
				paths = append(paths, rel)
			}
		case "dir":
			nested, err := f.listJSON(ctx, rel)
			if err != nil {
				return nil, err
			}
			paths = append(paths, nested...)
		}
	}
	return paths, nil
}

// fetchFile downloads and decodes a single file, path relative to
// basePath.
func (f *Fetcher) fetchFile(ctx context.Context, rel string) ([]byte, error) {
	fullPath := path.Join(f.basePath, rel)

	fileContent, _, _, err := f.client.Repositories.GetContents(ctx, f.owner, f.repo, fullPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", fullPath, err)
	}
	if fileContent == nil || fileContent.Content == nil {
		return nil, fmt.Errorf("no content returned for %s", fullPath)
	}

	data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(*fileContent.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", fullPath, err)
	}
	return data, nil
}
