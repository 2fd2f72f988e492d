package dataset

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"kuralhub/internal/kural"
	"kuralhub/pkg/models"
)

// Source yields the full kural dataset. It is called once at startup.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.Kural, error)
}

// FileSource reads a CSV from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(ctx context.Context) ([]models.Kural, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return rows, nil
}

// HTTPSource fetches a CSV over HTTP(S).
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string { return s.URL }

func (s HTTPSource) Load(ctx context.Context) ([]models.Kural, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset: unexpected status %s", resp.Status)
	}

	rows, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.URL, err)
	}
	return rows, nil
}

// RepoSource reads the sqlite mirror written by the import tool.
type RepoSource struct {
	Repo *kural.Repo
}

func (s RepoSource) Name() string { return "sqlite" }

func (s RepoSource) Load(ctx context.Context) ([]models.Kural, error) {
	return s.Repo.All(ctx)
}

// SourceFor picks a Source from a dataset location: "db" selects the
// sqlite mirror, http(s) URLs are fetched, anything else is a file path.
func SourceFor(location string, repo *kural.Repo, client *http.Client) (Source, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, fmt.Errorf("dataset location required")
	case location == "db":
		if repo == nil {
			return nil, fmt.Errorf("dataset %q requires a database", location)
		}
		return RepoSource{Repo: repo}, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return HTTPSource{URL: location, Client: client}, nil
	default:
		return FileSource{Path: location}, nil
	}
}
