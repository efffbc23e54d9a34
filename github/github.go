// Package github reads release-tag information from the GitHub API for the
// model repositories hosted under the canonical source URL.
package github

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

type tag struct {
	Name string `json:"name"`
}

// OwnerFromURL extracts the owner from a source-hosting base URL such as
// https://github.com/PSLmodels.
func OwnerFromURL(baseURL string) (string, error) {
	trimmed := strings.TrimPrefix(baseURL, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimSuffix(trimmed, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] != "github.com" || parts[1] == "" {
		return "", fmt.Errorf("invalid GitHub base URL %q, expected https://github.com/owner", baseURL)
	}
	return parts[1], nil
}

func fetchTagPage(owner, repo, token string, page int) ([]tag, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/tags?per_page=100&page=%d",
		owner, repo, page)
	req, _ := http.NewRequest("GET", url, nil)
	if token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("GitHub API status %d", resp.StatusCode)
	}

	var tags []tag
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Tags returns the names of all tags of a repository, following the API's
// pagination.
func Tags(owner, repo, token string) ([]string, error) {
	var names []string
	for page := 1; ; page++ {
		tags, err := fetchTagPage(owner, repo, token, page)
		if err != nil {
			return nil, err
		}
		for _, t := range tags {
			names = append(names, t.Name)
		}
		if len(tags) < 100 {
			return names, nil
		}
	}
}

// TagExists reports whether the repository carries a tag with the exact name.
func TagExists(owner, repo, name, token string) (bool, error) {
	tags, err := Tags(owner, repo, token)
	if err != nil {
		return false, err
	}
	for _, t := range tags {
		if t == name {
			return true, nil
		}
	}
	return false, nil
}

// SortByVersion orders tag names newest-first by semantic version. Names that
// do not parse as a version sort after all versions, in reverse lexical
// order so recent date-style tags still tend to come first.
func SortByVersion(names []string) []string {
	sorted := make([]string, len(names))
	copy(sorted, names)

	version := func(s string) *semver.Version {
		v, err := semver.NewVersion(s)
		if err != nil {
			return nil
		}
		return v
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := version(sorted[i]), version(sorted[j])
		switch {
		case vi != nil && vj != nil:
			return vi.GreaterThan(vj)
		case vi != nil:
			return true
		case vj != nil:
			return false
		default:
			return sorted[i] > sorted[j]
		}
	})
	return sorted
}
