package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const githubAPIHost = "api.github.com"

// Fetcher downloads text documents such as the RFID roster CSV or booking.yaml.
type Fetcher interface {
	FetchText(ctx context.Context, rawURL string) (string, error)
}

// GitHubFetcher fetches files through the GitHub contents API when the URL
// points at GitHub, and plainly otherwise.
type GitHubFetcher struct {
	client *http.Client
	token  string
}

// NewGitHubFetcher creates a fetcher. token may be empty for public repositories.
func NewGitHubFetcher(token string, timeout time.Duration) *GitHubFetcher {
	return &GitHubFetcher{
		client: &http.Client{Timeout: timeout},
		token:  token,
	}
}

func (f *GitHubFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	apiURL := ToContentsAPI(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", apiURL, err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3.raw")
	if f.token != "" {
		req.Header.Set("Authorization", "token "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", apiURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %d", apiURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", apiURL, err)
	}
	return decodeText(body), nil
}

// decodeText returns body as UTF-8, treating invalid input as Latin-1.
func decodeText(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	runes := make([]rune, len(body))
	for i, b := range body {
		runes[i] = rune(b)
	}
	return string(runes)
}

// ToContentsAPI converts github.com blob/raw URLs and raw.githubusercontent.com
// URLs into the equivalent api.github.com contents URL. Other URLs are returned unchanged.
func ToContentsAPI(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch u.Hostname() {
	case githubAPIHost:
		return rawURL
	case "raw.githubusercontent.com":
		// owner/repo/branch/path...
		if len(parts) < 4 {
			return rawURL
		}
		return contentsURL(parts[0], parts[1], parts[2], strings.Join(parts[3:], "/"))
	case "github.com":
		if len(parts) < 5 {
			return rawURL
		}
		owner, repo := parts[0], parts[1]
		switch parts[2] {
		case "raw":
			ref := parts[3:]
			if ref[0] == "refs" && len(ref) >= 3 && ref[1] == "heads" {
				return contentsURL(owner, repo, ref[2], strings.Join(ref[3:], "/"))
			}
			return contentsURL(owner, repo, ref[0], strings.Join(ref[1:], "/"))
		case "blob":
			return contentsURL(owner, repo, parts[3], strings.Join(parts[4:], "/"))
		}
	}
	return rawURL
}

func contentsURL(owner, repo, branch, path string) string {
	return fmt.Sprintf("https://%s/repos/%s/%s/contents/%s?ref=%s", githubAPIHost, owner, repo, path, branch)
}

// SiblingURL replaces the file name of a GitHub contents URL with name, keeping
// the query. It returns "" when rawURL does not resolve to a contents URL.
func SiblingURL(rawURL, name string) string {
	u, err := url.Parse(ToContentsAPI(rawURL))
	if err != nil || u.Hostname() != githubAPIHost {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 5 || parts[0] != "repos" || parts[3] != "contents" {
		return ""
	}
	parts[len(parts)-1] = name
	u.Path = "/" + strings.Join(parts, "/")
	return u.String()
}
