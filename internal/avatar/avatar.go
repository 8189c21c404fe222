// Package avatar fetches a user's profile picture without driving a browser.
// It authenticates plain HTTP requests with the stored session cookies, tries
// the web profile API first, and falls back to scraping the profile HTML.
package avatar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/instaflow-labs/instaflow-cli/internal/accounts"
)

// appID is the web client identifier the profile API expects.
const appID = "936619743392459"

var (
	hdURLPattern   = regexp.MustCompile(`"profile_pic_url_hd"\s*:\s*"([^"]+)"`)
	ogImagePattern = regexp.MustCompile(`<meta\s+property="og:image"\s+content="([^"]+)"`)
)

// Fetcher downloads profile pictures using an account's cookies.
type Fetcher struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// NewFetcher creates a Fetcher against the given platform base URL.
func NewFetcher(baseURL string, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("avatar"),
	}
}

// Resolve finds the avatar URL for username, preferring the HD variant the
// profile API reports and falling back to the profile page markup.
func (f *Fetcher) Resolve(ctx context.Context, acct *accounts.Account, username string) (string, error) {
	if url, err := f.fromAPI(ctx, acct, username); err == nil && url != "" {
		return url, nil
	} else if err != nil {
		f.logger.Debug("Profile API lookup failed, falling back to HTML.", zap.Error(err))
	}
	return f.fromHTML(ctx, acct, username)
}

// Save resolves and downloads the avatar into dir as <username>.jpg and
// returns the written path.
func (f *Fetcher) Save(ctx context.Context, acct *accounts.Account, username, dir string) (string, error) {
	url, err := f.Resolve(ctx, acct, username)
	if err != nil {
		return "", err
	}

	resp, err := f.get(ctx, acct, url, false)
	if err != nil {
		return "", fmt.Errorf("downloading avatar: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading avatar: unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, username+".jpg")
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating avatar file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("writing avatar file: %w", err)
	}
	f.logger.Info("Saved avatar.", zap.String("username", username), zap.String("path", path))
	return path, nil
}

// fromAPI queries the web profile endpoint for the HD picture URL.
func (f *Fetcher) fromAPI(ctx context.Context, acct *accounts.Account, username string) (string, error) {
	url := fmt.Sprintf("%s/api/v1/users/web_profile_info/?username=%s", f.baseURL, username)
	resp, err := f.get(ctx, acct, url, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("profile API returned status %d", resp.StatusCode)
	}

	var body struct {
		Data struct {
			User struct {
				ProfilePicURLHD string `json:"profile_pic_url_hd"`
				ProfilePicURL   string `json:"profile_pic_url"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding profile API response: %w", err)
	}
	if body.Data.User.ProfilePicURLHD != "" {
		return body.Data.User.ProfilePicURLHD, nil
	}
	return body.Data.User.ProfilePicURL, nil
}

// fromHTML scrapes the profile page for a picture URL, trying the embedded
// HD field first and the og:image meta tag second.
func (f *Fetcher) fromHTML(ctx context.Context, acct *accounts.Account, username string) (string, error) {
	resp, err := f.get(ctx, acct, f.baseURL+"/"+username+"/", false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("profile page returned status %d", resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("reading profile page: %w", err)
	}

	if m := hdURLPattern.FindSubmatch(html); m != nil {
		return unescapeJSON(string(m[1])), nil
	}
	if m := ogImagePattern.FindSubmatch(html); m != nil {
		return strings.ReplaceAll(string(m[1]), "&amp;", "&"), nil
	}
	return "", fmt.Errorf("no avatar URL found for %q", username)
}

// get issues a cookie-authenticated GET. asAPI adds the headers the web API
// requires.
func (f *Fetcher) get(ctx context.Context, acct *accounts.Account, url string, asAPI bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	if asAPI {
		req.Header.Set("X-IG-App-ID", appID)
		req.Header.Set("Accept", "application/json")
	}

	var pairs []string
	for _, c := range acct.Cookies {
		if c.Name == "" {
			continue
		}
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	if len(pairs) > 0 {
		req.Header.Set("Cookie", strings.Join(pairs, "; "))
	}
	return f.client.Do(req)
}

// unescapeJSON undoes the escaping of a URL lifted out of an embedded JSON
// blob.
func unescapeJSON(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return strings.ReplaceAll(s, `\/`, "/")
	}
	return out
}
