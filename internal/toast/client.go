// Package toast is the vendor API client: token authentication, client-side
// rate limiting, and Link-header page traversal over the orders, labor, and
// configuration endpoints.
package toast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	loginPath  = "/authentication/v1/authentication/login"
	accessType = "TOAST_MACHINE_CLIENT"

	// tokens are refreshed a minute before the vendor-reported expiry
	tokenExpiryGrace = time.Minute
)

type Config struct {
	BaseURL           string
	ClientID          string
	ClientSecret      string
	RequestsPerSecond int
}

// Client talks to the vendor API for any number of stores. It is safe for
// concurrent use; the rate limiter spans all stores, matching the vendor's
// per-credential limit.
type Client struct {
	base    string
	http    *http.Client
	tokens  oauth2.TokenSource
	limiter *rate.Limiter
}

func NewClient(cfg Config) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	httpClient := &http.Client{Timeout: 60 * time.Second}
	src := &loginTokenSource{
		http:         httpClient,
		base:         base,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
	return &Client{
		base:    base,
		http:    httpClient,
		tokens:  oauth2.ReuseTokenSource(nil, src),
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// loginTokenSource obtains machine-client tokens from the vendor's login
// endpoint. oauth2.ReuseTokenSource on top of it handles caching and refresh.
type loginTokenSource struct {
	http         *http.Client
	base         string
	clientID     string
	clientSecret string
}

func (s *loginTokenSource) Token() (*oauth2.Token, error) {
	body, err := json.Marshal(map[string]string{
		"clientId":       s.clientID,
		"clientSecret":   s.clientSecret,
		"userAccessType": accessType,
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.http.Post(s.base+loginPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("login returned %d: %s", resp.StatusCode, snippet)
	}

	var payload struct {
		Token struct {
			AccessToken string `json:"accessToken"`
			ExpiresIn   int64  `json:"expiresIn"`
		} `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if payload.Token.AccessToken == "" {
		return nil, fmt.Errorf("login response missing access token")
	}

	expiry := time.Now().Add(time.Duration(payload.Token.ExpiresIn) * time.Second)
	return &oauth2.Token{
		AccessToken: payload.Token.AccessToken,
		TokenType:   "Bearer",
		Expiry:      expiry.Add(-tokenExpiryGrace),
	}, nil
}

// get fetches one page. target is either a path relative to the base URL or
// the absolute "next" URL from a previous page's Link header (which already
// carries its query string). It returns the next-page URL, if any, and the
// raw response body so callers can archive the exact payload.
func (c *Client) get(ctx context.Context, target, store string, params url.Values, out any) (string, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", nil, err
	}

	tok, err := c.tokens.Token()
	if err != nil {
		return "", nil, fmt.Errorf("auth: %w", err)
	}

	rawURL := target
	if strings.HasPrefix(target, "/") {
		rawURL = c.base + target
		if len(params) > 0 {
			rawURL += "?" + params.Encode()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Toast-Restaurant-External-ID", store)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", nil, fmt.Errorf("GET %s returned %d: %s", req.URL.Path, resp.StatusCode, snippet)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return "", nil, fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}

	return parseLinkHeader(resp.Header.Get("Link"))["next"], body, nil
}

// parseLinkHeader extracts rel => URL pairs from an RFC 5988 Link header.
func parseLinkHeader(header string) map[string]string {
	links := make(map[string]string)
	if header == "" {
		return links
	}
	for _, part := range strings.Split(header, ",") {
		var linkURL, rel string
		for _, piece := range strings.Split(part, ";") {
			piece = strings.TrimSpace(piece)
			if strings.HasPrefix(piece, "<") && strings.HasSuffix(piece, ">") {
				linkURL = strings.Trim(piece, "<>")
			} else if strings.HasPrefix(piece, "rel=") {
				rel = strings.Trim(strings.TrimPrefix(piece, "rel="), `"`)
			}
		}
		if rel != "" && linkURL != "" {
			links[rel] = linkURL
		}
	}
	return links
}

// businessDateParam formats a date the way the vendor expects: YYYYMMDD.
func businessDateParam(day time.Time) string {
	return day.Format("20060102")
}
