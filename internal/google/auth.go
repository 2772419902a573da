package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// ServiceAccountKey is the subset of a Google service account JSON key
// file the bot needs.
type ServiceAccountKey struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ServiceAccountAuth exchanges a signed JWT assertion for a Google
// access token and caches it until shortly before expiry.
type ServiceAccountAuth struct {
	key    ServiceAccountKey
	client *http.Client
	now    func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewServiceAccountAuth reads and parses a service account key file.
func NewServiceAccountAuth(keyPath string) (*ServiceAccountAuth, error) {
	contents, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key: %w", err)
	}

	var key ServiceAccountKey
	if err := json.Unmarshal(contents, &key); err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	return &ServiceAccountAuth{
		key:    key,
		client: &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}, nil
}

// AccessToken returns a valid access token, reusing the cached one
// while it has at least 60 seconds of life left.
func (a *ServiceAccountAuth) AccessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if a.token != "" && a.expiresAt.After(now.Add(60*time.Second)) {
		return a.token, nil
	}

	assertion, err := a.signAssertion(now)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.key.TokenURI,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request failed: %s: %s", resp.Status, string(body))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	a.token = token.AccessToken
	a.expiresAt = now.Add(time.Duration(token.ExpiresIn) * time.Second)
	return a.token, nil
}

func (a *ServiceAccountAuth) signAssertion(now time.Time) (string, error) {
	// Key files sometimes arrive with escaped newlines
	pem := strings.ReplaceAll(a.key.PrivateKey, `\n`, "\n")

	rsaKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pem))
	if err != nil {
		return "", fmt.Errorf("failed to parse private key: %w", err)
	}

	claims := jwt.MapClaims{
		"iss":   a.key.ClientEmail,
		"scope": sheetsScope,
		"aud":   a.key.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(rsaKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}
	return signed, nil
}
