package mercure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// maximum hub response body read as the update id
const maxIDLength = 1024

type Config struct {
	HubURL    string
	JWTSecret string
	// HTTPClient defaults to a client with no timeout.
	HTTPClient *http.Client
}

// PublisherClaims is the JWT a hub requires from publishers.
type PublisherClaims struct {
	Mercure MercureClaim `json:"mercure"`
	jwt.RegisteredClaims
}

type MercureClaim struct {
	Publish []string `json:"publish"`
}

// Publisher posts updates to a Mercure hub. The hub answers with the id it
// assigned to the update.
type Publisher struct {
	hubURL string
	secret []byte
	client *http.Client
}

func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.HubURL == "" {
		return nil, errors.New("mercure hub url is required")
	}
	if _, err := url.ParseRequestURI(cfg.HubURL); err != nil {
		return nil, fmt.Errorf("invalid mercure hub url: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("mercure jwt secret is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Publisher{
		hubURL: cfg.HubURL,
		secret: []byte(cfg.JWTSecret),
		client: client,
	}, nil
}

// Token signs a short-lived publisher JWT allowed to publish on any topic.
func (p *Publisher) Token() (string, error) {
	now := time.Now()
	claims := PublisherClaims{
		Mercure: MercureClaim{Publish: []string{"*"}},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	token, err := p.Token()
	if err != nil {
		return "", fmt.Errorf("sign mercure token: %w", err)
	}

	form := url.Values{}
	form.Set("topic", topic)
	form.Set("data", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.hubURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build mercure request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mercure publish to %s: %w", topic, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIDLength))
	if err != nil {
		return "", fmt.Errorf("read mercure response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("mercure hub returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return strings.TrimSpace(string(body)), nil
}
