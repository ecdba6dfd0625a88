package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var ErrRoleNotFound = errors.New("role not found")

// Platform is the slice of the chat-platform REST API this bot needs:
// resolving and creating guild roles and toggling them on members.
type Platform interface {
	ResolveRole(ctx context.Context, name string) (string, error)
	CreateRole(ctx context.Context, name string) (string, error)
	AddMemberRole(ctx context.Context, userID int64, roleID string) error
	RemoveMemberRole(ctx context.Context, userID int64, roleID string) error
}

type Config struct {
	BaseURL string
	Token   string
	GuildID string
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *zerolog.Logger
}

func NewClient(cfg Config, log *zerolog.Logger) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  log,
	}
}

type role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bot "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

func (c *Client) ResolveRole(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/guilds/%s/roles", c.cfg.BaseURL, c.cfg.GuildID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to list roles: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("list roles returned status %d", resp.StatusCode)
	}

	var roles []role
	if err := json.NewDecoder(resp.Body).Decode(&roles); err != nil {
		return "", fmt.Errorf("failed to decode roles: %w", err)
	}
	for _, r := range roles {
		if r.Name == name {
			return r.ID, nil
		}
	}
	return "", ErrRoleNotFound
}

func (c *Client) CreateRole(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/guilds/%s/roles", c.cfg.BaseURL, c.cfg.GuildID)
	body := fmt.Sprintf(`{"name":%q}`, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return "", err
	}
	resp, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create role: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("create role returned status %d", resp.StatusCode)
	}

	var r role
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("failed to decode created role: %w", err)
	}
	c.log.Info().Str("role", name).Str("role_id", r.ID).Msg("platform role created")
	return r.ID, nil
}

func (c *Client) AddMemberRole(ctx context.Context, userID int64, roleID string) error {
	url := fmt.Sprintf("%s/guilds/%s/members/%d/roles/%s", c.cfg.BaseURL, c.cfg.GuildID, userID, roleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("failed to add member role: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("add member role returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) RemoveMemberRole(ctx context.Context, userID int64, roleID string) error {
	url := fmt.Sprintf("%s/guilds/%s/members/%d/roles/%s", c.cfg.BaseURL, c.cfg.GuildID, userID, roleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("failed to remove member role: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("remove member role returned status %d", resp.StatusCode)
	}
	return nil
}
