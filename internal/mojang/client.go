package mojang

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
)

// Client resolves Minecraft usernames to UUIDs. Ashcon is the primary
// lookup (no API key, generous rate limits); the Mojang profile endpoint
// is used where the caller wants Mojang's canonical casing.
type Client struct {
	http      *http.Client
	ashconAPI string
	mojangAPI string
}

func New() *Client {
	return &Client{
		http:      &http.Client{Timeout: 15 * time.Second},
		ashconAPI: "https://api.ashcon.app/mojang/v2/user/",
		mojangAPI: "https://api.mojang.com/users/profiles/minecraft/",
	}
}

type Profile struct {
	UUID     string
	Username string
}

// Lookup resolves a username via Ashcon. The returned UUID has its dashes
// stripped to match the compact form the downstream stats APIs expect.
func (c *Client) Lookup(username string) (*Profile, error) {
	if username == "" {
		return nil, errors.New("username required")
	}
	var out struct {
		UUID     string `json:"uuid"`
		Username string `json:"username"`
	}
	if err := c.getJSON(c.ashconAPI+username, &out); err != nil {
		return nil, err
	}
	if out.UUID == "" {
		return nil, fmt.Errorf("player %q not found", username)
	}
	return &Profile{
		UUID:     strings.ReplaceAll(out.UUID, "-", ""),
		Username: out.Username,
	}, nil
}

// UsernameToUUID resolves a username through the Mojang API directly.
func (c *Client) UsernameToUUID(username string) (string, error) {
	if username == "" {
		return "", errors.New("username required")
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(c.mojangAPI+username, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("uuid not found for %q", username)
	}
	return out.ID, nil
}

func (c *Client) getJSON(url string, out any) error {
	logging.L().Debug("mojang: GET", "url", url)

	r, err := c.http.Get(url)
	if err != nil {
		logging.L().Error("mojang: GET failed", "url", url, "error", err)
		return err
	}
	defer r.Body.Close()

	if r.StatusCode >= 400 {
		b, _ := io.ReadAll(r.Body)
		return fmt.Errorf("GET %s: %s: %s", url, r.Status, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(r.Body).Decode(out)
}
