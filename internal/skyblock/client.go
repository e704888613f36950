package skyblock

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
)

// Client talks to the two SkyBlock data sources the bot uses: the SkyCrypt
// proxy (no key required, used for listings) and the official Hypixel API
// (key required, used for /skyblockstats).
type Client struct {
	http        *http.Client
	skyCryptAPI string
	hypixelAPI  string
	hypixelKey  string
}

func New(hypixelKey string) *Client {
	return &Client{
		http:        &http.Client{Timeout: 15 * time.Second},
		skyCryptAPI: "https://sky.shiiyu.moe/api/v2/profile/",
		hypixelAPI:  "https://api.hypixel.net/v2/skyblock/profiles",
		hypixelKey:  hypixelKey,
	}
}

// Profile is one SkyBlock profile as rendered into a listing embed.
type Profile struct {
	ID           string
	Name         string
	Current      bool
	SkillAverage float64
	Catacombs    float64
	SlayerXP     map[string]float64
	Networth     float64
	Level        float64
}

type skyCryptResponse struct {
	Profiles map[string]skyCryptProfile `json:"profiles"`
}

type skyCryptProfile struct {
	ProfileID string `json:"profile_id"`
	CuteName  string `json:"cute_name"`
	Current   bool   `json:"current"`
	Data      struct {
		Stats struct {
			AverageLevel float64 `json:"average_level"`
			Catacombs    struct {
				Level float64 `json:"level"`
			} `json:"catacombs"`
		} `json:"stats"`
		Slayer struct {
			XP map[string]float64 `json:"xp"`
		} `json:"slayer"`
		Networth struct {
			Networth float64 `json:"networth"`
		} `json:"networth"`
		SkyblockLevel struct {
			Level float64 `json:"level"`
		} `json:"skyblock_level"`
	} `json:"data"`
}

// Profiles fetches every SkyBlock profile for a compact (dash-free) UUID
// via SkyCrypt. The current profile sorts first; the rest follow by name
// so the selection prompt is stable.
func (c *Client) Profiles(uuid string) ([]Profile, error) {
	if uuid == "" {
		return nil, errors.New("uuid required")
	}
	var out skyCryptResponse
	if err := c.getJSON(c.skyCryptAPI+uuid, &out); err != nil {
		return nil, err
	}
	if len(out.Profiles) == 0 {
		return nil, fmt.Errorf("no SkyBlock profiles for uuid %s", uuid)
	}

	profiles := make([]Profile, 0, len(out.Profiles))
	for id, p := range out.Profiles {
		if p.ProfileID == "" {
			p.ProfileID = id
		}
		profiles = append(profiles, Profile{
			ID:           p.ProfileID,
			Name:         p.CuteName,
			Current:      p.Current,
			SkillAverage: p.Data.Stats.AverageLevel,
			Catacombs:    p.Data.Stats.Catacombs.Level,
			SlayerXP:     p.Data.Slayer.XP,
			Networth:     p.Data.Networth.Networth,
			Level:        p.Data.SkyblockLevel.Level,
		})
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Current != profiles[j].Current {
			return profiles[i].Current
		}
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// HypixelProfile is the subset of the official API response shown by
// /skyblockstats.
type HypixelProfile struct {
	ProfileName string  `json:"profile_name"`
	Weight      float64 `json:"weight"`
	Selected    bool    `json:"selected"`
}

type hypixelResponse struct {
	Success  bool             `json:"success"`
	Cause    string           `json:"cause"`
	Profiles []HypixelProfile `json:"profiles"`
}

// HypixelProfiles fetches a player's profiles from the official Hypixel
// API. The selected profile sorts first.
func (c *Client) HypixelProfiles(uuid string) ([]HypixelProfile, error) {
	if c.hypixelKey == "" {
		return nil, errors.New("hypixel api key not configured")
	}
	q := url.Values{}
	q.Set("key", c.hypixelKey)
	q.Set("uuid", uuid)

	var out hypixelResponse
	if err := c.getJSON(c.hypixelAPI+"?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if !out.Success {
		if out.Cause != "" {
			return nil, fmt.Errorf("hypixel api: %s", out.Cause)
		}
		return nil, errors.New("hypixel api request failed")
	}
	if len(out.Profiles) == 0 {
		return nil, errors.New("no SkyBlock profiles found")
	}
	sort.Slice(out.Profiles, func(i, j int) bool {
		return out.Profiles[i].Selected && !out.Profiles[j].Selected
	})
	return out.Profiles, nil
}

func (c *Client) getJSON(u string, out any) error {
	logging.L().Debug("skyblock: GET", "url", u)

	r, err := c.http.Get(u)
	if err != nil {
		logging.L().Error("skyblock: GET failed", "url", u, "error", err)
		return err
	}
	defer r.Body.Close()

	if r.StatusCode >= 400 {
		b, _ := io.ReadAll(r.Body)
		return fmt.Errorf("GET %s: %s: %s", u, r.Status, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(r.Body).Decode(out)
}
