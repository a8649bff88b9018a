package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Geolocator resolves an IP address to a coarse location.
type Geolocator interface {
	Locate(ctx context.Context, ip string) (Location, error)
}

// IPAPIClient resolves locations through ipapi.co. The caller treats every
// failure as "unresolved" so the lookup never blocks a login.
type IPAPIClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewIPAPIClient() *IPAPIClient {
	return &IPAPIClient{
		BaseURL: "https://ipapi.co",
		HTTP:    &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *IPAPIClient) Locate(ctx context.Context, ip string) (Location, error) {
	if ip == "" || ip == "127.0.0.1" || ip == "::1" {
		return Location{}, nil
	}
	url := fmt.Sprintf("%s/%s/json/", c.BaseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Location{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("ipapi: status %d for %s", resp.StatusCode, ip)
	}
	var body struct {
		City        string `json:"city"`
		CountryName string `json:"country_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, err
	}
	return Location{City: body.City, Country: body.CountryName}, nil
}
