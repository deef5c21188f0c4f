// Package ioinat finds species photos with iNaturalist API. It
// implements taxon.ImageProvider.
package ioinat

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnspecies/pkg/config"
)

type taxaResult struct {
	Results []taxon `json:"results"`
}

type taxon struct {
	DefaultPhoto *photo       `json:"default_photo"`
	TaxonPhotos  []taxonPhoto `json:"taxon_photos"`
}

type taxonPhoto struct {
	Photo *photo `json:"photo"`
}

type photo struct {
	MediumURL string `json:"medium_url"`
}

// Client talks to iNaturalist API.
type Client struct {
	baseURL string
	client  *http.Client
	enc     gnfmt.GNjson
}

// New creates an iNaturalist client from providers' settings.
func New(cfg config.ProvidersConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.INatURL, "/"),
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// Image returns a medium size photo URL of the first taxon that has one.
// Empty string means iNaturalist has no photo for the name.
func (c *Client) Image(ctx context.Context, scientificName string) (string, error) {
	q := url.Values{}
	q.Set("q", strings.TrimSpace(scientificName))
	u := c.baseURL + "/taxa?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return "", RequestError(u, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", RequestError(u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", StatusError(u, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", RequestError(u, err)
	}

	var res taxaResult
	if err = c.enc.Decode(body, &res); err != nil {
		return "", DecodeError(u, err)
	}

	for _, v := range res.Results {
		if u := v.photoURL(); u != "" {
			return u, nil
		}
	}
	slog.Debug("No image found", "name", scientificName)
	return "", nil
}

func (t taxon) photoURL() string {
	if t.DefaultPhoto != nil {
		if res := strings.TrimSpace(t.DefaultPhoto.MediumURL); res != "" {
			return res
		}
	}
	if len(t.TaxonPhotos) > 0 && t.TaxonPhotos[0].Photo != nil {
		return strings.TrimSpace(t.TaxonPhotos[0].Photo.MediumURL)
	}
	return ""
}
