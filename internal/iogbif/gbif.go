// Package iogbif is a client of GBIF species API. It implements
// taxon.TaxonomyProvider.
package iogbif

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnlib"
	"github.com/gnames/gnspecies/pkg/config"
	"github.com/gnames/gnspecies/pkg/taxon"
)

// SpeciesURL returns the GBIF page of a species.
func SpeciesURL(key int) string {
	if key == 0 {
		return ""
	}
	return "https://www.gbif.org/species/" + strconv.Itoa(key)
}

type searchResult struct {
	Results []species `json:"results"`
}

type species struct {
	Key             int          `json:"key"`
	ScientificName  string       `json:"scientificName"`
	CanonicalName   string       `json:"canonicalName"`
	Authorship      string       `json:"authorship"`
	Kingdom         string       `json:"kingdom"`
	Phylum          string       `json:"phylum"`
	Class           string       `json:"class"`
	Order           string       `json:"order"`
	Family          string       `json:"family"`
	Genus           string       `json:"genus"`
	Species         string       `json:"species"`
	VernacularNames []vernacular `json:"vernacularNames"`
}

type vernacularResult struct {
	Results []vernacular `json:"results"`
}

type vernacular struct {
	VernacularName string `json:"vernacularName"`
	Language       string `json:"language"`
	Preferred      bool   `json:"preferred"`
}

// Client talks to GBIF API.
type Client struct {
	baseURL string
	limit   int
	client  *http.Client
	enc     gnfmt.GNjson
}

// New creates a GBIF client from providers' settings.
func New(cfg config.ProvidersConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.GBIFURL, "/"),
		limit:   cfg.SearchLimit,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// Search returns accepted species matching the query.
func (c *Client) Search(ctx context.Context, query string) ([]taxon.RawTaxon, error) {
	q := url.Values{}
	q.Set("q", strings.TrimSpace(query))
	q.Set("rank", "SPECIES")
	q.Set("status", "ACCEPTED")
	q.Set("limit", strconv.Itoa(c.limit))
	u := c.baseURL + "/species/search?" + q.Encode()

	var res searchResult
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	slog.Debug("GBIF search", "query", query, "records", len(res.Results))

	raws := make([]taxon.RawTaxon, len(res.Results))
	for i, v := range res.Results {
		raws[i] = taxon.RawTaxon{
			Key:            v.Key,
			ScientificName: v.ScientificName,
			CanonicalName:  v.CanonicalName,
			Authorship:     strings.TrimSpace(v.Authorship),
			Link:           SpeciesURL(v.Key),
			Kingdom:        v.Kingdom,
			Phylum:         v.Phylum,
			Class:          v.Class,
			Order:          v.Order,
			Family:         v.Family,
			Genus:          v.Genus,
			Species:        v.Species,
			Vernaculars:    vernaculars(v.VernacularNames),
		}
	}
	return raws, nil
}

// Vernaculars returns common names of a species by its GBIF key.
func (c *Client) Vernaculars(ctx context.Context, key int) ([]taxon.Vernacular, error) {
	u := fmt.Sprintf("%s/species/%d/vernacularNames", c.baseURL, key)

	var res vernacularResult
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return vernaculars(res.Results), nil
}

// vernaculars cleans names and removes blank and duplicate ones.
func vernaculars(vv []vernacular) []taxon.Vernacular {
	res := make([]taxon.Vernacular, 0, len(vv))
	seen := make(map[string]struct{}, len(vv))
	for _, v := range vv {
		name := strings.TrimSpace(gnlib.FixUtf8(v.VernacularName))
		key := taxon.NameKey(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, taxon.Vernacular{
			Name:      name,
			Language:  v.Language,
			Preferred: v.Preferred,
		})
	}
	return res
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return RequestError(u, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return RequestError(u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StatusError(u, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return RequestError(u, err)
	}
	if err = c.enc.Decode(body, out); err != nil {
		return DecodeError(u, err)
	}
	return nil
}
