package iogbif_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnspecies/internal/iogbif"
	"github.com/gnames/gnspecies/pkg/config"
	"github.com/gnames/gnspecies/pkg/errcode"
	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ taxon.TaxonomyProvider = &iogbif.Client{}

const searchResponse = `{
  "offset": 0,
  "limit": 100,
  "endOfRecords": true,
  "results": [
    {
      "key": 5219404,
      "scientificName": "Panthera leo (Linnaeus, 1758)",
      "canonicalName": "Panthera leo",
      "authorship": "(Linnaeus, 1758) ",
      "kingdom": "Animalia",
      "phylum": "Chordata",
      "class": "Mammalia",
      "order": "Carnivora",
      "family": "Felidae",
      "genus": "Panthera",
      "species": "Panthera leo",
      "vernacularNames": [
        {"vernacularName": "Lion", "language": "eng"},
        {"vernacularName": "lion", "language": "fra"},
        {"vernacularName": " ", "language": "deu"}
      ]
    },
    {
      "key": 7,
      "canonicalName": "Panthera leo",
      "kingdom": "Animalia"
    }
  ]
}`

const vernacularResponse = `{
  "results": [
    {"vernacularName": "Lion", "language": "eng", "preferred": true},
    {"vernacularName": "León", "language": "spa"},
    {"vernacularName": "LION", "language": "eng"},
    {"vernacularName": "", "language": "eng"}
  ]
}`

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func client() *iogbif.Client {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptProvidersGBIFURL("https://gbif.test/v1/"),
		config.OptProvidersSearchLimit(20),
	})
	return iogbif.New(cfg.Providers)
}

func TestSearch(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder("GET", "https://gbif.test/v1/species/search",
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "leo", q.Get("q"))
			assert.Equal(t, "SPECIES", q.Get("rank"))
			assert.Equal(t, "ACCEPTED", q.Get("status"))
			assert.Equal(t, "20", q.Get("limit"))
			return httpmock.NewStringResponse(http.StatusOK, searchResponse), nil
		})

	res, err := client().Search(context.Background(), " leo ")
	require.NoError(t, err)
	require.Len(t, res, 2)

	lion := res[0]
	assert.Equal(t, 5219404, lion.Key)
	assert.Equal(t, "Panthera leo (Linnaeus, 1758)", lion.ScientificName)
	assert.Equal(t, "(Linnaeus, 1758)", lion.Authorship)
	assert.Equal(t, "https://www.gbif.org/species/5219404", lion.Link)
	assert.Equal(t, "Felidae", lion.Family)
	assert.Equal(t, []taxon.Vernacular{{Name: "Lion", Language: "eng"}}, lion.Vernaculars)

	assert.Empty(t, res[1].ScientificName)
	assert.Equal(t, "Panthera leo", res[1].CanonicalName)
	assert.Empty(t, res[1].Vernaculars)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   gn.ErrorCode
	}{
		{"server error", http.StatusInternalServerError, "", errcode.UpstreamStatusError},
		{"not found", http.StatusNotFound, "{}", errcode.UpstreamStatusError},
		{"bad json", http.StatusOK, "{results:", errcode.UpstreamDecodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHTTPMock(t)
			httpmock.RegisterResponder("GET", `=~^https://gbif\.test/v1/species/search`,
				httpmock.NewStringResponder(tt.status, tt.body))

			res, err := client().Search(context.Background(), "leo")
			require.Error(t, err)
			assert.Nil(t, res)
			gnErr, ok := err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, tt.code, gnErr.Code)
		})
	}
}

func TestSearchEmpty(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder("GET", `=~^https://gbif\.test/v1/species/search`,
		httpmock.NewStringResponder(http.StatusOK, `{"results": []}`))

	res, err := client().Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestVernaculars(t *testing.T) {
	setupHTTPMock(t)
	httpmock.RegisterResponder("GET",
		"https://gbif.test/v1/species/5219404/vernacularNames",
		httpmock.NewStringResponder(http.StatusOK, vernacularResponse))

	res, err := client().Vernaculars(context.Background(), 5219404)
	require.NoError(t, err)
	assert.Equal(t, []taxon.Vernacular{
		{Name: "Lion", Language: "eng", Preferred: true},
		{Name: "León", Language: "spa"},
	}, res)
}

func TestSpeciesURL(t *testing.T) {
	assert.Equal(t, "https://www.gbif.org/species/5219404", iogbif.SpeciesURL(5219404))
	assert.Empty(t, iogbif.SpeciesURL(0))
}
