package iosearch_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gnames/gnparser/ent/parsed"
	"github.com/gnames/gnspecies/pkg/taxon"
)

type fakeTaxa struct {
	mu       sync.Mutex
	raws     []taxon.RawTaxon
	vern     map[int][]taxon.Vernacular
	err      error
	delay    time.Duration
	searches atomic.Int32
}

func (f *fakeTaxa) Search(ctx context.Context, _ string) ([]taxon.RawTaxon, error) {
	f.searches.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]taxon.RawTaxon(nil), f.raws...), nil
}

func (f *fakeTaxa) Vernaculars(_ context.Context, key int) ([]taxon.Vernacular, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if vv, ok := f.vern[key]; ok {
		return vv, nil
	}
	return nil, errors.New("no vernaculars")
}

type fakeImages struct {
	mu    sync.Mutex
	urls  map[string]string
	err   error
	delay time.Duration
	calls map[string]int
}

func newFakeImages(urls map[string]string) *fakeImages {
	return &fakeImages{urls: urls, calls: make(map[string]int)}
}

func (f *fakeImages) Image(ctx context.Context, name string) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if f.err != nil {
		return "", f.err
	}
	return f.urls[name], nil
}

func (f *fakeImages) callsNum(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

type fakeParser struct{}

func (fakeParser) Parse(string, string) parsed.Parsed {
	return parsed.Parsed{}
}

func (fakeParser) Authorship(name, _ string) string {
	if i := strings.Index(name, "("); i > 0 {
		return strings.TrimSpace(name[i:])
	}
	return ""
}

func (fakeParser) Close() {}

func leoRaws() []taxon.RawTaxon {
	return []taxon.RawTaxon{
		{
			ScientificName: "Panthera leo (Linnaeus, 1758)",
			Kingdom:        "Animalia",
			Family:         "Felidae",
		},
		{
			Key:            5219404,
			ScientificName: "Panthera leo",
			Link:           "https://www.gbif.org/species/5219404",
			Kingdom:        "Animalia",
			Phylum:         "Chordata",
			Class:          "Mammalia",
			Order:          "Carnivora",
			Family:         "Felidae",
			Genus:          "Panthera",
			Vernaculars:    []taxon.Vernacular{{Name: "Lion"}},
		},
		{
			Key:            4000,
			ScientificName: "Leontodon hispidus L.",
			Authorship:     "L.",
			Kingdom:        "Plantae",
			Family:         "Asteraceae",
			Genus:          "Leontodon",
		},
		{
			Key:            5000,
			ScientificName: "Vulpes vulpes",
			Kingdom:        "Animalia",
			Genus:          "Vulpes",
		},
		{
			ScientificName: "Leo",
			Kingdom:        "Animalia",
		},
	}
}
