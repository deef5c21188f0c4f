/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/gnames/gnspecies/internal/iogbif"
	"github.com/gnames/gnspecies/internal/ioinat"
	"github.com/gnames/gnspecies/internal/iosearch"
	"github.com/gnames/gnspecies/internal/iostore"
	"github.com/gnames/gnspecies/pkg/config"
	"github.com/gnames/gnspecies/pkg/parserpool"
	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// service holds a searcher together with resources it needs.
type service struct {
	searcher *iosearch.Searcher
	registry *prometheus.Registry
	store    taxon.Store
	parser   parserpool.Pool
}

// newService opens the store and connects the searcher to GBIF and
// iNaturalist.
func newService(ctx context.Context, cfg *config.Config) (*service, error) {
	store, err := iostore.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	parser := parserpool.NewPool(cfg.JobsNumber)
	searcher := iosearch.New(
		cfg,
		store,
		iogbif.New(cfg.Providers),
		ioinat.New(cfg.Providers),
		iosearch.OptParser(parser),
		iosearch.OptMetrics(iosearch.NewMetrics(reg)),
	)

	res := service{
		searcher: searcher,
		registry: reg,
		store:    store,
		parser:   parser,
	}
	return &res, nil
}

func (s *service) Close() error {
	s.parser.Close()
	return s.store.Close()
}
