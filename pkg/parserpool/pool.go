// Package parserpool provides a pool of gnparser instances that extract
// authorship from scientific names concurrently.
// This is a pure package - parsing is computation, not I/O.
package parserpool

import (
	"runtime"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool provides parsers for botanical and zoological names.
type Pool interface {
	// Parse parses a name with the nomenclatural code of a kingdom.
	Parse(name, kingdom string) parsed.Parsed

	// Authorship returns normalized authorship of a name or an empty
	// string if the name has none.
	Authorship(name, kingdom string) string

	// Close shuts down the parser pools. After calling Close, the pool
	// should not be used.
	Close()
}

type pool struct {
	botanicalCh  chan gnparser.GNparser
	zoologicalCh chan gnparser.GNparser
}

// NewPool creates a pool with jobsNum parsers per nomenclatural code.
// If jobsNum is 0, it defaults to runtime.NumCPU().
func NewPool(jobsNum int) Pool {
	if jobsNum <= 0 {
		jobsNum = runtime.NumCPU()
	}

	botanicalCfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Botanical))
	zoologicalCfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Zoological))

	return &pool{
		botanicalCh:  gnparser.NewPool(botanicalCfg, jobsNum),
		zoologicalCh: gnparser.NewPool(zoologicalCfg, jobsNum),
	}
}

// Code returns the nomenclatural code names of a kingdom follow.
func Code(kingdom string) nomcode.Code {
	switch strings.ToLower(strings.TrimSpace(kingdom)) {
	case "plantae", "fungi", "chromista", "protozoa":
		return nomcode.Botanical
	default:
		return nomcode.Zoological
	}
}

func (p *pool) Parse(name, kingdom string) parsed.Parsed {
	ch := p.zoologicalCh
	if Code(kingdom) == nomcode.Botanical {
		ch = p.botanicalCh
	}

	parser := <-ch
	res := parser.ParseName(name)
	ch <- parser
	return res
}

func (p *pool) Authorship(name, kingdom string) string {
	res := p.Parse(name, kingdom)
	if !res.Parsed || res.Authorship == nil {
		return ""
	}
	return res.Authorship.Normalized
}

func (p *pool) Close() {
	for _, ch := range []chan gnparser.GNparser{p.botanicalCh, p.zoologicalCh} {
		if ch == nil {
			continue
		}
		close(ch)
		for range ch {
		}
	}
}
