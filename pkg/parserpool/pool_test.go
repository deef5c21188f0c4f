package parserpool_test

import (
	"sync"
	"testing"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnspecies/pkg/parserpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	tests := []struct {
		kingdom string
		code    nomcode.Code
	}{
		{"Plantae", nomcode.Botanical},
		{" fungi ", nomcode.Botanical},
		{"Animalia", nomcode.Zoological},
		{"", nomcode.Zoological},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, parserpool.Code(tt.kingdom), tt.kingdom)
	}
}

func TestParse(t *testing.T) {
	pool := parserpool.NewPool(2)
	defer pool.Close()

	res := pool.Parse("Panthera leo (Linnaeus, 1758)", "Animalia")
	require.True(t, res.Parsed)
	assert.Equal(t, "Panthera leo", res.Canonical.Simple)

	res = pool.Parse("Quercus robur L.", "Plantae")
	require.True(t, res.Parsed)
	assert.Equal(t, "Quercus robur", res.Canonical.Simple)
}

func TestAuthorship(t *testing.T) {
	pool := parserpool.NewPool(2)
	defer pool.Close()

	tests := []struct {
		msg, name, kingdom, res string
	}{
		{"zoological", "Panthera leo (Linnaeus, 1758)", "Animalia", "(Linnaeus 1758)"},
		{"botanical", "Quercus robur L.", "Plantae", "L."},
		{"no authorship", "Vulpes vulpes", "Animalia", ""},
		{"not a name", "", "Animalia", ""},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.res, pool.Authorship(tt.name, tt.kingdom))
		})
	}
}

func TestConcurrent(t *testing.T) {
	pool := parserpool.NewPool(4)
	defer pool.Close()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, kingdom := "Plantago major L.", "Plantae"
			if i%2 == 0 {
				name, kingdom = "Homo sapiens Linnaeus, 1758", "Animalia"
			}
			for range 10 {
				assert.True(t, pool.Parse(name, kingdom).Parsed)
			}
		}()
	}
	wg.Wait()
}
