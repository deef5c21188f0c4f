package iotesting

import "github.com/gnames/gnspecies/pkg/taxon"

// Record creates a merged record with the full classification of
// a species.
func Record(name string, key int, ranks [taxon.RanksNum]string, commons ...string) taxon.Record {
	res := taxon.Record{
		ScientificName: name,
		Verbatim:       name,
		Key:            key,
		Ranks:          ranks,
	}
	for _, v := range commons {
		res.Vernaculars = append(res.Vernaculars, taxon.Vernacular{Name: v})
	}
	return res
}

// Felidae is the classification of cats down to genus Panthera.
var Felidae = [taxon.RanksNum]string{
	"Animalia", "Chordata", "Mammalia", "Carnivora", "Felidae", "Panthera",
}

// Fagaceae is the classification of oaks down to genus Quercus.
var Fagaceae = [taxon.RanksNum]string{
	"Plantae", "Tracheophyta", "Magnoliopsida", "Fagales", "Fagaceae", "Quercus",
}

// Lion returns the record of Panthera leo.
func Lion() taxon.Record {
	res := Record("Panthera leo", 5219404, Felidae, "Lion", "African Lion")
	res.Authorship = "(Linnaeus, 1758)"
	res.Link = "https://www.gbif.org/species/5219404"
	return res
}

// Tiger returns the record of Panthera tigris.
func Tiger() taxon.Record {
	return Record("Panthera tigris", 5219416, Felidae, "Tiger")
}

// Oak returns the record of Quercus robur.
func Oak() taxon.Record {
	return Record("Quercus robur", 2878688, Fagaceae, "English oak", "Pedunculate oak")
}
