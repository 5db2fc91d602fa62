package tzindex

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is a small polygon index read from YAML. Zones are tested in file
// order and the first polygon containing the point wins.
//
//	zones:
//	  - name: Europe/London
//	    polygons:
//	      - [[-8, 49.8], [2, 49.8], [2, 61], [-8, 61]]
//
// Vertices are [lon, lat] pairs, as in GeoJSON. Rings are closed implicitly.
type Fixture struct {
	zones []fixtureZone
}

type fixtureZone struct {
	Name     string        `yaml:"name"`
	Polygons [][][]float64 `yaml:"polygons"`
}

type fixtureFile struct {
	Zones []fixtureZone `yaml:"zones"`
}

func LoadFixture(r io.Reader) (*Fixture, error) {
	var f fixtureFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}

	for i, z := range f.Zones {
		if z.Name == "" {
			return nil, fmt.Errorf("fixture zone %d: missing name", i)
		}
		for j, ring := range z.Polygons {
			if len(ring) < 3 {
				return nil, fmt.Errorf("fixture zone %q polygon %d: need at least 3 vertices", z.Name, j)
			}
			for _, v := range ring {
				if len(v) != 2 {
					return nil, fmt.Errorf("fixture zone %q polygon %d: vertex must be [lon, lat]", z.Name, j)
				}
			}
		}
	}
	return &Fixture{zones: f.Zones}, nil
}

func LoadFixtureFile(path string) (*Fixture, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening fixture: %w", err)
	}
	defer fh.Close()
	return LoadFixture(fh)
}

func (f *Fixture) Lookup(lat, lon float64) string {
	for _, z := range f.zones {
		for _, ring := range z.Polygons {
			if contains(ring, lon, lat) {
				return z.Name
			}
		}
	}
	return ""
}

// contains is an even-odd ray cast from (x, y) towards +x.
func contains(ring [][]float64, x, y float64) bool {
	in := false
	j := len(ring) - 1
	for i := range ring {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			in = !in
		}
		j = i
	}
	return in
}
