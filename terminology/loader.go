package terminology

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/gofhir/fhir/r4"
)

// LoadStats counts what a load added.
type LoadStats struct {
	CodeSystems int
	ValueSets   int
	Errors      int
}

func (s *LoadStats) add(o LoadStats) {
	s.CodeSystems += o.CodeSystems
	s.ValueSets += o.ValueSets
	s.Errors += o.Errors
}

// LoadJSON loads a CodeSystem, a ValueSet or a Bundle of them. Bundle
// entries of other types are skipped; entries that fail to load are
// counted in Errors.
func (s *Service) LoadJSON(data []byte) (LoadStats, error) {
	rt, err := jsonparser.GetString(data, "resourceType")
	if err != nil {
		return LoadStats{}, fmt.Errorf("terminology: reading resourceType: %w", err)
	}

	switch rt {
	case "CodeSystem", "ValueSet":
		var stats LoadStats
		if err := s.loadOne(rt, data, &stats); err != nil {
			return stats, err
		}
		return stats, nil
	case "Bundle":
		return s.loadBundle(data)
	default:
		return LoadStats{}, fmt.Errorf("terminology: unsupported resourceType %q", rt)
	}
}

func (s *Service) loadOne(rt string, data []byte, stats *LoadStats) error {
	switch rt {
	case "CodeSystem":
		var cs r4.CodeSystem
		if err := json.Unmarshal(data, &cs); err != nil {
			stats.Errors++
			return fmt.Errorf("terminology: parsing CodeSystem: %w", err)
		}
		if err := s.LoadCodeSystem(&cs); err != nil {
			stats.Errors++
			return err
		}
		stats.CodeSystems++
	case "ValueSet":
		var vs r4.ValueSet
		if err := json.Unmarshal(data, &vs); err != nil {
			stats.Errors++
			return fmt.Errorf("terminology: parsing ValueSet: %w", err)
		}
		if err := s.LoadValueSet(&vs); err != nil {
			stats.Errors++
			return err
		}
		stats.ValueSets++
	}
	return nil
}

// loadBundle loads code systems before value sets so compose includes can
// expand against them.
func (s *Service) loadBundle(data []byte) (LoadStats, error) {
	var codeSystems, valueSets [][]byte
	_, err := jsonparser.ArrayEach(data, func(entry []byte, _ jsonparser.ValueType, _ int, _ error) {
		res, typ, _, err := jsonparser.Get(entry, "resource")
		if err != nil || typ != jsonparser.Object {
			return
		}
		switch rt, _ := jsonparser.GetString(res, "resourceType"); rt {
		case "CodeSystem":
			codeSystems = append(codeSystems, res)
		case "ValueSet":
			valueSets = append(valueSets, res)
		}
	}, "entry")
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return LoadStats{}, fmt.Errorf("terminology: reading bundle entries: %w", err)
	}

	var stats LoadStats
	for _, res := range codeSystems {
		_ = s.loadOne("CodeSystem", res, &stats)
	}
	for _, res := range valueSets {
		_ = s.loadOne("ValueSet", res, &stats)
	}
	return stats, nil
}

// LoadDir loads every *.json file in dir, code systems first. Files that
// fail to load are counted in Errors and do not stop the load.
func (s *Service) LoadDir(dir string) (LoadStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return LoadStats{}, fmt.Errorf("terminology: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == "package.json" || name == ".index.json" {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	// Package naming puts CodeSystem-* before ValueSet-*; other files
	// (bundles) sort by name after both.
	sort.SliceStable(files, func(i, j int) bool {
		return rank(files[i]) < rank(files[j])
	})

	var stats LoadStats
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			stats.Errors++
			continue
		}
		got, err := s.LoadJSON(data)
		stats.add(got)
		if err != nil && got.Errors == 0 {
			stats.Errors++
		}
	}
	return stats, nil
}

func rank(path string) int {
	switch base := filepath.Base(path); {
	case strings.HasPrefix(base, "CodeSystem-"):
		return 0
	case strings.HasPrefix(base, "ValueSet-"):
		return 1
	default:
		return 2
	}
}
