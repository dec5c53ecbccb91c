// Package snapshot loads the keyword and performance data an analysis runs on.
//
// A snapshot file is YAML (JSON is accepted too, being a YAML subset):
//
//	keywords:
//	  - id: kw-1
//	    keyword: running shoes
//	    match_type: exact
//	performances:
//	  - keyword_id: kw-1
//	    keyword: running shoes
//	    campaign_id: exact-shoes
//	    impressions: 1200
//	    ctr: 0.8
//	assignments:          # optional, id or text -> campaign
//	  kw-1: exact-shoes
//	campaign_sets:        # optional, id or text -> campaigns
//	  kw-1: [exact-shoes]
//
// Loading is the ingestion boundary, so it is where records are validated.
package snapshot

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/adscope/kwc/internal/cannibalization"
	"github.com/adscope/kwc/internal/types"
)

// Snapshot is a closed set of analysis inputs
type Snapshot struct {
	Keywords     []types.KeywordRecord     `yaml:"keywords" json:"keywords"`
	Performances []types.PerformanceRecord `yaml:"performances" json:"performances"`
	Assignments  types.CampaignAssignments `yaml:"assignments,omitempty" json:"assignments,omitempty"`
	CampaignSets types.CampaignSets        `yaml:"campaign_sets,omitempty" json:"campaign_sets,omitempty"`
}

// Options controls how strictly records are checked on load
type Options struct {
	// Strict turns validation problems into a load error.
	// When false, problems are logged and the records are kept as-is.
	Strict bool
}

// Load reads and validates a snapshot file.
func Load(path string, opts Options) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	snap, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Parse decodes and validates snapshot YAML or JSON.
func Parse(data []byte, opts Options) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if err := snap.Check(opts); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Check validates every record. See Options.Strict.
func (s *Snapshot) Check(opts Options) error {
	problems := s.Problems()
	if len(problems) == 0 {
		return nil
	}
	if opts.Strict {
		return fmt.Errorf("invalid snapshot (%d problems): %w", len(problems), errors.Join(problems...))
	}
	for _, p := range problems {
		log.Printf("[SNAPSHOT] Warning: %v (record kept)", p)
	}
	return nil
}

// Problems returns one error per invalid record.
func (s *Snapshot) Problems() []error {
	var problems []error
	for i, kw := range s.Keywords {
		if err := kw.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("keywords[%d] %q: %w", i, kw.Keyword, err))
		}
	}
	for i, p := range s.Performances {
		if err := p.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("performances[%d] %q: %w", i, p.Keyword, err))
		}
	}
	return problems
}

// Input converts the snapshot to detector input. Missing assignment maps stay
// nil so that the detector derives them from the performance records.
func (s *Snapshot) Input() cannibalization.Input {
	return cannibalization.Input{
		Keywords:     s.Keywords,
		Performances: s.Performances,
		Assignments:  s.Assignments,
		CampaignSets: s.CampaignSets,
	}
}

// Marshal encodes the snapshot as YAML.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}
