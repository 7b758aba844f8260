package cli

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tradepatch/internal/config"
	"github.com/roach88/tradepatch/internal/engine"
	"github.com/roach88/tradepatch/internal/field"
	"github.com/roach88/tradepatch/internal/trade"
)

// loadRules loads a rule file against the built-in field registry.
func loadRules(path string) (*engine.Snapshot, *engine.Report, error) {
	return engine.Load(field.Default(), path)
}

// loadErrorCode returns the config error code carried by err, if any.
func loadErrorCode(err error) string {
	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}

// Fixture is an agent and its current offers, used by simulate.
//
//	agent:
//	  id: librarian-1
//	  profession: librarian
//	  level: 2
//	offers:
//	  - ingredients: [{material: paper, amount: 24}]
//	    result: {material: emerald, amount: 1}
//	    max_uses: 16
type Fixture struct {
	Agent  trade.Agent   `yaml:"agent" json:"agent"`
	Offers []trade.Offer `yaml:"offers" json:"offers"`
}

// LoadFixture reads an offers fixture. Unknown keys are rejected.
func LoadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var fixture Fixture
	if err := dec.Decode(&fixture); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	if fixture.Agent.ID == "" {
		return nil, fmt.Errorf("fixture %s: agent.id is required", path)
	}
	return &fixture, nil
}
