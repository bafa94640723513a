package planlimit

import (
	"context"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlSource loads plan limits from a YAML file on every Load call, so plan
// changes can be picked up by re-initializing the service without a deploy.
type yamlSource struct {
	path string
}

// NewYAMLSource returns a Source backed by a YAML file of the form:
//
//	plans:
//	  starter:
//	    limits:
//	      unit_labels: {value: 1000, type: hard}
//	      box_labels:  {value: 200, type: soft}
func NewYAMLSource(path string) Source {
	return &yamlSource{path: path}
}

type yamlFile struct {
	Plans map[string]PlanLimits `yaml:"plans"`
}

// Load parses the YAML file and returns plan limits keyed by plan ID.
func (s *yamlSource) Load(ctx context.Context) (map[string]PlanLimits, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Join(ErrSourceFileNotFound, err)
		}
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	var file yamlFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Join(ErrSourceFileMalformed, err)
	}

	plans := make(map[string]PlanLimits, len(file.Plans))
	for id, plan := range file.Plans {
		plan.PlanID = id
		plans[id] = plan
	}
	return plans, nil
}
