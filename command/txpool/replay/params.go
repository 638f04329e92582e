package replay

import (
	"errors"
)

const (
	scenarioFlag = "scenario"
	metricsFlag  = "metrics"
)

var (
	params = &replayParams{}
)

var (
	errScenarioRequired = errors.New("scenario file is required")
)

type replayParams struct {
	scenarioPath string
	metrics      bool

	scenario *Scenario
}

func (rp *replayParams) getRequiredFlags() []string {
	return []string{
		scenarioFlag,
	}
}

func (rp *replayParams) init() error {
	if rp.scenarioPath == "" {
		return errScenarioRequired
	}

	scenario, err := ReadScenarioFile(rp.scenarioPath)
	if err != nil {
		return err
	}

	rp.scenario = scenario

	return nil
}
