package bdd

import (
	"testing"

	"github.com/alesfranek-maf/uwapi/test/bdd/steps"
	"github.com/cucumber/godog"
)

func TestPlanExecution(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			steps.InitializeCatalogSteps(sc)
			steps.InitializePlanExecutionScenario(sc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/application/plan_execution.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run plan execution feature tests")
	}
}
