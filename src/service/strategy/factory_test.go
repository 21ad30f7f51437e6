package strategy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
	"gitlab.com/open-soft/go-smart-trader/src/service/strategy"
)

func TestRuleFactoryResolvesEveryKnownKind(t *testing.T) {
	assertion := assert.New(t)

	factory := strategy.NewRuleFactory(&indicator.Calculator{})

	entryKinds := []model.StrategyKind{
		model.StrategyKindRsiVolumeEntry,
		model.StrategyKindTrendEntry,
		model.StrategyKindPriceActionEntry,
	}

	for _, kind := range entryKinds {
		rule, err := factory.EntryRule(kind)
		assertion.NoError(err)
		assertion.NotNil(rule)
	}

	exitKinds := []model.StrategyKind{
		model.StrategyKindRsiRatchetExit,
		model.StrategyKindAtrTrailExit,
		model.StrategyKindFibTrailExit,
	}

	for _, kind := range exitKinds {
		rule, err := factory.ExitRule(kind)
		assertion.NoError(err)
		assertion.NotNil(rule)
	}
}

func TestRuleFactoryRejectsUnknownKind(t *testing.T) {
	assertion := assert.New(t)

	factory := strategy.NewRuleFactory(&indicator.Calculator{})

	_, entryErr := factory.EntryRule("martingale")
	assertion.Error(entryErr)

	_, exitErr := factory.ExitRule("martingale")
	assertion.Error(exitErr)

	// Kinds never cross their category.
	_, err := factory.EntryRule(model.StrategyKindRsiRatchetExit)
	assertion.Error(err)
}
