package strategy

import (
	"errors"
	"fmt"

	"gitlab.com/open-soft/go-smart-trader/src/model"
	"gitlab.com/open-soft/go-smart-trader/src/service/indicator"
)

type RuleFactoryInterface interface {
	EntryRule(kind model.StrategyKind) (EntryRuleInterface, error)
	ExitRule(kind model.StrategyKind) (ExitRuleInterface, error)
}

// RuleFactory resolves a strategy kind to its rule implementation. The kind
// set is closed: an unknown kind is a configuration error surfaced here,
// never inside the evaluation hot path.
type RuleFactory struct {
	entryRules map[model.StrategyKind]EntryRuleInterface
	exitRules  map[model.StrategyKind]ExitRuleInterface
}

func NewRuleFactory(calculator *indicator.Calculator) *RuleFactory {
	return &RuleFactory{
		entryRules: map[model.StrategyKind]EntryRuleInterface{
			model.StrategyKindRsiVolumeEntry:   &RsiVolumeEntry{Calculator: calculator},
			model.StrategyKindTrendEntry:       &TrendEntry{Calculator: calculator},
			model.StrategyKindPriceActionEntry: &PriceActionEntry{Calculator: calculator},
		},
		exitRules: map[model.StrategyKind]ExitRuleInterface{
			model.StrategyKindRsiRatchetExit: &RsiRatchetExit{Calculator: calculator},
			model.StrategyKindAtrTrailExit:   &AtrTrailExit{Calculator: calculator},
			model.StrategyKindFibTrailExit:   &FibTrailExit{},
		},
	}
}

func (f *RuleFactory) EntryRule(kind model.StrategyKind) (EntryRuleInterface, error) {
	rule, ok := f.entryRules[kind]

	if !ok {
		return nil, errors.New(fmt.Sprintf("Entry strategy kind '%s' is not supported", kind))
	}

	return rule, nil
}

func (f *RuleFactory) ExitRule(kind model.StrategyKind) (ExitRuleInterface, error) {
	rule, ok := f.exitRules[kind]

	if !ok {
		return nil, errors.New(fmt.Sprintf("Exit strategy kind '%s' is not supported", kind))
	}

	return rule, nil
}
