package service

import (
	"context"

	"github.com/chainsafe/bridgewatch/pkg/monitor"
)

// ruleChangeService calls onChange after every successful rule mutation.
type ruleChangeService struct {
	Service
	onChange func()
}

// NewRuleChangeNotifier wraps svc so onChange runs after CreateRule, ToggleRule and
// ReplaceExpression succeed. The consumer uses it to drop its cached rule set.
func NewRuleChangeNotifier(svc Service, onChange func()) Service {
	if onChange == nil {
		return svc
	}
	return &ruleChangeService{Service: svc, onChange: onChange}
}

func (s *ruleChangeService) CreateRule(ctx context.Context, req *monitor.CreateRuleRequest) (*monitor.Rule, error) {
	rule, err := s.Service.CreateRule(ctx, req)
	if err == nil {
		s.onChange()
	}
	return rule, err
}

func (s *ruleChangeService) ToggleRule(ctx context.Context, id string) (*monitor.Rule, error) {
	rule, err := s.Service.ToggleRule(ctx, id)
	if err == nil {
		s.onChange()
	}
	return rule, err
}

func (s *ruleChangeService) ReplaceExpression(ctx context.Context, id string, req *monitor.ExpressionRequest) (*monitor.Rule, error) {
	rule, err := s.Service.ReplaceExpression(ctx, id, req)
	if err == nil {
		s.onChange()
	}
	return rule, err
}
