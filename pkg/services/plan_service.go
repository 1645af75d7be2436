package services

import (
	"strings"

	"go.uber.org/zap"

	"github.com/controltower/decision-engine/pkg/models"
)

// PlanService classifies a free-text question into an intent and lays out
// the role-by-role workflow steps to answer it. Classification is keyword
// based; the first matching rule wins. The keyword table covers English
// and Chinese, so lang only annotates the request.
type PlanService interface {
	BuildPlan(question, lang string) *models.Plan
}

type planService struct {
	logger *zap.Logger
}

func NewPlanService(logger *zap.Logger) PlanService {
	return &planService{logger: logger.Named("plan-service")}
}

var _ PlanService = (*planService)(nil)

// intentRule pairs an intent with its trigger keywords. Rules are ordered;
// earlier intents win when a question matches several.
type intentRule struct {
	intent   models.Intent
	keywords []string
}

var intentRules = []intentRule{
	{models.IntentRFQ, []string{
		"rfq", "候选", "寻源", "评分", "排序", "供应商评分",
		"candidate", "sourcing", "scorecard", "ranking",
	}},
	{models.IntentSingleSource, []string{
		"单一来源", "single source", "single-source", "sole source",
		"瓶颈件", "关键件",
	}},
	{models.IntentConsolidatePO, []string{
		"moq", "合并采购", "合并下单", "分摊", "分配方案",
		"consolidat", "allocation",
	}},
	{models.IntentCreatePO, []string{
		"create po", "new purchase order", "order from", "buy from",
		"采购", "下单", "新建采购单", "create purchase",
	}},
	{models.IntentExpediteShipment, []string{
		"expedite", "speed up", "air freight", "change mode",
		"加急", "空运", "改运输", "加速发货",
	}},
	{models.IntentSwitchSupplier, []string{
		"switch supplier", "change supplier", "换供应商", "切换供应商",
	}},
	{models.IntentAnalyzeRisk, []string{
		"risk", "analyze", "what happened", "root cause",
		"风险", "分析", "根因",
	}},
}

func classifyIntent(question string) models.Intent {
	q := strings.ToLower(question)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.intent
			}
		}
	}
	return models.IntentUnknown
}

func (s *planService) BuildPlan(question, lang string) *models.Plan {
	if lang == "" {
		lang = "en"
	}
	intent := classifyIntent(question)

	var steps []models.PlanStep
	add := func(role, action, description string) {
		steps = append(steps, models.PlanStep{
			Step:        len(steps) + 1,
			Role:        role,
			Action:      action,
			Description: description,
		})
	}

	switch intent {
	case models.IntentRFQ:
		add("sourcing", "rfq-candidates", "Score and rank supplier candidates for RFQ")
		add("action", "execute", "Optionally create PO from top recommendation")
	case models.IntentSingleSource:
		add("sourcing", "single-source-parts", "Identify single-source critical parts with risk")
	case models.IntentConsolidatePO:
		add("sourcing", "consolidate-po", "Consolidate demand to meet MOQ with allocation plan")
	case models.IntentCreatePO, models.IntentExpediteShipment:
		add("analyst", "analyze", "Gather order/risk/inventory context")
		if intent == models.IntentCreatePO {
			add("simulator", "simulate", "Run what-if simulation for supplier switch")
		}
		add("action", "execute", "Execute "+string(intent)+" with qualification check")
		add("audit", "verify", "Verify audit trail recorded")
	case models.IntentSwitchSupplier:
		add("analyst", "analyze", "Gather current supplier context")
		add("simulator", "simulate", "Run switch-supplier simulation")
		add("action", "execute", "Execute CREATE_PO for new supplier")
		add("audit", "verify", "Verify audit trail recorded")
	case models.IntentAnalyzeRisk:
		add("analyst", "analyze", "Gather risk and inventory context")
		add("simulator", "simulate", "Simulate mitigation options")
	default:
		add("analyst", "analyze", "Gather general context for the question")
	}

	s.logger.Debug("Built plan",
		zap.String("intent", string(intent)),
		zap.String("lang", lang),
		zap.Int("steps", len(steps)))

	return &models.Plan{Intent: intent, Steps: steps}
}
