package handler

import (
	"github.com/osworks/backend/internal/application/automation"
	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AutomationHandler handles automation rule configuration and
// execution listing
type AutomationHandler struct {
	BaseHandler
	ruleService      *automation.RuleService
	executionService *automation.ExecutionService
	gates            *middleware.Gates
}

// NewAutomationHandler creates a new automation handler
func NewAutomationHandler(
	ruleService *automation.RuleService,
	executionService *automation.ExecutionService,
	gates *middleware.Gates,
) *AutomationHandler {
	return &AutomationHandler{
		ruleService:      ruleService,
		executionService: executionService,
		gates:            gates,
	}
}

// RegisterRoutes registers the automation endpoints. Rule changes
// require the automacoes feature on the tenant's plan.
func (h *AutomationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/automation")
	group.GET("/rules", middleware.RequirePermission("automacao.view|automacao.manage"), h.ListRules)
	group.PUT("/rules",
		middleware.RequirePermission("automacao.manage"),
		h.gates.RequireFeature(billing.FeatureAutomacoes),
		h.UpsertRule)
	group.GET("/executions", middleware.RequirePermission("automacao.view|automacao.manage"), h.ListExecutions)
	group.GET("/executions/:id", middleware.RequirePermission("automacao.view|automacao.manage"), h.GetExecution)
}

// ListRules returns the full rule catalog for the tenant, unsaved
// events included as disabled entries
func (h *AutomationHandler) ListRules(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	rules, err := h.ruleService.List(c.Request.Context(), tid)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rules)
}

// UpsertRule creates or updates the tenant's rule for an event
func (h *AutomationHandler) UpsertRule(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	var req automation.UpsertRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	rule, err := h.ruleService.Upsert(c.Request.Context(), tid, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rule)
}

// ListExecutions returns a page of the tenant's automation executions
func (h *AutomationHandler) ListExecutions(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	page, err := h.executionService.List(c.Request.Context(), tid, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetExecution returns one execution
func (h *AutomationHandler) GetExecution(c *gin.Context) {
	tid, ok := tenantID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	execution, err := h.executionService.Get(c.Request.Context(), tid, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, execution)
}
