package model

// Severity indicates how an insight should be presented.
type Severity string

// Insight severity constants.
const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Insight is a single severity-tagged, human-readable observation derived
// from transaction statistics for one analysis focus. A generation call
// returns at most five insights with pairwise-distinct type tags.
type Insight struct {
	Type     string
	Message  string
	Severity Severity
}

// Focus names an analysis focus accepted by the insight generator.
type Focus string

// Analysis focus constants.
const (
	FocusOverview         Focus = "Overview"
	FocusSpendingPatterns Focus = "Spending Patterns"
	FocusTrendAnalysis    Focus = "Trend Analysis"
	FocusMerchantAnalysis Focus = "Merchant Analysis"
	FocusPredictive       Focus = "Predictive Analytics"
)
