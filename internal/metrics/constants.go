package metrics

// Metric names
const (
	MetricNameRollsTotal            = "sheet_rolls_total"
	MetricNameCriticalRollsTotal    = "sheet_critical_rolls_total"
	MetricNameLevelTransitionsTotal = "sheet_level_transitions_total"
	MetricNameResourceSpendsTotal   = "sheet_resource_spends_total"
	MetricNameRestsTotal            = "sheet_rests_total"
	MetricNameMigrationsApplied     = "sheet_migrations_applied_total"
	MetricNameRecordsPatched        = "sheet_records_patched_total"
)

// Help text
const (
	HelpTextRollsTotal            = "Dice rolls produced, by roll kind"
	HelpTextCriticalRollsTotal    = "Natural 20s and natural 1s, by result"
	HelpTextLevelTransitionsTotal = "Level up and level down requests, by direction and outcome"
	HelpTextResourceSpendsTotal   = "Resource spend requests, by outcome"
	HelpTextRestsTotal            = "Rests taken, by rest type"
	HelpTextMigrationsApplied     = "Schema migration steps applied, by target version"
	HelpTextRecordsPatched        = "Records patched with defaults at load time"
)

// Labels
const (
	LabelKind      = "kind"
	LabelResult    = "result"
	LabelDirection = "direction"
	LabelOutcome   = "outcome"
	LabelRest      = "rest"
	LabelVersion   = "version"
)

// Label values
const (
	DirectionUp   = "up"
	DirectionDown = "down"

	OutcomeApplied  = "applied"
	OutcomeDeclined = "declined"
)
