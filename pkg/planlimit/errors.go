package planlimit

import "errors"

// Domain errors for plan-limit operations
var (
	ErrPlanNotFound             = errors.New("planlimit.errors.plan_not_found")
	ErrInvalidMetric            = errors.New("planlimit.errors.invalid_metric")
	ErrInvalidPlanConfiguration = errors.New("planlimit.errors.invalid_plan_configuration")
	ErrNoCounterRegistered      = errors.New("planlimit.errors.no_counter_registered")

	ErrFailedToLoadPlans   = errors.New("planlimit.errors.failed_to_load_plans")
	ErrFailedToCountUsage  = errors.New("planlimit.errors.failed_to_count_usage")
	ErrInvalidQuantity     = errors.New("planlimit.errors.invalid_quantity")
	ErrSourceFileNotFound  = errors.New("planlimit.errors.source_file_not_found")
	ErrSourceFileMalformed = errors.New("planlimit.errors.source_file_malformed")
)
