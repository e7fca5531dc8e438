package provisioning

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/imamik/dwhprov/internal/config"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
// It makes no remote calls.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	var errs []string
	for _, ve := range validate(ctx) {
		if ve.IsError() {
			errs = append(errs, ve.Error())
			continue
		}
		ctx.Observer.Event(Event{
			Type:    EventValidationWarning,
			Phase:   vp.Name(),
			Message: ve.Message,
			Fields:  map[string]string{"field": ve.Field},
		})
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", config.ErrConfigInvalid, strings.Join(errs, "\n  "))
	}
	return nil
}

// validate runs all validation checks and returns any errors or warnings.
func validate(ctx *Context) []ValidationError {
	var errs []ValidationError

	port, err := strconv.Atoi(ctx.Config.Redshift.DBPort)
	if err != nil || port < 1150 || port > 65535 {
		errs = append(errs, ValidationError{
			Field:    "redshift.db_port",
			Message:  fmt.Sprintf("port %q must be a number between 1150 and 65535", ctx.Config.Redshift.DBPort),
			Severity: "error",
		})
	}

	if prefix, err := config.ParseSourceCIDR(ctx.Inputs.SourceCIDR); err == nil && config.IsWorldOpen(prefix) {
		errs = append(errs, ValidationError{
			Field:    config.EnvSourceCIDR,
			Message:  "source CIDR admits every address; the database port will be reachable from the internet",
			Severity: "warning",
		})
	}

	if ctx.Timeouts != nil && ctx.Timeouts.MaxPolls == 0 {
		errs = append(errs, ValidationError{
			Field:    "wait.max_polls",
			Message:  fmt.Sprintf("no poll limit set; waiting is bounded only by max_wait (%v)", ctx.Timeouts.MaxWait),
			Severity: "warning",
		})
	}

	return errs
}
