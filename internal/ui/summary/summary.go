// Package summary renders the human-readable report printed after a run.
package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/imamik/dwhprov/internal/config"
	"github.com/imamik/dwhprov/internal/provisioning"
)

// Report is everything shown after apply.
type Report struct {
	Config  *config.ProvisioningConfig
	State   *provisioning.State
	Err     error
	Elapsed time.Duration
}

// Render formats an apply report.
func Render(r Report) string {
	var b strings.Builder

	title := "dwhprov"
	if r.Config != nil {
		title = fmt.Sprintf("dwhprov: %s (%s)", r.Config.Redshift.ClusterIdentifier, r.Config.Redshift.Region)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString(" ")
	if r.Err != nil {
		b.WriteString(failedStyle.Render("Failed"))
	} else {
		b.WriteString(readyStyle.Render("Ready"))
	}
	if r.Elapsed > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" in %s", r.Elapsed.Round(time.Second))))
	}
	b.WriteString("\n")

	state := r.State
	if state == nil {
		state = provisioning.NewState()
	}

	b.WriteString(sectionStyle.Render("  Resources"))
	b.WriteString("\n")
	renderRole(&b, state.Role)
	renderCluster(&b, state.Cluster)
	renderIngress(&b, state.Ingress, len(state.Warnings) > 0)

	if len(state.Warnings) > 0 {
		b.WriteString(sectionStyle.Render("  Warnings"))
		b.WriteString("\n")
		for _, w := range state.Warnings {
			fmt.Fprintf(&b, "    %s %s\n", warningStyle.Render(warnMark), w.String())
		}
	}

	if r.Err != nil {
		b.WriteString(sectionStyle.Render("  Error"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "    %s %v\n", failedStyle.Render(crossMark), r.Err)
		b.WriteString(dimStyle.Render("    The provisioning document was not modified."))
		b.WriteString("\n")
	}

	return b.String()
}

func renderRole(b *strings.Builder, role *provisioning.RoleRecord) {
	if role == nil {
		row(b, dimStyle.Render(pending), "Role", dimStyle.Render("not created"))
		return
	}
	detail := role.ARN
	if role.Existed {
		detail += dimStyle.Render(" (existing)")
	}
	row(b, readyStyle.Render(checkMark), "Role", detail)
}

func renderCluster(b *strings.Builder, c *provisioning.ClusterRecord) {
	switch {
	case c == nil:
		row(b, dimStyle.Render(pending), "Cluster", dimStyle.Render("not created"))
	case c.Status == provisioning.StatusAvailable:
		row(b, readyStyle.Render(checkMark), "Cluster", fmt.Sprintf("%s:%d", c.Endpoint, c.Port))
		row(b, "    ", "VPC", c.VPCID)
	case c.Status == provisioning.StatusFailed:
		row(b, failedStyle.Render(crossMark), "Cluster", failedStyle.Render(c.RawStatus))
	default:
		row(b, warningStyle.Render(warnMark), "Cluster", warningStyle.Render(string(c.Status)))
	}
}

func renderIngress(b *strings.Builder, rule *provisioning.IngressRule, warned bool) {
	switch {
	case rule != nil:
		detail := fmt.Sprintf("%s/%d from %s on %s", rule.Protocol, rule.Port, rule.CIDR, rule.GroupID)
		if rule.Existed {
			detail += dimStyle.Render(" (already open)")
		}
		row(b, readyStyle.Render(checkMark), "Ingress", detail)
	case warned:
		row(b, warningStyle.Render(warnMark), "Ingress", warningStyle.Render("not opened, see warnings"))
	default:
		row(b, dimStyle.Render(pending), "Ingress", dimStyle.Render("not opened"))
	}
}

// Check is one line of a verify report.
type Check struct {
	Name   string
	Detail string
	Err    error
}

// RenderChecks formats the result of verify.
func RenderChecks(title string, checks []Check) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, c := range checks {
		if c.Err != nil {
			row(&b, failedStyle.Render(crossMark), c.Name, failedStyle.Render(c.Err.Error()))
			continue
		}
		row(&b, readyStyle.Render(checkMark), c.Name, c.Detail)
	}
	return b.String()
}

func row(b *strings.Builder, mark, label, detail string) {
	fmt.Fprintf(b, "    %s %s %s\n", mark, labelStyle.Render(label), detail)
}
