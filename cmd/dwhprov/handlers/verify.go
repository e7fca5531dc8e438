package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/imamik/dwhprov/internal/config"
	awsplatform "github.com/imamik/dwhprov/internal/platform/aws"
	"github.com/imamik/dwhprov/internal/platform/warehouse"
	"github.com/imamik/dwhprov/internal/provisioning/access"
	"github.com/imamik/dwhprov/internal/ui/summary"
)

// VerifyOptions holds the verify command flags.
type VerifyOptions struct {
	ConfigPath string
}

// Pinger interface for testing - matches warehouse.Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IngressChecker interface for testing - matches access.Manager.
type IngressChecker interface {
	IngressOpen(ctx context.Context, vpcID string, port int32, cidr string) (bool, error)
}

// errVerifyFailed is returned when any check fails; details are in the report.
var errVerifyFailed = errors.New("verification failed")

var (
	// newClients creates AWS clients for the document's region.
	newClients = awsplatform.NewClients

	// newIngressChecker wraps the EC2 client.
	newIngressChecker = func(clients *awsplatform.Clients) IngressChecker {
		return access.NewManager(clients.EC2)
	}

	// newPinger connects to the warehouse endpoint.
	newPinger = func(cfg *config.RedshiftConfig) Pinger {
		return warehouse.New(cfg)
	}
)

// Verify checks that a provisioned cluster admits the source CIDR and
// answers on the database port.
func Verify(ctx context.Context, opts VerifyOptions) error {
	inputs := config.InputsFromEnv(lookupEnv)
	if err := inputs.Validate(); err != nil {
		return err
	}

	cfg, err := config.NewFileStore(opts.ConfigPath).Load()
	if err != nil {
		return err
	}
	if err := cfg.ResolveSecrets(inputs); err != nil {
		return err
	}
	if cfg.Redshift.Endpoint == "" || cfg.Redshift.VPCID == "" {
		return warehouse.ErrNoEndpoint
	}

	port, err := strconv.ParseInt(cfg.Redshift.DBPort, 10, 32)
	if err != nil {
		return fmt.Errorf("%w: db_port %q", config.ErrConfigInvalid, cfg.Redshift.DBPort)
	}

	clients, err := newClients(ctx, cfg.Redshift.Region, inputs.AccessKey, inputs.SecretKey)
	if err != nil {
		return err
	}

	cidr := access.SourceCIDR(inputs.SourceCIDR)
	ingress := summary.Check{Name: "Ingress"}
	open, err := newIngressChecker(clients).IngressOpen(ctx, cfg.Redshift.VPCID, int32(port), cidr)
	switch {
	case err != nil:
		ingress.Err = err
	case !open:
		ingress.Err = fmt.Errorf("tcp/%d is not open for %s", port, cidr)
	default:
		ingress.Detail = fmt.Sprintf("tcp/%d open for %s", port, cidr)
	}

	database := summary.Check{Name: "Database"}
	if err := newPinger(&cfg.Redshift).Ping(ctx); err != nil {
		database.Err = err
	} else {
		database.Detail = fmt.Sprintf("%s:%d/%s", cfg.Redshift.Endpoint, port, cfg.Redshift.DBName)
	}

	fmt.Fprint(stdout, summary.RenderChecks("dwhprov verify: "+cfg.Redshift.ClusterIdentifier, []summary.Check{ingress, database}))

	if ingress.Err != nil || database.Err != nil {
		return errVerifyFailed
	}
	return nil
}
