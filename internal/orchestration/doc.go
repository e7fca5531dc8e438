// Package orchestration provides high-level workflow coordination for warehouse provisioning.
//
// This package orchestrates the provisioning workflow by delegating to specialized
// provisioners in the internal/provisioning subpackages. It defines the execution order
// and coordinates state flow between provisioning phases.
//
// # Workflow
//
// The Orchestrator executes the following steps in order:
//  1. Inputs - Required environment values are checked before anything else
//  2. Load - The provisioning document is read and validated
//  3. Validation - Pre-flight checks that need no remote calls
//  4. Identity - Service role creation and policy attachment
//  5. Cluster - Cluster creation request
//  6. Availability - Wait for the cluster to become available
//  7. Network - Open the database port for the source CIDR (warning on failure)
//  8. Save - The document is rewritten with derived fields
//
// Any fatal error stops the run before Save, so the document on disk is
// only ever replaced after a fully successful run.
//
// # Usage
//
//	orch := orchestration.New(config.NewFileStore("dwh.yaml"),
//	    orchestration.WithObserver(observer))
//	state, err := orch.Run(ctx, config.InputsFromEnv(os.LookupEnv))
package orchestration
