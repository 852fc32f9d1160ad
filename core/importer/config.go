package importer

import "portal-migrate/core/identity"

// Config holds the migration section of the application configuration.
type Config struct {
	// Input is the export to import: a local path, or an object name in the
	// storage bucket when prefixed with "s3://".
	Input string `mapstructure:"input" default:"export.json"`
	// Collection names the target of an array-shaped export.
	Collection string `mapstructure:"collection" default:""`
	// BatchSize is the number of operations per atomic commit (max 500).
	BatchSize int `mapstructure:"batch_size" default:"500"`
	// DateFields lists fields whose plain date strings become timestamps.
	DateFields []string `mapstructure:"date_fields" default:"createdAt,updatedAt,dateCreated,dueDate,validUntil,issuedAt,paidAt"`
	// IDFields is the identifier chain for collections without their own.
	IDFields []string `mapstructure:"id_fields" default:"id,referenceNumber,projectId,clientId"`
	// Chains overrides the identifier chain per collection.
	Chains map[string][]string `mapstructure:"chains"`
	// SnapshotPrefix is where purge snapshots are stored in the bucket.
	SnapshotPrefix string `mapstructure:"snapshot_prefix" default:"snapshots"`
}

// IdentifierChains builds the per-collection chains, with IDFields as the
// chain for every other collection.
func (c Config) IdentifierChains() identity.Chains {
	chains := make(identity.Chains, len(c.Chains)+1)
	for collection, fields := range c.Chains {
		chains[collection] = identity.Chain(fields)
	}
	if len(c.IDFields) > 0 {
		chains[identity.Wildcard] = identity.Chain(c.IDFields)
	}
	return chains
}
