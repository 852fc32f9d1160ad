// Package portal holds the collection names, reference prefixes and
// reconciliation rules of the business portal.
package portal

import (
	"strings"

	"portal-migrate/core/reconcile"
)

// Collections of the portal.
const (
	Clients     = "clients"
	Projects    = "projects"
	Quotations  = "quotations"
	ChargeSlips = "chargeSlips"
)

// ReferenceField is the field holding the human readable reference number.
const ReferenceField = "referenceNumber"

// Prefixes maps each collection to the prefix of its reference numbers.
var Prefixes = map[string]string{
	Clients:     "CL",
	Projects:    "PR",
	Quotations:  "QT",
	ChargeSlips: "CS",
}

// PrefixFor returns the reference prefix of collection, matched case-insensitively.
func PrefixFor(collection string) (string, bool) {
	for name, prefix := range Prefixes {
		if strings.EqualFold(name, collection) {
			return prefix, true
		}
	}
	return "", false
}

// Rules returns the built-in reconciliation rules. Configuration may add
// rules or replace these by name.
func Rules() []reconcile.Rule {
	return []reconcile.Rule{
		{
			Name:         "client-project-names",
			Target:       Clients,
			Source:       Projects,
			LinkField:    "clientId",
			DerivedField: "projectNames",
			Projection:   reconcile.Collect("projectName"),
		},
		{
			Name:         "project-quotation-numbers",
			Target:       Projects,
			Source:       Quotations,
			LinkField:    "projectId",
			DerivedField: "quotationNumbers",
			Projection:   reconcile.Collect(ReferenceField),
		},
		{
			Name:         "project-charge-slip-numbers",
			Target:       Projects,
			Source:       ChargeSlips,
			LinkField:    "projectId",
			DerivedField: "chargeSlipNumbers",
			Projection:   reconcile.Collect(ReferenceField),
		},
		{
			Name:         "quotation-charge-slips",
			Target:       Quotations,
			Source:       ChargeSlips,
			LinkField:    "quotationId",
			DerivedField: "chargeSlipIds",
			Projection:   reconcile.Keys(),
		},
	}
}
