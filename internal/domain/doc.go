// Package domain contains the core models, repository contracts, and
// sentinel errors shared by all layers. It has no dependencies on adapters.
package domain
