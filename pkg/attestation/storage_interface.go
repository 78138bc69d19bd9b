package attestation

import (
	"context"

	"github.com/bsv-blockchain/go-btc-ownership-proof/pkg/types"
)

// StorageInterface defines the storage operations the attestation registry needs
type StorageInterface interface {
	// EnsureIndexes ensures the necessary indexes are created for the collection
	EnsureIndexes(ctx context.Context) error

	// StoreAttestation stores a record, replacing any existing record for the
	// same address and message digest
	StoreAttestation(ctx context.Context, record *types.AttestationRecord) error

	// DeleteAttestation deletes the record for an address and message digest
	DeleteAttestation(ctx context.Context, address, messageDigest string) (bool, error)

	// FindAttestations finds records based on a given query object
	FindAttestations(ctx context.Context, query types.AttestationQuery) ([]*types.AttestationRecord, error)
}
