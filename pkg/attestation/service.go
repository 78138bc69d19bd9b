// Package attestation keeps an off-chain registry of ownership proofs that
// have passed verification. Verification itself never consults the registry;
// the registry only records which (address, message) pairs were proven and
// when, without retaining signatures or public keys.
package attestation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/bsv-blockchain/go-btc-ownership-proof/pkg/types"
	"github.com/bsv-blockchain/go-btc-ownership-proof/pkg/utils"
	"github.com/bsv-blockchain/go-btc-ownership-proof/pkg/verifier"
)

// Static error variables for err113 compliance
var (
	errQueryLimitInvalid     = errors.New("query.limit must be a positive number if provided")
	errQuerySkipInvalid      = errors.New("query.skip must be a non-negative number if provided")
	errQuerySortOrderInvalid = errors.New("query.sortOrder must be 'asc' or 'desc' if provided")
	errQueryDigestInvalid    = errors.New("query.messageDigest must be 64 hex characters if provided")

	// ErrNotFound is returned by Revoke when no matching attestation exists.
	ErrNotFound = errors.New("attestation not found")
)

// Verifier is the verification capability the registry depends on.
type Verifier interface {
	Verify(req verifier.SignatureRequest) error
	Params() *chaincfg.Params
}

// Service verifies ownership proofs and records the successful ones.
type Service struct {
	verifier Verifier
	storage  StorageInterface
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger used for attestation outcomes.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an attestation service. A nil verifier selects the
// mainnet verifier.
func NewService(v Verifier, storage StorageInterface, opts ...ServiceOption) *Service {
	if v == nil {
		v = verifier.New()
	}
	s := &Service{
		verifier: v,
		storage:  storage,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attest verifies req and, only when it verifies, stores an attestation
// record for it. Verification failures are returned unchanged so callers can
// match them with errors.Is against the verifier's sentinel errors.
//
// Parameters:
//   - ctx: Context for the storage operation
//   - req: The ownership proof to verify
//
// Returns:
//   - *types.AttestationRecord: The stored record
//   - error: A *verifier.VerificationError or a storage error
func (s *Service) Attest(ctx context.Context, req verifier.SignatureRequest) (*types.AttestationRecord, error) {
	if err := s.verifier.Verify(req); err != nil {
		kind, _ := verifier.KindOf(err)
		s.logger.Info("Attestation rejected", "kind", kind.String(), "code", kind.Code())
		return nil, err
	}

	params := s.verifier.Params()
	hash, err := verifier.DecodeAddress(req.ClaimedAddress(), params)
	if err != nil {
		return nil, err
	}
	digest := verifier.MessageDigest(req.Message())

	record := &types.AttestationRecord{
		Address:       req.ClaimedAddress(),
		AddressHash:   utils.BytesToHex(hash[:]),
		MessageDigest: utils.BytesToHex(digest[:]),
		Network:       params.Name,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.storage.StoreAttestation(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Attestation stored", "address", record.Address, "network", record.Network)
	return record, nil
}

// Lookup returns attestations matching query after validating its fields.
// A digest filter may be given in either case.
func (s *Service) Lookup(ctx context.Context, query types.AttestationQuery) ([]*types.AttestationRecord, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}
	if query.MessageDigest != nil {
		digest := strings.ToLower(*query.MessageDigest)
		query.MessageDigest = &digest
	}
	return s.storage.FindAttestations(ctx, query)
}

// Revoke removes the attestation for address and the hex message digest.
// It returns ErrNotFound when nothing was removed.
//
// Revoke performs no authorization: it is an administrative operation, and
// callers exposing it to untrusted parties must authenticate the requester
// first (for example by requiring a fresh proof through Attest).
func (s *Service) Revoke(ctx context.Context, address, messageDigest string) error {
	if !isDigestHex(messageDigest) {
		return errQueryDigestInvalid
	}
	deleted, err := s.storage.DeleteAttestation(ctx, address, strings.ToLower(messageDigest))
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrNotFound, address)
	}
	return nil
}

// DigestHex renders the message digest of message the way attestation
// records store it.
func DigestHex(message []byte) string {
	digest := verifier.MessageDigest(message)
	return utils.BytesToHex(digest[:])
}

func validateQuery(query types.AttestationQuery) error {
	if query.Limit != nil && *query.Limit <= 0 {
		return errQueryLimitInvalid
	}
	if query.Skip != nil && *query.Skip < 0 {
		return errQuerySkipInvalid
	}
	if query.SortOrder != nil && *query.SortOrder != types.SortOrderAsc && *query.SortOrder != types.SortOrderDesc {
		return errQuerySortOrderInvalid
	}
	if query.MessageDigest != nil && !isDigestHex(*query.MessageDigest) {
		return errQueryDigestInvalid
	}
	return nil
}

func isDigestHex(s string) bool {
	if len(s) != 2*verifier.DigestSize {
		return false
	}
	b, err := utils.HexToBytes(s)
	return err == nil && len(b) == verifier.DigestSize
}
