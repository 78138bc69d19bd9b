// Package types holds the records and queries shared by the attestation
// registry and its storage backends.
package types

import "time"

// SortOrder defines the ordering of attestation lookups by creation time
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// AttestationRecord represents a verified ownership proof stored in the database.
// It never carries the signature or the signing key.
type AttestationRecord struct {
	Address       string    `json:"address" bson:"address"`
	AddressHash   string    `json:"addressHash" bson:"addressHash"`
	MessageDigest string    `json:"messageDigest" bson:"messageDigest"`
	Network       string    `json:"network" bson:"network"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// AttestationQuery represents a query for attestation records
type AttestationQuery struct {
	Address       *string    `json:"address,omitempty"`
	MessageDigest *string    `json:"messageDigest,omitempty"`
	Limit         *int       `json:"limit,omitempty"`
	Skip          *int       `json:"skip,omitempty"`
	SortOrder     *SortOrder `json:"sortOrder,omitempty"`
}
