package capsule

import (
	"crypto/sha256"
	"encoding/hex"
)

// entryIDLength is the number of hex characters kept from the digest.
const entryIDLength = 12

// DeriveEntryID computes the merge key for a session entry from the entity id
// and the source document's canonical name. When no canonical name exists the
// store-assigned record id substitutes for it.
//
// This function is pinned: entries already present in capsules were keyed by
// it, and changing the derivation would silently break merge idempotence
// (old entries would never match re-ingested ones). Do not alter the digest,
// the separator, or the truncation length.
func DeriveEntryID(entityID, canonicalName string) string {
	sum := sha256.Sum256([]byte(entityID + ":" + canonicalName))
	return hex.EncodeToString(sum[:])[:entryIDLength]
}

// BackfillEntryID fills a missing EntryID on a legacy entry, deterministically,
// from whatever identity the entry already carries: nothing usable means the
// source record id keys it, exactly as DeriveEntryID would have at ingest.
func BackfillEntryID(entityID string, e *SessionEntry) {
	if e.EntryID != "" {
		return
	}
	e.EntryID = DeriveEntryID(entityID, e.SourceRecordID)
}
