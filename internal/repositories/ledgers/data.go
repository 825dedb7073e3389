package ledgers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/KirkDiggler/ability-engine/internal/domain/actor"
	"github.com/KirkDiggler/ability-engine/internal/domain/ledger"
	dnderr "github.com/KirkDiggler/ability-engine/internal/errors"
)

// Data is the serialized form of a ledger entry. Instants are unix milliseconds
// so an encode/decode round trip is exact.
type Data struct {
	OwnerID           string `json:"owner_id"`
	OwnerType         string `json:"owner_type"`
	AbilityID         string `json:"ability_id"`
	CooldownExpiresAt *int64 `json:"cooldown_expires_at,omitempty"`
	RemainingCharges  *int   `json:"remaining_charges,omitempty"`
	LastUsedAt        int64  `json:"last_used_at"`
	TimesUsed         int    `json:"times_used"`
	Revision          int64  `json:"revision"`
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func toData(entry *ledger.Entry) *Data {
	data := &Data{
		OwnerID:   entry.Key.OwnerID,
		OwnerType: string(entry.Key.OwnerType),
		AbilityID: entry.Key.AbilityID,
		TimesUsed: entry.TimesUsed,
		Revision:  entry.Revision,
	}
	if !entry.LastUsedAt.IsZero() {
		data.LastUsedAt = toMillis(entry.LastUsedAt)
	}
	if entry.CooldownExpiresAt != nil {
		ms := toMillis(*entry.CooldownExpiresAt)
		data.CooldownExpiresAt = &ms
	}
	if entry.RemainingCharges != nil {
		n := *entry.RemainingCharges
		data.RemainingCharges = &n
	}
	return data
}

func fromData(data *Data) *ledger.Entry {
	entry := &ledger.Entry{
		Key: ledger.Key{
			OwnerID:   data.OwnerID,
			OwnerType: actor.OwnerType(data.OwnerType),
			AbilityID: data.AbilityID,
		},
		TimesUsed: data.TimesUsed,
		Revision:  data.Revision,
	}
	if data.LastUsedAt != 0 {
		entry.LastUsedAt = fromMillis(data.LastUsedAt)
	}
	if data.CooldownExpiresAt != nil {
		at := fromMillis(*data.CooldownExpiresAt)
		entry.CooldownExpiresAt = &at
	}
	if data.RemainingCharges != nil {
		n := *data.RemainingCharges
		entry.RemainingCharges = &n
	}
	return entry
}

// Encode serializes an entry to its persisted JSON form
func Encode(entry *ledger.Entry) ([]byte, error) {
	if entry == nil {
		return nil, dnderr.InvalidArgument("ledger entry cannot be nil")
	}
	b, err := json.Marshal(toData(entry))
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeDecode, "failed to marshal ledger entry")
	}
	return b, nil
}

// Decode parses the persisted JSON form of an entry
func Decode(b []byte) (*ledger.Entry, error) {
	var data Data
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeDecode, "failed to unmarshal ledger entry")
	}
	return fromData(&data), nil
}

func validateKey(key ledger.Key) error {
	if key.OwnerID == "" {
		return dnderr.InvalidArgument("owner ID is required")
	}
	if key.OwnerType == "" {
		return dnderr.InvalidArgument("owner type is required")
	}
	// Redis keys join the owner parts with ':'
	if strings.Contains(key.OwnerID, ":") || strings.Contains(string(key.OwnerType), ":") {
		return dnderr.InvalidArgumentf("owner %s cannot contain ':'", key.Owner())
	}
	if key.AbilityID == "" {
		return dnderr.InvalidArgument("ability ID is required")
	}
	return nil
}

func conflict(key ledger.Key, expected, stored int64) error {
	return dnderr.Conflictf("ledger entry %s is at revision %d, not %d", key, stored, expected).
		WithMeta("key", key.String())
}
