package stealth

import (
	"strings"

	"github.com/gtank/ristretto255"
	"github.com/mr-tron/base58"

	"github.com/jskoiz/zeraprivacy-sub001/curve"
	"github.com/jskoiz/zeraprivacy-sub001/privacyerr"
)

// MemoPrefix tags stealth announcement memos on the ledger.
const MemoPrefix = "STEALTH"

const memoSeparator = ":"

// MemoPayload is a parsed stealth announcement memo.
type MemoPayload struct {
	EphemeralPub *ristretto255.Element
	// Metadata is the optional third memo field, empty when absent. By
	// convention senders put the base58 stealth address here so scanners
	// need only the memo stream.
	Metadata string
}

// CreateMemo builds the announcement memo
// STEALTH:<base58-ephemeral-public-key>[:<metadata>].
func CreateMemo(ephemeralPub *ristretto255.Element, metadata string) string {
	parts := []string{MemoPrefix, base58.Encode(curve.EncodePoint(ephemeralPub))}
	if metadata != "" {
		parts = append(parts, metadata)
	}
	return strings.Join(parts, memoSeparator)
}

// ParseMemo parses an announcement memo. Anything that is not a valid
// 2- or 3-field stealth memo parses to nil; the parser never panics and
// never returns partial data. Raw ledger memos are fed here by the
// scanning layer, so garbage input is the common case, not the error
// case.
func ParseMemo(memo string) *MemoPayload {
	parts := strings.Split(memo, memoSeparator)
	if len(parts) != 2 && len(parts) != 3 {
		return nil
	}
	if parts[0] != MemoPrefix || parts[1] == "" {
		return nil
	}

	raw, err := base58.Decode(parts[1])
	if err != nil {
		return nil
	}
	pub, err := curve.ParsePoint(raw)
	if err != nil {
		return nil
	}

	payload := &MemoPayload{EphemeralPub: pub}
	if len(parts) == 3 {
		if parts[2] == "" {
			return nil
		}
		payload.Metadata = parts[2]
	}
	return payload
}

// Encode encodes the shareable meta-address halves as
// base58(viewPub || spendPub) for out-of-band exchange.
func (p *MetaAddressPublic) Encode() string {
	raw := make([]byte, 0, 2*curve.PointSize)
	raw = append(raw, curve.EncodePoint(p.ViewPub)...)
	raw = append(raw, curve.EncodePoint(p.SpendPub)...)
	return base58.Encode(raw)
}

// ParseMetaAddressPublic decodes a base58 meta-address produced by
// Encode.
func ParseMetaAddressPublic(s string) (*MetaAddressPublic, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindStealthAddress, "stealth.ParseMetaAddressPublic", "invalid base58", err)
	}
	if len(raw) != 2*curve.PointSize {
		return nil, privacyerr.New(privacyerr.KindStealthAddress, "stealth.ParseMetaAddressPublic", "wrong meta-address length")
	}

	viewPub, err := curve.ParsePoint(raw[:curve.PointSize])
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindStealthAddress, "stealth.ParseMetaAddressPublic", "malformed view key", err)
	}
	spendPub, err := curve.ParsePoint(raw[curve.PointSize:])
	if err != nil {
		return nil, privacyerr.Wrap(privacyerr.KindStealthAddress, "stealth.ParseMetaAddressPublic", "malformed spend key", err)
	}

	return &MetaAddressPublic{ViewPub: viewPub, SpendPub: spendPub}, nil
}
