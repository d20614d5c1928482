// Package ledger adapts Solana RPC into the scanner's announcement
// stream.
//
// Stealth announcements are memo transactions against a well-known
// registry account: the memo carries the ephemeral public key and, in
// its metadata field, the base58 stealth address. This adapter pages
// through the registry's signature history and hands raw memos to the
// stealth scanner; all parsing and detection stays local.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/jskoiz/zeraprivacy-sub001/stealth"
)

// SolanaLedger fetches announcement pages from a Solana RPC node.
type SolanaLedger struct {
	rpcClient *rpc.Client
	rpcURL    string
}

// NewSolanaLedger creates an announcement source against the given RPC
// endpoint.
func NewSolanaLedger(rpcURL string) *SolanaLedger {
	return &SolanaLedger{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
	}
}

var _ stealth.Ledger = (*SolanaLedger)(nil)

// FetchAnnouncements returns one page of announcements for the registry
// account, newest first. The cursor is the base58 signature to resume
// before; empty starts at the newest transaction. The returned next
// cursor is empty once the history is exhausted.
func (l *SolanaLedger) FetchAnnouncements(ctx context.Context, account string, cursor string, limit int) ([]stealth.Announcement, string, error) {
	registry, err := solana.PublicKeyFromBase58(account)
	if err != nil {
		return nil, "", fmt.Errorf("invalid registry account: %w", err)
	}

	opts := &rpc.GetSignaturesForAddressOpts{
		Limit:      &limit,
		Commitment: rpc.CommitmentConfirmed,
	}
	if cursor != "" {
		before, err := solana.SignatureFromBase58(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", err)
		}
		opts.Before = before
	}

	sigs, err := l.rpcClient.GetSignaturesForAddressWithOpts(ctx, registry, opts)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get signatures: %w", err)
	}

	anns := make([]stealth.Announcement, 0, len(sigs))
	for _, sig := range sigs {
		if sig.Err != nil || sig.Memo == nil {
			continue
		}
		anns = append(anns, stealth.Announcement{
			TxID: sig.Signature.String(),
			Memo: stripMemoPrefix(*sig.Memo),
		})
	}

	next := ""
	if len(sigs) == limit && len(sigs) > 0 {
		next = sigs[len(sigs)-1].Signature.String()
	}
	return anns, next, nil
}

// stripMemoPrefix removes the "[len] " length prefix some RPC nodes
// prepend to memo strings in signature listings.
func stripMemoPrefix(memo string) string {
	if strings.HasPrefix(memo, "[") {
		if idx := strings.Index(memo, "] "); idx != -1 {
			return memo[idx+2:]
		}
	}
	return memo
}
