package futurewindow

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"time"
)

const codeAttempts = 10

// GenerateCode returns a 5-digit finish code (leading zeros preserved, so it
// is a string, never a number). Candidates are checked against codes already
// issued in the store and redrawn on collision, up to codeAttempts tries.
//
// The function never blocks issuance: if the uniqueness lookup fails the
// current draw is used unchecked, and if all attempts collide the fallback is
// derived from the clock — unique enough in practice, but a weak guarantee,
// not a cryptographic one.
func GenerateCode(ctx context.Context, store TranscriptStore) string {
	for i := 0; i < codeAttempts; i++ {
		code := fmt.Sprintf("%05d", rand.IntN(100000))

		if store == nil {
			return code
		}
		used, err := store.HasIssuedCode(ctx, code)
		if err != nil {
			log.Printf("[futurewindow] code uniqueness check failed, using unchecked draw: %v", err)
			return code
		}
		if !used {
			return code
		}
	}

	return fmt.Sprintf("%05d", time.Now().UnixNano()%100000)
}
