package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the keyed document store the rest of the application shares
// with the platform's other services. Documents are JSON values
// addressed by slash-separated paths; subscriptions deliver every
// committed write to a path in commit order.
type Store interface {
	// Get reads the document at path into out. The second return is
	// false when no document exists.
	Get(ctx context.Context, path string, out interface{}) (bool, error)

	// Set replaces the whole document at path.
	Set(ctx context.Context, path string, value interface{}) error

	// Update merges fields into the document at path, last write wins
	// per field. A missing document is created from the fields alone.
	Update(ctx context.Context, path string, fields map[string]interface{}) error

	// Push returns a fresh child key under a collection path. Keys are
	// time-ordered so lexicographic key order is insertion order.
	Push(ctx context.Context, path string) (string, error)

	// Children returns every direct child document of a collection
	// path, keyed by child key.
	Children(ctx context.Context, path string) (map[string]json.RawMessage, error)

	// Subscribe registers fn for every subsequent write to path and
	// returns an unsubscribe func. Multiple independent listeners per
	// path are supported.
	Subscribe(path string, fn func(raw json.RawMessage)) (func(), error)
}

func Join(parts ...string) string {
	return strings.Join(parts, "/")
}

var (
	pushMu     sync.Mutex
	pushLastMs int64
	pushSeq    int64
)

// newPushKey builds a millisecond-timestamp-prefixed key so child keys
// sort in insertion order. A per-millisecond sequence keeps keys
// pushed within the same millisecond ordered too.
func newPushKey() string {
	pushMu.Lock()
	now := time.Now().UTC().UnixMilli()
	if now <= pushLastMs {
		now = pushLastMs
		pushSeq++
	} else {
		pushLastMs = now
		pushSeq = 0
	}
	seq := pushSeq
	pushMu.Unlock()
	return fmt.Sprintf("%013d-%04d-%s", now, seq, uuid.NewString()[:8])
}

func mergeRaw(existing json.RawMessage, fields map[string]interface{}) (json.RawMessage, error) {
	doc := map[string]interface{}{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("docstore: existing document is not an object: %w", err)
		}
	}
	for k, v := range fields {
		doc[k] = v
	}
	return json.Marshal(doc)
}

// childKey returns the direct child key of parent for a full path, or
// "" when path is not a direct child.
func childKey(parent, path string) string {
	prefix := parent + "/"
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
