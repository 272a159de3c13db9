// Package ids は時系列ソート可能な識別子の生成を提供する。
package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New はULID（辞書順ソート可能な識別子）を生成して返す。
// 翻訳記録など時系列で並べたいエンティティのIDに使用する。
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
