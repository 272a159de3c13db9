// Package glossary はドメイン別の用語集（JSON）を読み込み、テキストへ適用する。
package glossary

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Loader はdata/glossaries/<domain>.json形式の用語集をTTL付きでキャッシュする。
type Loader struct {
	dir    string
	ttl    time.Duration
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]*cachedGlossary
}

type cachedGlossary struct {
	terms    map[string]string
	cachedAt time.Time
	modTime  time.Time
}

// NewLoader はLoaderを生成する。ttlが0の場合は5分を使用する。
func NewLoader(dir string, ttl time.Duration, logger *slog.Logger) *Loader {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Loader{
		dir:    dir,
		ttl:    ttl,
		logger: logger,
		cache:  make(map[string]*cachedGlossary),
	}
}

// Load は指定ドメインの用語集を返す。ファイルが存在しない場合は空のmapを返す。
// TTL内はキャッシュを返し、TTL経過後はファイルのmtimeを確認して
// 変更がなければ再パースせずキャッシュを延長する。
func (l *Loader) Load(domain string) map[string]string {
	l.mu.RLock()
	cached, ok := l.cache[domain]
	l.mu.RUnlock()
	if ok && time.Since(cached.cachedAt) < l.ttl {
		return cached.terms
	}

	path := l.path(domain)

	if ok {
		if info, err := os.Stat(path); err == nil && info.ModTime().Equal(cached.modTime) {
			l.mu.Lock()
			cached.cachedAt = time.Now()
			l.mu.Unlock()
			return cached.terms
		}
	}

	terms, modTime, err := l.loadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("glossary not found", "domain", domain)
		} else {
			l.logger.Error("failed to load glossary", "domain", domain, "error", err)
		}
		return map[string]string{}
	}

	l.mu.Lock()
	l.cache[domain] = &cachedGlossary{terms: terms, cachedAt: time.Now(), modTime: modTime}
	l.mu.Unlock()

	return terms
}

// path はドメイン名から用語集ファイルのパスを組み立てる。
// ドメイン名にパス区切りを含めさせない。
func (l *Loader) path(domain string) string {
	return filepath.Join(l.dir, filepath.Base(domain)+".json")
}

func (l *Loader) loadFile(path string) (map[string]string, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}

	terms := make(map[string]string)
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse glossary %s: %w", path, err)
	}

	return terms, info.ModTime(), nil
}

// Apply は用語集の置換をテキストへ適用する。
// 長い用語から順に置換し、部分一致による誤置換を防ぐ。
func Apply(text string, terms map[string]string) string {
	if len(terms) == 0 {
		return text
	}

	keys := make([]string, 0, len(terms))
	for k := range terms {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, term := range keys {
		text = strings.ReplaceAll(text, term, terms[term])
	}
	return text
}
