// Package region は翻訳結果へ地域適応（地名・通貨・計量単位の置換）を適用する。
package region

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Rules は1地域分の適応ルール。YAMLファイルからも読み込める。
type Rules struct {
	// Places は地名の置換マップ（単語境界・大文字小文字無視）。
	Places map[string]string `yaml:"places"`
	// CurrencyRate は$1あたりの₹換算レート。0の場合は通貨換算を行わない。
	CurrencyRate int `yaml:"currency_rate"`
	// Measurements がtrueの場合、マイル→km、フィート→mの換算を行う。
	Measurements bool `yaml:"measurements"`
}

var (
	dollarPattern = regexp.MustCompile(`\$([0-9]+)`)
	usdPattern    = regexp.MustCompile(`USD\s*([0-9]+)`)
	milesPattern  = regexp.MustCompile(`([0-9]+)\s*miles`)
	feetPattern   = regexp.MustCompile(`([0-9]+)\s*feet`)
)

type compiledRules struct {
	places       []placeRule
	currencyRate int
	measurements bool
}

type placeRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Adapter は地域コードごとの適応ルールを保持する。
type Adapter struct {
	logger *slog.Logger

	mu    sync.RWMutex
	rules map[string]*compiledRules
}

// NewAdapter は組み込みルールを持つAdapterを生成する。
func NewAdapter(logger *slog.Logger) *Adapter {
	a := &Adapter{
		logger: logger,
		rules:  make(map[string]*compiledRules),
	}
	for name, r := range builtinRules() {
		a.rules[name] = compile(r)
	}
	return a
}

func builtinRules() map[string]Rules {
	return map[string]Rules{
		"tamilnadu": {
			Places: map[string]string{
				"Delhi":     "Chennai",
				"Mumbai":    "Chennai",
				"Kolkata":   "Chennai",
				"Bangalore": "Coimbatore",
			},
			CurrencyRate: 80,
			Measurements: true,
		},
		"kerala": {
			Places: map[string]string{
				"Mumbai":  "Kochi",
				"Delhi":   "Thiruvananthapuram",
				"Chennai": "Kochi",
			},
			CurrencyRate: 79,
		},
		"maharashtra": {
			Places: map[string]string{
				"Delhi":     "Mumbai",
				"Chennai":   "Pune",
				"Bangalore": "Pune",
			},
			CurrencyRate: 80,
		},
		"karnataka": {
			Places: map[string]string{
				"Delhi":   "Bangalore",
				"Mumbai":  "Mysore",
				"Chennai": "Mangalore",
			},
			CurrencyRate: 80,
		},
		"west_bengal": {
			Places: map[string]string{
				"Delhi":  "Kolkata",
				"Mumbai": "Kolkata",
			},
			CurrencyRate: 80,
		},
	}
}

func compile(r Rules) *compiledRules {
	c := &compiledRules{
		currencyRate: r.CurrencyRate,
		measurements: r.Measurements,
	}

	names := make([]string, 0, len(r.Places))
	for name := range r.Places {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.places = append(c.places, placeRule{
			pattern:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`),
			replacement: r.Places[name],
		})
	}

	return c
}

// Add は地域の適応ルールを登録する。既存の地域は上書きされる。
func (a *Adapter) Add(name string, r Rules) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rules[strings.ToLower(name)] = compile(r)
}

// LoadDir はディレクトリ内の*.yamlファイルを地域ルールとして読み込む。
// ファイル名（拡張子を除く）が地域コードになる。
func (a *Adapter) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read region rules directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read region rules file %s: %w", path, err)
		}

		var r Rules
		if err := yaml.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("failed to parse region rules file %s: %w", path, err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		a.Add(name, r)
		a.logger.Info("loaded region rules", "region", name, "path", path)
	}

	return nil
}

// Available は登録済みの地域コード一覧をソート順で返す。
func (a *Adapter) Available() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, 0, len(a.rules))
	for name := range a.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Adapt はテキストへ地域適応を適用する。未知の地域の場合は入力をそのまま返す。
func (a *Adapter) Adapt(text, region string) string {
	a.mu.RLock()
	rules, ok := a.rules[strings.ToLower(region)]
	a.mu.RUnlock()
	if !ok {
		return text
	}

	for _, p := range rules.places {
		text = p.pattern.ReplaceAllString(text, p.replacement)
	}

	if rules.currencyRate > 0 {
		text = convertCurrency(text, dollarPattern, rules.currencyRate)
		text = convertCurrency(text, usdPattern, rules.currencyRate)
	}

	if rules.measurements {
		text = convertMeasure(text, milesPattern, 1.6, "kilometers")
		text = convertMeasure(text, feetPattern, 0.3, "meters")
	}

	return text
}

func convertCurrency(text string, pattern *regexp.Regexp, rate int) string {
	return pattern.ReplaceAllStringFunc(text, func(match string) string {
		amount, err := strconv.Atoi(pattern.FindStringSubmatch(match)[1])
		if err != nil {
			return match
		}
		return fmt.Sprintf("₹%d", amount*rate)
	})
}

func convertMeasure(text string, pattern *regexp.Regexp, factor float64, unit string) string {
	return pattern.ReplaceAllStringFunc(text, func(match string) string {
		value, err := strconv.Atoi(pattern.FindStringSubmatch(match)[1])
		if err != nil {
			return match
		}
		converted := strconv.FormatFloat(float64(value)*factor, 'f', -1, 64)
		return converted + " " + unit
	})
}
