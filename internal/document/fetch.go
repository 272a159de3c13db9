package document

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/doyensec/safeurl"

	"github.com/IND-Anshuman/BHASHASETU/internal/model"
)

// blockedNetworks はリモート取得時にブロックされるネットワーク範囲。
// safeurlはDNS解決後のIPもDialerレベルで検証するため、
// ここでの照合はリクエスト送信前の静的チェックとして機能する。
var blockedNetworks []net.IPNet

func init() {
	cidrs := []string{
		"10.0.0.0/8",     // プライベート (RFC 1918)
		"172.16.0.0/12",  //
		"192.168.0.0/16", //
		"127.0.0.0/8",    // ループバック
		"169.254.0.0/16", // リンクローカル（クラウドメタデータIP含む）
		"0.0.0.0/8",      // カレントネットワーク
		"::1/128",        // IPv6ループバック
		"fe80::/10",      // IPv6リンクローカル
		"fc00::/7",       // IPv6ユニークローカル
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR in blockedNetworks: %s: %v", cidr, err))
		}
		blockedNetworks = append(blockedNetworks, *network)
	}
}

// Fetcher はリモートURLからドキュメントを安全に取得する。
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

// NewFetcher はSSRF防止機能付きのFetcherを生成する。
func NewFetcher(timeout time.Duration, maxSize int64) *Fetcher {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return &Fetcher{
		client:  safeurl.Client(config).Client,
		maxSize: maxSize,
	}
}

// ValidateURL は取得前にURLの安全性を検証する。
func (f *Fetcher) ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return model.NewInvalidURLError("empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.NewInvalidURLError(err.Error())
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return model.NewInvalidURLError(fmt.Sprintf("scheme %q is not allowed", parsed.Scheme))
	}

	host := parsed.Hostname()
	if host == "" {
		return model.NewInvalidURLError("missing host")
	}

	if ip := net.ParseIP(host); ip != nil {
		if isBlockedIP(ip) {
			return model.NewSSRFBlockedError()
		}
		return nil
	}
	if strings.EqualFold(host, "localhost") {
		return model.NewSSRFBlockedError()
	}

	return nil
}

// Fetch はURLからドキュメントを取得する。サイズ上限を超えた場合はエラー。
// 戻り値のファイル名はURLパスの末尾要素（無ければdocument.html）。
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (filename string, data []byte, err error) {
	if err := f.ValidateURL(rawURL); err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, model.NewInvalidURLError(err.Error())
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil, model.NewFetchFailedError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, model.NewFetchFailedError(fmt.Sprintf("status %d", resp.StatusCode))
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return "", nil, model.NewFetchFailedError(err.Error())
	}
	if int64(len(data)) > f.maxSize {
		return "", nil, model.NewFetchFailedError(fmt.Sprintf("document exceeds %d bytes", f.maxSize))
	}

	parsed, _ := url.Parse(rawURL)
	filename = path.Base(parsed.Path)
	if filename == "." || filename == "/" || !strings.Contains(filename, ".") {
		filename = "document.html"
	}

	return filename, data, nil
}

func isBlockedIP(ip net.IP) bool {
	for _, network := range blockedNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
