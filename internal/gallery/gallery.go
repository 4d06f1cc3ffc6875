// Package gallery 查询宿主的图片目录接口，列出角色的备选头像。
package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/purpose168/lightstyler/internal/csync"
	"github.com/purpose168/lightstyler/internal/log"
	"golang.org/x/sync/singleflight"
)

const (
	listPath    = "/api/images/list"
	foldersPath = "/api/images/folders"
	imagesRoot  = "user/images/"
)

// Image 是角色目录中的一张图片。
type Image struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	DisplayName string `json:"display_name"`
}

// NewImage 由角色名和文件名构造 Image。
func NewImage(character, file string) Image {
	return Image{
		Filename:    file,
		URL:         ImageURL(character, file),
		DisplayName: strings.TrimSuffix(file, path.Ext(file)),
	}
}

// ImageURL 返回图片相对于宿主根目录的地址，两段都按 URI 组件转义。
func ImageURL(character, file string) string {
	return imagesRoot + escapeComponent(character) + "/" + escapeComponent(file)
}

const upperhex = "0123456789ABCDEF"

// escapeComponent 按 UTF-8 字节转义，只保留字母、数字和 -_.!~*'()。
func escapeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// HeaderFunc 返回每次请求携带的宿主请求头。
type HeaderFunc func() http.Header

// Client 是图片目录客户端。成功的列表结果按角色名精确缓存，失败不缓存。
type Client struct {
	baseURL string
	http    *http.Client
	headers HeaderFunc

	cache *csync.Map[string, []Image]
	group singleflight.Group
}

// Option 配置 Client。
type Option func(*Client)

// WithHTTPClient 替换底层 HTTP 客户端。
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithHeaders 设置请求头来源。
func WithHeaders(fn HeaderFunc) Option {
	return func(cl *Client) { cl.headers = fn }
}

// New 创建指向 baseURL 的客户端。
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    log.NewHTTPClient(),
		cache:   csync.NewMap[string, []Image](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListImages 返回角色目录中的图片，按日期倒序。
// 任何失败都记录日志并返回空切片。
func (c *Client) ListImages(ctx context.Context, character string) []Image {
	if character == "" {
		return []Image{}
	}
	if images, ok := c.cache.Get(character); ok {
		return slices.Clone(images)
	}

	// 同名的并发未命中共享同一次请求
	v, err, _ := c.group.Do(character, func() (any, error) {
		files, err := c.listFiles(ctx, character)
		if err != nil {
			return nil, err
		}
		images := make([]Image, 0, len(files))
		for _, f := range files {
			images = append(images, NewImage(character, f))
		}
		c.cache.Set(character, images)
		return images, nil
	})
	if err != nil {
		slog.Warn("获取角色图片失败", "character", character, "error", err)
		return []Image{}
	}
	return slices.Clone(v.([]Image))
}

func (c *Client) listFiles(ctx context.Context, character string) ([]string, error) {
	body, err := json.Marshal(map[string]string{
		"folder":    character,
		"sortField": "date",
		"sortOrder": "desc",
	})
	if err != nil {
		return nil, err
	}
	var files []string
	if err := c.post(ctx, listPath, body, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// ListFolders 返回所有非空的图片目录名。失败时返回空切片。
func (c *Client) ListFolders(ctx context.Context) []string {
	var folders []string
	if err := c.post(ctx, foldersPath, nil, &folders); err != nil {
		slog.Warn("获取图片目录失败", "error", err)
		return []string{}
	}
	return slices.DeleteFunc(folders, func(f string) bool {
		return strings.TrimSpace(f) == ""
	})
}

// ClearCache 清除指定角色的缓存，不传参数时清除全部。
// 进行中的请求不受影响，其结果仍会写入缓存。
func (c *Client) ClearCache(characters ...string) {
	if len(characters) == 0 {
		c.cache.Reset(nil)
		return
	}
	for _, name := range characters {
		c.cache.Del(name)
	}
}

// Cached 报告角色的结果是否已缓存。
func (c *Client) Cached(character string) bool {
	_, ok := c.cache.Get(character)
	return ok
}

func (c *Client) post(ctx context.Context, p string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+p, reader)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	if c.headers != nil {
		for k, vs := range c.headers() {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("请求 %s 失败: %w", p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("请求 %s 返回状态码 %d", p, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析 %s 响应失败: %w", p, err)
	}
	return nil
}
