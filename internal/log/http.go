package log

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// NewHTTPClient 返回一个在调试级别记录请求和响应的 HTTP 客户端。
// 客户端不设置超时，请求的生命周期由调用方的 context 决定。
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &HTTPRoundTripLogger{
			Transport: http.DefaultTransport,
		},
	}
}

// HTTPRoundTripLogger 包装底层 RoundTripper 并记录每次往返。
type HTTPRoundTripLogger struct {
	Transport http.RoundTripper
}

// RoundTrip 实现 http.RoundTripper。
func (h *HTTPRoundTripLogger) RoundTrip(req *http.Request) (*http.Response, error) {
	var err error
	var save io.ReadCloser
	save, req.Body, err = drainBody(req.Body)
	if err != nil {
		slog.Error(
			"HTTP请求失败",
			"method", req.Method,
			"url", req.URL,
			"error", err,
		)
		return nil, err
	}

	debugEnabled := slog.Default().Enabled(req.Context(), slog.LevelDebug)
	if debugEnabled {
		slog.Debug(
			"HTTP请求",
			"method", req.Method,
			"url", req.URL,
			"headers", formatHeaders(req.Header),
			"body", bodyToString(save),
		)
	}

	start := time.Now()
	resp, err := h.Transport.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		slog.Error(
			"HTTP请求失败",
			"method", req.Method,
			"url", req.URL,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return resp, err
	}

	if !debugEnabled {
		return resp, nil
	}

	save, resp.Body, err = drainBody(resp.Body)
	slog.Debug(
		"HTTP响应",
		"status_code", resp.StatusCode,
		"status", resp.Status,
		"headers", formatHeaders(resp.Header),
		"body", bodyToString(save),
		"content_length", resp.ContentLength,
		"duration_ms", duration.Milliseconds(),
		"error", err,
	)
	return resp, err
}

// bodyToString 把 body 读成字符串，JSON 内容会被缩进。
func bodyToString(body io.ReadCloser) string {
	if body == nil {
		return ""
	}
	src, err := io.ReadAll(body)
	if err != nil {
		slog.Error("读取body失败", "error", err)
		return ""
	}
	var b bytes.Buffer
	if json.Indent(&b, bytes.TrimSpace(src), "", "  ") != nil {
		return string(src)
	}
	return b.String()
}

// sensitiveHeaderParts 命中任一片段的头部在日志中被隐藏
var sensitiveHeaderParts = []string{
	"authorization",
	"api-key",
	"token",
	"secret",
	"csrf",
	"cookie",
}

// formatHeaders 复制头部用于日志，敏感值替换为 [已隐藏]。
func formatHeaders(headers http.Header) map[string][]string {
	filtered := make(map[string][]string, len(headers))
	for key, values := range headers {
		lowerKey := strings.ToLower(key)
		redact := false
		for _, part := range sensitiveHeaderParts {
			if strings.Contains(lowerKey, part) {
				redact = true
				break
			}
		}
		if redact {
			filtered[key] = []string{"[已隐藏]"}
		} else {
			filtered[key] = values
		}
	}
	return filtered
}

// drainBody 读取 body 并返回两个可独立读取的副本。
func drainBody(b io.ReadCloser) (r1, r2 io.ReadCloser, err error) {
	if b == nil || b == http.NoBody {
		return http.NoBody, http.NoBody, nil
	}
	var buf bytes.Buffer
	if _, err = buf.ReadFrom(b); err != nil {
		return nil, b, err
	}
	if err = b.Close(); err != nil {
		return nil, b, err
	}
	return io.NopCloser(&buf), io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}
