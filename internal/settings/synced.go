package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidNamespace 表示命名空间为空或包含路径语法字符。
var ErrInvalidNamespace = errors.New("无效的设置命名空间")

// ErrInvalidDocument 表示设置文件不是有效的 JSON。文件归宿主所有，
// 此时既不读取也不覆盖。
var ErrInvalidDocument = errors.New("设置文件不是有效的 JSON")

var namespaceRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func validNamespace(ns string) error {
	if !namespaceRe.MatchString(ns) {
		return fmt.Errorf("%w: %q", ErrInvalidNamespace, ns)
	}
	return nil
}

// SyncedStore 是宿主同步的扩展设置存储。
type SyncedStore interface {
	// ReadNamespace 返回命名空间下的原始 JSON，不存在时 ok 为 false。
	ReadNamespace(ctx context.Context, namespace string) (raw []byte, ok bool, err error)
	// WriteNamespace 用 raw 替换命名空间下的内容。
	WriteNamespace(ctx context.Context, namespace string, raw []byte) error
}

// FileStore 把宿主的扩展设置文档保存在一个 JSON 文件中，
// 每个扩展占用文档顶层的一个键。文件中的其他键保持不变。
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ SyncedStore = (*FileStore)(nil)

// NewFileStore 返回以 path 为文档的 FileStore，文件不存在视为空文档。
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path 返回文档路径。
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []byte("{}"), nil
		}
		return nil, fmt.Errorf("读取设置文件失败: %w", err)
	}
	if len(data) == 0 {
		return []byte("{}"), nil
	}
	return data, nil
}

// ReadNamespace 实现 SyncedStore。
func (f *FileStore) ReadNamespace(_ context.Context, namespace string) ([]byte, bool, error) {
	if err := validNamespace(namespace); err != nil {
		return nil, false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return nil, false, err
	}
	if !gjson.ValidBytes(data) {
		return nil, false, fmt.Errorf("%w: %s", ErrInvalidDocument, f.path)
	}

	res := gjson.GetBytes(data, namespace)
	if !res.Exists() {
		return nil, false, nil
	}
	return []byte(res.Raw), true, nil
}

// WriteNamespace 实现 SyncedStore。写入先落到临时文件再原子替换。
// 现有文件不是有效 JSON 时返回 ErrInvalidDocument，文件保持不变。
func (f *FileStore) WriteNamespace(_ context.Context, namespace string, raw []byte) error {
	if err := validNamespace(namespace); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: %s", ErrInvalidDocument, f.path)
	}

	updated, err := sjson.SetRawBytes(data, namespace, raw)
	if err != nil {
		return fmt.Errorf("设置命名空间 %s 失败: %w", namespace, err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("创建设置目录 %q 失败: %w", filepath.Dir(f.path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".settings-*.json")
	if err != nil {
		return fmt.Errorf("创建临时设置文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(updated); err != nil {
		tmp.Close()
		return fmt.Errorf("写入设置文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入设置文件失败: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("替换设置文件失败: %w", err)
	}
	return nil
}
