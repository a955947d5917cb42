package common

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StdinPath 位置参数为 "-" 时从标准输入读取
const StdinPath = "-"

// ReadInput 读取整个文件，path 为 "-" 时读取 stdin
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == StdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin error: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file error '%s': %w", path, err)
	}
	return data, nil
}

// WriteFileAtomic 在同目录下写临时文件，fsync 后 rename 覆盖 path。
// 目标已存在时沿用其权限。失败时删除临时文件，原文件保持不变。
func WriteFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file error in '%s': %w", dir, err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	writer := bufio.NewWriterSize(tmp, 64*1024)
	if _, err := writer.Write(data); err != nil {
		return fail(fmt.Errorf("write temp file error '%s': %w", tmpPath, err))
	}
	if err := writer.Flush(); err != nil {
		return fail(fmt.Errorf("flush temp file error '%s': %w", tmpPath, err))
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail(fmt.Errorf("chmod temp file error '%s': %w", tmpPath, err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("sync temp file error '%s': %w", tmpPath, err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file error '%s': %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename '%s' -> '%s' error: %w", tmpPath, path, err)
	}
	return nil
}
