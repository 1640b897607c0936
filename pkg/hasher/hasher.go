package hasher

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// Algorithm 内容摘要算法
type Algorithm string

const (
	// SHA256 256 位加密摘要，默认算法
	SHA256 Algorithm = "sha256"
	// XXHash 64 位快速摘要，判定重复前需逐字节确认
	XXHash Algorithm = "xxhash"
)

const compareBufferSize = 64 * 1024

// ParseAlgorithm 解析算法名称
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "", SHA256:
		return SHA256, nil
	case XXHash:
		return XXHash, nil
	}
	return "", fmt.Errorf("unknown hash algorithm %q", s)
}

// Strong 摘要碰撞是否可以忽略
func (a Algorithm) Strong() bool {
	return a != XXHash
}

// Hasher 计算文件内容摘要
type Hasher struct {
	fs        afero.Fs
	algorithm Algorithm
}

// New 创建摘要计算器
func New(fs afero.Fs, algorithm Algorithm) *Hasher {
	if algorithm == "" {
		algorithm = SHA256
	}
	return &Hasher{fs: fs, algorithm: algorithm}
}

// Algorithm 当前使用的算法
func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

func (h *Hasher) newHash() hash.Hash {
	if h.algorithm == XXHash {
		return xxhash.New()
	}
	return sha256.New()
}

// Sum 计算文件的内容摘要，返回十六进制字符串
func (h *Hasher) Sum(path string) (string, error) {
	file, err := h.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	d := h.newHash()
	if _, err := io.Copy(d, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	if x, ok := d.(*xxhash.Digest); ok {
		return strconv.FormatUint(x.Sum64(), 16), nil
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}

// SameContent 逐字节比较两个文件的内容
func (h *Hasher) SameContent(a, b string) (bool, error) {
	fa, err := h.fs.Open(a)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", a, err)
	}
	defer fa.Close()

	fb, err := h.fs.Open(b)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", b, err)
	}
	defer fb.Close()

	bufA := make([]byte, compareBufferSize)
	bufB := make([]byte, compareBufferSize)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if errA != nil && errA != io.EOF && errA != io.ErrUnexpectedEOF {
			return false, fmt.Errorf("read %s: %w", a, errA)
		}
		if errB != nil && errB != io.EOF && errB != io.ErrUnexpectedEOF {
			return false, fmt.Errorf("read %s: %w", b, errB)
		}
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		if errA != nil || errB != nil {
			// 任一文件读完时两者必须同时读完
			return errA != nil && errB != nil, nil
		}
	}
}
