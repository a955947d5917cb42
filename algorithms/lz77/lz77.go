// Package lz77 纯 Go 的简单 LZ77 编码，不依赖外部库，结果稳定，适合作为测试用的打分器。
package lz77

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	MinLevel = 1
	MaxLevel = 9

	minMatchLength   = 3
	maxMatchLength   = math.MaxUint16
	maxLiteralLength = math.MaxUint16
)

const (
	tokenLiteral byte = 0
	tokenMatch   byte = 1
)

// windowSize 级别 1 为 128 字节，每级翻倍，9 为 32KiB
func windowSize(level int) int {
	return 1 << (6 + level)
}

func checkLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("lz77: invalid level %d", level)
	}
	return nil
}

func CompressedSize(src []byte, level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	size := 0
	encode(src, windowSize(level), func(token byte, a, b int, literal []byte) {
		if token == tokenMatch {
			size += 5
		} else {
			size += 3 + len(literal)
		}
	})
	return size, nil
}

func CompressBytes(dst []byte, src []byte, level int) ([]byte, error) {
	if err := checkLevel(level); err != nil {
		return dst, err
	}
	encoded := dst[:0]
	encode(src, windowSize(level), func(token byte, a, b int, literal []byte) {
		encoded = append(encoded, token)
		if token == tokenMatch {
			encoded = appendUint16(encoded, uint16(a))
			encoded = appendUint16(encoded, uint16(b))
			return
		}
		encoded = appendUint16(encoded, uint16(len(literal)))
		encoded = append(encoded, literal...)
	})
	return encoded, nil
}

// encode 贪心匹配；match 回调参数为 (offset, length)，literal 回调给出字面量片段
func encode(data []byte, window int, emit func(token byte, a, b int, literal []byte)) {
	pos := 0
	for pos < len(data) {
		offset, length := findLongestMatch(data, pos, window)
		if length >= minMatchLength {
			emit(tokenMatch, offset, length, nil)
			pos += length
			continue
		}

		literalStart := pos
		pos++
		for pos < len(data) {
			if pos-literalStart >= maxLiteralLength {
				break
			}
			_, nextLength := findLongestMatch(data, pos, window)
			if nextLength >= minMatchLength {
				break
			}
			pos++
		}
		emit(tokenLiteral, 0, 0, data[literalStart:pos])
	}
}

func DecompressBytes(dst []byte, encoded []byte) ([]byte, error) {
	out := dst[:0]
	cursor := 0
	for cursor < len(encoded) {
		token := encoded[cursor]
		cursor++
		switch token {
		case tokenLiteral:
			if cursor+2 > len(encoded) {
				return nil, errors.New("lz77: truncated literal length")
			}
			literalLen := int(binary.LittleEndian.Uint16(encoded[cursor : cursor+2]))
			cursor += 2
			if cursor+literalLen > len(encoded) {
				return nil, errors.New("lz77: truncated literal data")
			}
			out = append(out, encoded[cursor:cursor+literalLen]...)
			cursor += literalLen
		case tokenMatch:
			if cursor+4 > len(encoded) {
				return nil, errors.New("lz77: truncated match header")
			}
			offset := int(binary.LittleEndian.Uint16(encoded[cursor : cursor+2]))
			cursor += 2
			length := int(binary.LittleEndian.Uint16(encoded[cursor : cursor+2]))
			cursor += 2
			if offset <= 0 || offset > len(out) {
				return nil, errors.New("lz77: invalid match offset")
			}
			if length <= 0 {
				return nil, errors.New("lz77: invalid match length")
			}
			start := len(out) - offset
			for i := 0; i < length; i++ {
				out = append(out, out[start+i])
			}
		default:
			return nil, errors.New("lz77: unknown token type")
		}
	}
	return out, nil
}

func appendUint16(dst []byte, value uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], value)
	return append(dst, tmp[:]...)
}

func findLongestMatch(data []byte, pos int, window int) (offset, length int) {
	if pos == 0 {
		return 0, 0
	}
	windowStart := pos - window
	if windowStart < 0 {
		windowStart = 0
	}
	bestOffset := 0
	bestLength := 0
	limit := len(data)
	for i := windowStart; i < pos; i++ {
		matchLen := 0
		for matchLen < maxMatchLength && pos+matchLen < limit && data[i+matchLen] == data[pos+matchLen] {
			matchLen++
		}
		if matchLen > bestLength {
			bestLength = matchLen
			bestOffset = pos - i
			if bestLength == maxMatchLength {
				break
			}
		}
	}
	if bestLength < minMatchLength {
		return 0, 0
	}
	return bestOffset, bestLength
}
