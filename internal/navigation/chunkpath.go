// Package navigation はユニット・チャンク間の移動とキー操作を扱います。
//
// チャンクの位置は内部では 0 始まりの ChunkIndex、URL では 1 始まりの ChunkNumber で
// 表します。両者の変換はこのファイルの関数だけで行ってください。
package navigation

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidChunkPath = errors.New("navigation: invalid chunk path")

// ChunkIndex はユニット内のチャンク位置 (0始まり)
type ChunkIndex int

// ChunkNumber はURLに出るチャンク番号 (1始まり)
type ChunkNumber int

func (i ChunkIndex) Number() ChunkNumber {
	return ChunkNumber(i + 1)
}

// ParseChunkNumber はURLのチャンク番号セグメントを ChunkIndex に変換します。
// 空文字は先頭チャンクです。
func ParseChunkNumber(segment string) (ChunkIndex, error) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(segment)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChunkPath, segment)
	}
	return ChunkIndex(n - 1), nil
}

// ChunkPath は画面のURL /courses/{slug}/units/{unit}/{chunkNumber} を返します。
func ChunkPath(courseSlug, unitNumber string, idx ChunkIndex) string {
	return fmt.Sprintf("/courses/%s/units/%s/%d",
		url.PathEscape(courseSlug), url.PathEscape(unitNumber), idx.Number())
}

// APIChunkPath はチャンク取得APIのパス /api/v1/courses/{slug}/units/{unit}/chunks/{chunkNumber} を返します。
func APIChunkPath(courseSlug, unitNumber string, idx ChunkIndex) string {
	return fmt.Sprintf("/api/v1/courses/%s/units/%s/chunks/%d",
		url.PathEscape(courseSlug), url.PathEscape(unitNumber), idx.Number())
}
