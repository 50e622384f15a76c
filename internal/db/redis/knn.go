package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/searchlight-ai/searchlight/internal/db"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH, restricted to
// documents tagged with the given identity.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) ([]db.KNNHit, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	knnPart := fmt.Sprintf("[KNN %d @vector $BLOB]", q.K)
	var queryStr string
	if q.Identity != "" {
		queryStr = fmt.Sprintf("(@identity:{%s})=>%s", escapeTag(q.Identity), knnPart)
	} else {
		queryStr = "*=>" + knnPart
	}

	args := []string{q.IndexName, queryStr}

	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args, "PARAMS", "2", "BLOB", vectorToBytes(q.Vector), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKNNResult(raw)
}

// parseKNNResult decodes the RESP2 FT.SEARCH reply:
// [total, key1, fields1, key2, fields2, ...] with fields as flat name/value pairs.
func parseKNNResult(raw []rueidis.RedisMessage) ([]db.KNNHit, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	hits := make([]db.KNNHit, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fieldsRaw, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		hit := db.KNNHit{Key: key, Fields: parseFieldPairs(fieldsRaw)}

		if scoreStr, ok := hit.Fields["__vector_score"]; ok {
			if d, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				hit.Score = max(0, 1.0-d) // cosine distance -> similarity, clamped to [0,1]
			}
			delete(hit.Fields, "__vector_score")
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

func parseFieldPairs(raw []rueidis.RedisMessage) map[string]string {
	fields := make(map[string]string, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		name, err := raw[i].ToString()
		if err != nil {
			continue
		}
		value, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		fields[name] = value
	}
	return fields
}

// vectorToBytes encodes float32 values as little-endian bytes for FT.SEARCH PARAMS.
func vectorToBytes(vec []float32) string {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return string(buf)
}

// escapeTag escapes characters with special meaning inside a TAG filter.
func escapeTag(v string) string {
	var sb strings.Builder
	for _, r := range v {
		switch r {
		case ',', '.', '<', '>', '{', '}', '[', ']', '"', '\'', ':', ';',
			'!', '@', '#', '$', '%', '^', '&', '*', '(', ')', '-', '+',
			'=', '~', '|', '/', '\\', ' ':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
