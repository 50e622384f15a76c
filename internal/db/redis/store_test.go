package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/searchlight-ai/searchlight/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// --- kv.go tests ---

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisString("myvalue")))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "mykey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "myvalue" {
		t.Errorf("unexpected value: %q", data)
	}
}

func TestGet_Missing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "absent")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "absent")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "mykey")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Error("transport errors must not look like missing keys")
	}
}

func TestSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mykey", "myvalue")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.Set(context.Background(), "mykey", []byte("myvalue")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SET" && cmd[1] == "mykey" && cmd[3] == "EX" && cmd[4] == "3600"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "mykey", []byte("v"), time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIncrBy_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCRBY", "counter", "1")).
		Return(mock.Result(mock.RedisInt64(4)))

	s := NewStoreForTest(c)
	n, err := s.IncrBy(context.Background(), "counter", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4, got %d", n)
	}
}

func TestExpire_NX(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXPIRE", "counter", "86400", "NX")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.Expire(context.Background(), "counter", 24*time.Hour, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpire_Unconditional(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("EXPIRE", "counter", "60")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.Expire(context.Background(), "counter", time.Minute, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- knn.go tests ---

func TestSearchKNN_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" &&
				cmd[1] == "myindex" &&
				cmd[2] == "(@identity:{alice})=>[KNN 2 @vector $BLOB]"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("doc:1"),
			mock.RedisArray(
				mock.RedisString("title"), mock.RedisString("First"),
				mock.RedisString("content"), mock.RedisString("alpha"),
				mock.RedisString("__vector_score"), mock.RedisString("0.25"),
			),
			mock.RedisString("doc:2"),
			mock.RedisArray(
				mock.RedisString("title"), mock.RedisString("Second"),
				mock.RedisString("content"), mock.RedisString("beta"),
				mock.RedisString("__vector_score"), mock.RedisString("0.5"),
			),
		)))

	s := NewStoreForTest(c)
	hits, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName:    "myindex",
		Vector:       []float32{0.1, 0.2},
		K:            2,
		Identity:     "alice",
		ReturnFields: []string{"title", "content", "__vector_score"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Key != "doc:1" || hits[0].Fields["title"] != "First" {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if hits[0].Score != 0.75 {
		t.Errorf("expected similarity 0.75, got %f", hits[0].Score)
	}
	if _, ok := hits[0].Fields["__vector_score"]; ok {
		t.Error("raw score field must be stripped from returned fields")
	}
}

func TestSearchKNN_NoIdentityMatchesAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "*=>[KNN 1 @vector $BLOB]"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	hits, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		IndexName: "myindex",
		Vector:    []float32{1},
		K:         1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits != nil {
		t.Errorf("expected no hits, got %v", hits)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := NewStoreForTest(nil) // client not called

	cases := []struct {
		name string
		q    *db.KNNQuery
	}{
		{"missing index", &db.KNNQuery{Vector: []float32{1}, K: 1}},
		{"missing vector", &db.KNNQuery{IndexName: "idx", K: 1}},
		{"non-positive k", &db.KNNQuery{IndexName: "idx", Vector: []float32{1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := s.SearchKNN(context.Background(), tc.q); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseKNNResult_SkipsMalformedEntries(t *testing.T) {
	raw := []rueidis.RedisMessage{
		mock.RedisInt64(2),
		mock.RedisString("doc:1"),
		mock.RedisArray(mock.RedisString("content"), mock.RedisString("ok")),
		mock.RedisString("doc:2"),
		mock.RedisString("not-an-array"),
	}
	hits, err := parseKNNResult(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].Key != "doc:1" {
		t.Errorf("unexpected hits: %+v", hits)
	}
}

func TestVectorToBytes(t *testing.T) {
	got := vectorToBytes([]float32{1.0})
	want := string([]byte{0x00, 0x00, 0x80, 0x3f}) // 1.0 little-endian
	if got != want {
		t.Errorf("vectorToBytes = %x, want %x", got, want)
	}
}

func TestEscapeTag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alice", "alice"},
		{"user@example.com", `user\@example\.com`},
		{"a b", `a\ b`},
		{"a-b", `a\-b`},
	}
	for _, tc := range tests {
		if got := escapeTag(tc.in); got != tc.want {
			t.Errorf("escapeTag(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
