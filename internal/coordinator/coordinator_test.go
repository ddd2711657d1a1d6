package coordinator_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/CreoDAMO/QFC/internal/coordinator"
	"github.com/CreoDAMO/QFC/internal/shard"
	"github.com/CreoDAMO/QFC/internal/txn"
)

const (
	success = "✓"
	failed  = "✗"
)

func newShards(n int) []*shard.Shard {
	shards := make([]*shard.Shard, n)
	for i := range shards {
		shards[i] = shard.New(i, shard.SpatialTag{})
	}
	return shards
}

func Test_ShardForIsAPureFunctionOfFirstNibble(t *testing.T) {
	c := coordinator.New(newShards(4), func(string) float64 { return 0 }, zap.NewNop())

	tt := []struct {
		address string
		want    int
	}{
		{"a1deadbeef", 2}, // 'a' = 10, 10 % 4 = 2
		{"f2deadbeef", 3}, // 'f' = 15, 15 % 4 = 3
		{"0cafe", 0},
		{"9cafe", 1},
	}

	for _, tc := range tt {
		s, err := c.ShardFor(tc.address)
		if err != nil {
			t.Fatalf("%s\t%s: unexpected error: %s", failed, tc.address, err)
		}
		if s.ID() != tc.want {
			t.Fatalf("%s\t%s: expected shard %d, got %d", failed, tc.address, tc.want, s.ID())
		}
	}
	t.Logf("%s\trouting matched int(address[0], 16) mod shard_count for every case", success)
}

func Test_ShardForRejectsNonHexAddress(t *testing.T) {
	c := coordinator.New(newShards(4), func(string) float64 { return 0 }, zap.NewNop())

	if _, err := c.ShardFor("zdeadbeef"); !errors.Is(err, coordinator.ErrMalformedAddress) {
		t.Fatalf("%s\texpected ErrMalformedAddress, got %v", failed, err)
	}
	t.Logf("%s\trejected a non-hex leading character", success)
}

func Test_RouteAdmitsToSingleSharedShard(t *testing.T) {
	shards := newShards(4)
	c := coordinator.New(shards, func(string) float64 { return 1000 }, zap.NewNop())

	// Both "a..." and "a..." route to shard 2: same shard fast path.
	tx := txn.New("a1sender", "a2recipient", 10, "")
	if err := c.Route(tx); err != nil {
		t.Fatalf("%s\tshould route within a single shard: %s", failed, err)
	}

	if got := len(shards[2].Pending()); got != 1 {
		t.Fatalf("%s\texpected 1 pending transaction on shard 2, got %d", failed, got)
	}
	t.Logf("%s\tsame-shard transaction admitted directly", success)
}

func Test_RouteCommitsAcrossShards(t *testing.T) {
	shards := newShards(4)
	c := coordinator.New(shards, func(string) float64 { return 1000 }, zap.NewNop())

	tx := txn.New("a1sender", "f2recipient", 5, "")
	if err := c.Route(tx); err != nil {
		t.Fatalf("%s\tshould commit across shards: %s", failed, err)
	}

	if got := len(shards[2].Pending()); got != 1 {
		t.Fatalf("%s\texpected the source shard to hold the record, got %d", failed, got)
	}
	if got := len(shards[3].Pending()); got != 1 {
		t.Fatalf("%s\texpected the destination shard to hold the record, got %d", failed, got)
	}
	t.Logf("%s\tcross-shard commit landed the record on both shards", success)
}

func Test_RouteAbortsOnInsufficientBalance(t *testing.T) {
	shards := newShards(4)
	c := coordinator.New(shards, func(string) float64 { return 0 }, zap.NewNop())

	tx := txn.New("a1sender", "f2recipient", 5, "")
	if err := c.Route(tx); !errors.Is(err, coordinator.ErrPrepareFailed) {
		t.Fatalf("%s\texpected ErrPrepareFailed, got %v", failed, err)
	}

	if got := len(shards[2].Pending()) + len(shards[3].Pending()); got != 0 {
		t.Fatalf("%s\texpected no state change on abort, got %d pending records", failed, got)
	}
	t.Logf("%s\taborted cross-shard transaction left no state change", success)
}
