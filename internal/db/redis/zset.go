package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/docintel/internal/db"
)

// ZAdd adds or re-scores a sorted set member.
func (s *Store) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if err := s.do(ctx, s.zadd(key, score, member)).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZRem removes a sorted set member.
func (s *Store) ZRem(ctx context.Context, key, member string) error {
	if err := s.do(ctx, s.zrem(key, member)).Error(); err != nil {
		return &db.Error{Op: db.OpZRem, Err: err}
	}
	return nil
}

// ZRevRange returns members ordered by descending score.
func (s *Store) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	cmd := s.b().Arbitrary("ZREVRANGE").Keys(key).
		Args(strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10)).Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRevRange, Err: err}
	}
	return members, nil
}

// ZCard returns the number of members.
func (s *Store) ZCard(ctx context.Context, key string) (int64, error) {
	n, err := s.do(ctx, s.b().Zcard().Key(key).Build()).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpZCard, Err: err}
	}
	return n, nil
}

// SetIndexed stores the value and all its index memberships in one MULTI/EXEC transaction.
func (s *Store) SetIndexed(ctx context.Context, item db.IndexedItem) error {
	cmds := make([]rueidis.Completed, 0, len(item.Indexes)+3)
	cmds = append(cmds, s.b().Multi().Build())
	cmds = append(cmds, s.b().Set().Key(item.Key).Value(rueidis.BinaryString(item.Value)).Build())
	for _, z := range item.Indexes {
		cmds = append(cmds, s.zadd(z.Key, z.Score, z.Member))
	}
	cmds = append(cmds, s.b().Exec().Build())
	return s.exec(ctx, db.OpSet, cmds)
}

// DelIndexed removes the value and its index memberships in one MULTI/EXEC transaction.
func (s *Store) DelIndexed(ctx context.Context, key string, indexes []db.ZEntry) error {
	cmds := make([]rueidis.Completed, 0, len(indexes)+3)
	cmds = append(cmds, s.b().Multi().Build())
	cmds = append(cmds, s.b().Del().Key(key).Build())
	for _, z := range indexes {
		cmds = append(cmds, s.zrem(z.Key, z.Member))
	}
	cmds = append(cmds, s.b().Exec().Build())
	return s.exec(ctx, db.OpDel, cmds)
}

func (s *Store) zadd(key string, score float64, member string) rueidis.Completed {
	return s.b().Zadd().Key(key).ScoreMember().ScoreMember(score, member).Build()
}

func (s *Store) zrem(key, member string) rueidis.Completed {
	return s.b().Zrem().Key(key).Member(member).Build()
}

// exec sends a MULTI ... EXEC block. Queueing errors abort the whole
// transaction; errors inside the EXEC reply are reported per command.
func (s *Store) exec(ctx context.Context, op string, cmds []rueidis.Completed) error {
	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: op, Err: fmt.Errorf("command %d: %w", i, err)}
		}
	}
	if len(results) == 0 {
		return &db.Error{Op: op, Err: fmt.Errorf("empty transaction reply")}
	}
	replies, err := results[len(results)-1].ToArray()
	if err != nil {
		return &db.Error{Op: op, Err: fmt.Errorf("exec: %w", err)}
	}
	for i := range replies {
		if err := replies[i].Error(); err != nil {
			return &db.Error{Op: op, Err: fmt.Errorf("exec command %d: %w", i, err)}
		}
	}
	return nil
}
