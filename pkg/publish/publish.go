// Package publish writes audit reports to Redis so fleet tooling can read
// bond state without parsing command output.
//
// Each member becomes a hash at BOND_AUDIT|<host>|<bond>|<interface> and
// each run writes a summary hash at BOND_AUDIT_RUN|<host>.
package publish

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/newtron-network/bondaudit/pkg/health"
	"github.com/newtron-network/bondaudit/pkg/util"
)

const (
	// MemberTable holds one hash per bond member.
	MemberTable = "BOND_AUDIT"
	// RunTable holds one summary hash per host.
	RunTable = "BOND_AUDIT_RUN"
)

// Config describes the Redis target.
type Config struct {
	Addr     string
	DB       int
	Password string

	// TTL expires published keys; zero keeps them forever.
	TTL time.Duration
}

// Entry is a single hash write.
type Entry struct {
	Key    string
	Fields map[string]string
}

// Publisher writes audit outcomes to Redis.
type Publisher struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPublisher connects to Redis and verifies the connection with PING.
func NewPublisher(ctx context.Context, cfg Config) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connect %s: %w", cfg.Addr, err)
	}
	return &Publisher{client: client, ttl: cfg.TTL}, nil
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Publish replaces the host's published state with the given outcome in a
// single MULTI/EXEC transaction.
func (p *Publisher) Publish(ctx context.Context, host string, out *health.Outcome) error {
	if out == nil {
		return nil
	}

	stale, err := p.client.Keys(ctx, fmt.Sprintf("%s|%s|*", MemberTable, host)).Result()
	if err != nil {
		return fmt.Errorf("scanning published members: %w", err)
	}

	entries := Entries(host, out)
	pipe := p.client.TxPipeline()
	for _, key := range stale {
		pipe.Del(ctx, key)
	}
	for _, e := range entries {
		args := make([]interface{}, 0, len(e.Fields)*2)
		for k, v := range e.Fields {
			args = append(args, k, v)
		}
		pipe.HSet(ctx, e.Key, args...)
		if p.ttl > 0 {
			pipe.Expire(ctx, e.Key, p.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return fmt.Errorf("pipeline exec: %w", err)
	}
	util.WithField("host", host).Debugf("published %d entries", len(entries))
	return nil
}

// Entries flattens an outcome into the hashes Publish writes, summary first
// and members in report order.
func Entries(host string, out *health.Outcome) []Entry {
	ts := out.Timestamp.UTC().Format(time.RFC3339)

	entries := []Entry{{
		Key: RunTable + "|" + host,
		Fields: map[string]string{
			"overall":   string(out.Overall),
			"warnings":  strconv.Itoa(len(out.Warnings())),
			"bonds":     strconv.Itoa(len(out.Report)),
			"timestamp": ts,
		},
	}}

	for _, bond := range out.Report.Bonds() {
		for _, iface := range out.Report.Members(bond) {
			e := out.Report[bond][iface]
			entries = append(entries, Entry{
				Key: fmt.Sprintf("%s|%s|%s|%s", MemberTable, host, bond, iface),
				Fields: map[string]string{
					"status":    e.Status,
					"vlanid":    e.VlanID,
					"timestamp": ts,
				},
			})
		}
	}
	return entries
}
