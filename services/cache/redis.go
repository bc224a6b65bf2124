package cachesvc

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/shalini31102/studentApp/core"
	"github.com/shalini31102/studentApp/core/attendance"
	"github.com/shalini31102/studentApp/core/student"
)

// Connect returns nil (caching disabled) when no address is configured.
func Connect(ctx context.Context, conf *core.Config) (*redis.Client, error) {
	if conf.Redis.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

// ReportCache keeps monthly reports in Redis.
// Report keys embed a global generation and a per-month generation: Purge bumps the former,
// Invalidate the latter, and older keys become unreachable and expire.
type ReportCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

var (
	_ attendance.ReportCache = (*ReportCache)(nil)
	_ student.RosterObserver = (*ReportCache)(nil)
)

func NewReportCache(client redis.Cmdable, prefix string, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *ReportCache) genKey() string {
	return c.prefix + ":report:gen"
}

func (c *ReportCache) monthGenKey(month, year int) string {
	return c.prefix + ":report:gen:" + attendance.MonthKey(month, year)
}

// Stamp returns the key a report of the month is currently read from and written to.
func (c *ReportCache) Stamp(ctx context.Context, month, year int) (string, error) {
	vals, err := c.client.MGet(ctx, c.genKey(), c.monthGenKey(month, year)).Result()
	if err != nil {
		return "", errors.Wrap(err, "reading cache generations")
	}
	gens := make([]int64, len(vals))
	for i, val := range vals {
		if val == nil {
			continue
		}
		str, ok := val.(string)
		if !ok {
			return "", errors.Errorf("unexpected cache generation %v", val)
		}
		if gens[i], err = strconv.ParseInt(str, 10, 64); err != nil {
			return "", errors.Wrap(err, "parsing cache generation")
		}
	}
	return fmt.Sprintf("%s:report:%d:%s:%d", c.prefix, gens[0], attendance.MonthKey(month, year), gens[1]), nil
}

func (c *ReportCache) GetReport(ctx context.Context, stamp string) ([]attendance.ReportRow, bool, error) {
	data, err := c.client.Get(ctx, stamp).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "getting report")
	}

	var rows []attendance.ReportRow
	if err = json.Unmarshal(data, &rows); err != nil {
		return nil, false, errors.Wrap(err, "decoding report")
	}
	return rows, true, nil
}

func (c *ReportCache) SetReport(ctx context.Context, stamp string, rows []attendance.ReportRow) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	return errors.Wrap(c.client.Set(ctx, stamp, data, c.ttl).Err(), "setting report")
}

func (c *ReportCache) Invalidate(ctx context.Context, month, year int) error {
	return errors.Wrap(c.client.Incr(ctx, c.monthGenKey(month, year)).Err(), "bumping month generation")
}

func (c *ReportCache) Purge(ctx context.Context) error {
	return errors.Wrap(c.client.Incr(ctx, c.genKey()).Err(), "bumping cache generation")
}

// RosterChanged purges every report: roster details are joined into all of them.
func (c *ReportCache) RosterChanged(ctx context.Context) error {
	return c.Purge(ctx)
}
