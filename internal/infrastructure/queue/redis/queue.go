package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
	"github.com/JoeShih716/go-platform-automation/pkg/redis"
)

// Key Pattern (prefix 為 namespace):
//
//	{ns}:job:{id}          Hash: data/key/seq/priority/state/attempts
//	{ns}:ready:{priority}  List: 可執行的 job id
//	{ns}:inflight          ZSet: job id -> 租約到期時間 (ms)
//	{ns}:delayed           ZSet: job id -> 可重試時間 (ms)
//	{ns}:seq:{serial}      String: serial key 的流水號
//	{ns}:next:{serial}     String: serial key 下一個可執行的流水號
//	{ns}:parked:{serial}   ZSet: 尚未輪到的 job (score 為流水號)
//	{ns}:wakeup            Pub/Sub 頻道
const (
	keyJob      = "%s:job:%s"
	keyReady    = "%s:ready:%s"
	keyInflight = "%s:inflight"
	keyDelayed  = "%s:delayed"
	keySeq      = "%s:seq:%s"
	keyWakeup   = "%s:wakeup"

	DefaultNamespace = "automation"
	DefaultRetention = 7 * 24 * time.Hour
)

var enqueueScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
local seq = redis.call('INCR', KEYS[3])
redis.call('HSET', KEYS[1], 'data', ARGV[2], 'key', ARGV[3], 'seq', seq, 'priority', ARGV[4], 'state', 'queued', 'attempts', 0)
redis.call('RPUSH', KEYS[2], ARGV[1])
return seq
`)

// dequeueScript 先把到期的延遲工作放回佇列最前面，再依優先權取出；
// 流水號還沒輪到的工作會暫存到 parked，等前一個工作完成後再放回。
var dequeueScript = redis.NewScript(`
local prefix = ARGV[3]
local due = redis.call('ZRANGEBYSCORE', KEYS[4], '-inf', ARGV[1])
for _, id in ipairs(due) do
	redis.call('ZREM', KEYS[4], id)
	local jk = prefix .. ':job:' .. id
	local prio = redis.call('HGET', jk, 'priority')
	if prio then
		redis.call('HSET', jk, 'state', 'queued')
		redis.call('LPUSH', prefix .. ':ready:' .. prio, id)
	end
end
for i = 1, 2 do
	while true do
		local id = redis.call('LPOP', KEYS[i])
		if not id then
			break
		end
		local jk = prefix .. ':job:' .. id
		local job = redis.call('HMGET', jk, 'key', 'seq', 'data')
		if job[1] then
			local seq = tonumber(job[2])
			local nxt = tonumber(redis.call('GET', prefix .. ':next:' .. job[1]) or '1')
			if seq == nxt then
				redis.call('ZADD', KEYS[3], ARGV[2], id)
				redis.call('HSET', jk, 'state', 'in_progress')
				local attempts = redis.call('HINCRBY', jk, 'attempts', 1)
				return {id, job[3], attempts}
			elseif seq > nxt then
				redis.call('ZADD', prefix .. ':parked:' .. job[1], seq, id)
			end
		end
	end
end
return false
`)

var completeScript = redis.NewScript(`
redis.call('ZREM', KEYS[2], ARGV[1])
local job = redis.call('HMGET', KEYS[1], 'key', 'seq')
if not job[1] then
	return -1
end
redis.call('HSET', KEYS[1], 'data', ARGV[2], 'state', ARGV[3])
local prefix = ARGV[4]
local nk = prefix .. ':next:' .. job[1]
local seq = tonumber(job[2])
local nxt = tonumber(redis.call('GET', nk) or '1')
if seq >= nxt then
	nxt = seq + 1
	redis.call('SET', nk, nxt)
end
local pk = prefix .. ':parked:' .. job[1]
local released = 0
for _, pid in ipairs(redis.call('ZRANGEBYSCORE', pk, nxt, nxt)) do
	redis.call('ZREM', pk, pid)
	local prio = redis.call('HGET', prefix .. ':job:' .. pid, 'priority')
	if prio then
		redis.call('LPUSH', prefix .. ':ready:' .. prio, pid)
		released = released + 1
	end
end
redis.call('EXPIRE', KEYS[1], ARGV[5])
return released
`)

var retryScript = redis.NewScript(`
redis.call('ZREM', KEYS[2], ARGV[1])
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'data', ARGV[2], 'state', 'retrying', 'attempts', ARGV[3])
redis.call('ZADD', KEYS[3], ARGV[4], ARGV[1])
return 1
`)

var reapScript = redis.NewScript(`
local n = 0
for _, id in ipairs(redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])) do
	redis.call('ZREM', KEYS[1], id)
	local jk = ARGV[2] .. ':job:' .. id
	local prio = redis.call('HGET', jk, 'priority')
	if prio then
		redis.call('HSET', jk, 'state', 'queued')
		redis.call('LPUSH', ARGV[2] .. ':ready:' .. prio, id)
		n = n + 1
	end
end
return n
`)

// Options Queue 設定
type Options struct {
	Namespace string
	LeaseTTL  time.Duration    // Dequeue 後的租約時間，過期會被 ReapExpired 放回佇列
	Retention time.Duration    // 終態工作保留時間
	Now       func() time.Time // 測試時注入
}

// Queue 以 Redis 實作的持久化工作佇列 (ports.JobQueue)
//
// 同一 serial key (平台 + 玩家) 的工作嚴格依加入順序執行，
// 優先權只影響不同 serial key 之間的先後。
type Queue struct {
	rds    *redis.Client
	opts   Options
	logger *slog.Logger
}

var _ ports.JobQueue = (*Queue)(nil)

// NewQueue 建立 Redis 工作佇列
func NewQueue(rds *redis.Client, opts Options, logger *slog.Logger) *Queue {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = 6 * time.Minute
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{rds: rds, opts: opts, logger: logger.With("component", "job_queue")}
}

// Enqueue 實作 ports.JobQueue，同一 job id 重複加入會被忽略
func (q *Queue) Enqueue(ctx context.Context, job *domain.Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	res, err := q.rds.RunScript(ctx, enqueueScript,
		[]string{q.jobKey(job.ID), q.readyKey(job.Priority), fmt.Sprintf(keySeq, q.opts.Namespace, job.SerialKey())},
		job.ID, data, job.SerialKey(), string(job.Priority),
	)
	if err != nil {
		return fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}
	if seq, _ := res.(int64); seq == 0 {
		q.logger.Warn("duplicate enqueue ignored", "job_id", job.ID)
		return nil
	}

	q.wakeup(ctx)
	return nil
}

// Dequeue 實作 ports.JobQueue，回傳的工作 AttemptCount 已包含本次
func (q *Queue) Dequeue(ctx context.Context) (*domain.Job, error) {
	now := q.opts.Now()
	res, err := q.rds.RunScript(ctx, dequeueScript,
		[]string{
			q.readyKey(domain.PriorityHigh),
			q.readyKey(domain.PriorityDefault),
			fmt.Sprintf(keyInflight, q.opts.Namespace),
			fmt.Sprintf(keyDelayed, q.opts.Namespace),
		},
		now.UnixMilli(), now.Add(q.opts.LeaseTTL).UnixMilli(), q.opts.Namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("dequeue: %w", err)
	}
	if res == nil {
		return nil, domain.ErrQueueEmpty
	}

	values, ok := res.([]any)
	if !ok || len(values) != 3 {
		return nil, fmt.Errorf("dequeue: unexpected script result %v", res)
	}
	data, _ := values[1].(string)
	attempts, _ := values[2].(int64)

	job, err := decodeJob(data)
	if err != nil {
		return nil, err
	}
	job.State = domain.JobStateInProgress
	job.AttemptCount = int(attempts)
	job.UpdatedAt = now
	return job, nil
}

// Complete 實作 ports.JobQueue
func (q *Queue) Complete(ctx context.Context, job *domain.Job) error {
	if !job.State.IsTerminal() {
		return fmt.Errorf("complete job %s: state %s is not terminal", job.ID, job.State)
	}
	job.UpdatedAt = q.opts.Now()
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	res, err := q.rds.RunScript(ctx, completeScript,
		[]string{q.jobKey(job.ID), fmt.Sprintf(keyInflight, q.opts.Namespace)},
		job.ID, data, string(job.State), q.opts.Namespace, int64(q.opts.Retention/time.Second),
	)
	if err != nil {
		return fmt.Errorf("complete job %s: %w", job.ID, err)
	}
	released, _ := res.(int64)
	if released < 0 {
		return fmt.Errorf("complete job %s: %w", job.ID, domain.ErrJobNotFound)
	}
	if released > 0 {
		q.wakeup(ctx)
	}
	return nil
}

// Retry 實作 ports.JobQueue
func (q *Queue) Retry(ctx context.Context, job *domain.Job, delay time.Duration) error {
	now := q.opts.Now()
	job.State = domain.JobStateRetrying
	job.UpdatedAt = now
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	res, err := q.rds.RunScript(ctx, retryScript,
		[]string{q.jobKey(job.ID), fmt.Sprintf(keyInflight, q.opts.Namespace), fmt.Sprintf(keyDelayed, q.opts.Namespace)},
		job.ID, data, job.AttemptCount, now.Add(delay).UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("retry job %s: %w", job.ID, err)
	}
	if n, _ := res.(int64); n == 0 {
		return fmt.Errorf("retry job %s: %w", job.ID, domain.ErrJobNotFound)
	}
	return nil
}

// Get 實作 ports.JobQueue
func (q *Queue) Get(ctx context.Context, jobID string) (*domain.Job, error) {
	fields, err := q.rds.HGetAll(ctx, q.jobKey(jobID))
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrJobNotFound
	}

	job, err := decodeJob(fields["data"])
	if err != nil {
		return nil, err
	}
	if state := fields["state"]; state != "" {
		job.State = domain.JobState(state)
	}
	if attempts, err := strconv.Atoi(fields["attempts"]); err == nil {
		job.AttemptCount = attempts
	}
	return job, nil
}

// ReapExpired 實作 ports.JobQueue
func (q *Queue) ReapExpired(ctx context.Context) (int, error) {
	res, err := q.rds.RunScript(ctx, reapScript,
		[]string{fmt.Sprintf(keyInflight, q.opts.Namespace)},
		q.opts.Now().UnixMilli(), q.opts.Namespace,
	)
	if err != nil {
		return 0, fmt.Errorf("reap expired: %w", err)
	}
	n, _ := res.(int64)
	if n > 0 {
		q.logger.Warn("requeued jobs with expired lease", "count", n)
		q.wakeup(ctx)
	}
	return int(n), nil
}

// Wakeups 實作 ports.JobQueue，訂閱失敗時回傳的 channel 不會收到通知 (呼叫端仍會輪詢)
func (q *Queue) Wakeups(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	err := q.rds.Subscribe(ctx, fmt.Sprintf(keyWakeup, q.opts.Namespace), func(string) {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	if err != nil {
		q.logger.Warn("wakeup subscription failed; falling back to polling", "error", err)
	}
	return ch
}

// Depth 各佇列目前的長度
func (q *Queue) Depth(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, 4)
	for _, p := range domain.Priorities() {
		n, err := q.rds.LLen(ctx, q.readyKey(p))
		if err != nil {
			return nil, err
		}
		out["ready_"+string(p)] = n
	}
	for name, key := range map[string]string{
		"inflight": fmt.Sprintf(keyInflight, q.opts.Namespace),
		"delayed":  fmt.Sprintf(keyDelayed, q.opts.Namespace),
	} {
		n, err := q.rds.ZCard(ctx, key)
		if err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, nil
}

func (q *Queue) wakeup(ctx context.Context) {
	if err := q.rds.Publish(ctx, fmt.Sprintf(keyWakeup, q.opts.Namespace), "1"); err != nil {
		q.logger.Debug("publish wakeup failed", "error", err)
	}
}

func (q *Queue) jobKey(id string) string {
	return fmt.Sprintf(keyJob, q.opts.Namespace, id)
}

func (q *Queue) readyKey(p domain.Priority) string {
	return fmt.Sprintf(keyReady, q.opts.Namespace, string(p))
}

func decodeJob(data string) (*domain.Job, error) {
	if data == "" {
		return nil, errors.New("job payload missing")
	}
	var job domain.Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}
