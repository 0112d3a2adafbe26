package service

import (
	"ai_tutor_backend/internal/util"
	"ai_tutor_backend/pkg/logger"
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerationLock 按课程 ID 互斥，保证同一课程同时只有一个生成任务
type GenerationLock interface {
	// TryAcquire 已被占用时返回 false
	TryAcquire(ctx context.Context, courseID uint) (bool, error)
	Release(ctx context.Context, courseID uint) error
}

// MemoryLock 单实例部署使用
type MemoryLock struct {
	mu   sync.Mutex
	held map[uint]struct{}
}

func NewMemoryLock() *MemoryLock {
	return &MemoryLock{held: make(map[uint]struct{})}
}

func (l *MemoryLock) TryAcquire(_ context.Context, courseID uint) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[courseID]; ok {
		return false, nil
	}
	l.held[courseID] = struct{}{}
	return true, nil
}

func (l *MemoryLock) Release(_ context.Context, courseID uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, courseID)
	return nil
}

// 仅删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLock 多实例部署使用，SETNX + TTL，进程崩溃后锁自动过期
type RedisLock struct {
	client *redis.Client
	ttl    time.Duration
	owner  string
}

func NewRedisLock(client *redis.Client, ttl time.Duration) *RedisLock {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisLock{client: client, ttl: ttl, owner: uuid.NewString()}
}

func (l *RedisLock) key(courseID uint) string {
	return "course_generation_lock:" + strconv.FormatUint(uint64(courseID), 10)
}

func (l *RedisLock) TryAcquire(ctx context.Context, courseID uint) (bool, error) {
	return l.client.SetNX(ctx, l.key(courseID), l.owner, l.ttl).Result()
}

func (l *RedisLock) Release(ctx context.Context, courseID uint) error {
	return releaseScript.Run(ctx, l.client, []string{l.key(courseID)}, l.owner).Err()
}

// GenerationTask 后台生成任务
type GenerationTask struct {
	CourseID uint
	Run      func(ctx context.Context) error
	// OnFailure Run 返回错误或 panic 后调用
	OnFailure func(err error)
}

// GenerationExecutor 后台执行课程生成任务，关闭时取消根 context 并等待任务退出
type GenerationExecutor struct {
	lock   GenerationLock
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGenerationExecutor(lock GenerationLock) *GenerationExecutor {
	if lock == nil {
		lock = NewMemoryLock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &GenerationExecutor{lock: lock, ctx: ctx, cancel: cancel}
}

// Acquire 获取课程锁，返回释放函数；已有任务运行时返回 ErrGenerationInProgress
func (e *GenerationExecutor) Acquire(ctx context.Context, courseID uint) (func(), error) {
	ok, err := e.lock.TryAcquire(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrGenerationInProgress
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			// 释放不受请求或根 context 取消影响
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.lock.Release(releaseCtx, courseID); err != nil {
				logger.Log.Warn("Failed to release generation lock",
					zap.Uint("course_id", courseID),
					zap.Error(err),
				)
			}
		})
	}, nil
}

// Go 在后台运行已持有锁的任务，结束时释放锁
func (e *GenerationExecutor) Go(task GenerationTask, release func()) {
	taskID := uuid.NewString()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer release()

		log := logger.Log.With(zap.String("task_id", taskID), zap.Uint("course_id", task.CourseID))
		log.Info("Course generation task started")

		err := e.run(task)
		if err != nil {
			log.Error("Course generation task failed", zap.Error(err))
			if task.OnFailure != nil {
				task.OnFailure(err)
			}
			return
		}
		log.Info("Course generation task finished")
	}()
}

func (e *GenerationExecutor) run(task GenerationTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in generation task: %v\n%s", r, debug.Stack())
		}
	}()
	return task.Run(e.ctx)
}

// Submit 获取锁并在后台运行
func (e *GenerationExecutor) Submit(ctx context.Context, task GenerationTask) error {
	release, err := e.Acquire(ctx, task.CourseID)
	if err != nil {
		return err
	}
	e.Go(task, release)
	return nil
}

// Wait 等待所有任务结束，测试中使用
func (e *GenerationExecutor) Wait() {
	e.wg.Wait()
}

// Shutdown 取消运行中的任务并等待退出，超时返回 ctx 错误
func (e *GenerationExecutor) Shutdown(ctx context.Context) error {
	e.cancel()
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
