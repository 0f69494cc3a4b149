// Пакет scan — опрос сканера отпечатков до результата.
//
// Жизненный цикл одного сканирования:
//
//	idle → polling → success | timeout | cancelled | error
//
// Конечные состояния необратимы. Потокобезопасен через sync.RWMutex:
// Run выполняется в одной горутине, Snapshot читается из любых.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bigkaa/devicehub/internal/domain/model"
)

// State — состояние сканирования.
type State string

const (
	StateIdle      State = "idle"
	StatePolling   State = "polling"
	StateSucceeded State = "success"
	StateTimedOut  State = "timeout"
	StateCancelled State = "cancelled"
	StateFailed    State = "error"
)

// DefaultMaxAttempts — число попыток по умолчанию.
const DefaultMaxAttempts = 20

// Terminal сообщает, является ли состояние конечным.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateTimedOut, StateCancelled, StateFailed:
		return true
	default:
		return false
	}
}

// validTransitions — матрица допустимых переходов.
var validTransitions = map[State]map[State]bool{
	StateIdle: {StatePolling: true, StateCancelled: true},
	StatePolling: {
		StateSucceeded: true,
		StateTimedOut:  true,
		StateCancelled: true,
		StateFailed:    true,
	},
}

// Reader — источник отдельных попыток чтения (fpclient.Client).
type Reader interface {
	Capture(ctx context.Context, quality int) (model.FingerprintReading, error)
}

// Snapshot — копия состояния сканирования на момент вызова.
type Snapshot struct {
	State       State
	Attempt     int
	MaxAttempts int
	Reading     model.FingerprintReading
	Err         error
	StartedAt   time.Time
	FinishedAt  time.Time
	// CaptureTime — время от начала опроса до успешного чтения
	CaptureTime time.Duration
}

// Scan — одно сканирование.
type Scan struct {
	mu          sync.RWMutex
	state       State
	maxAttempts int
	attempt     int
	reading     model.FingerprintReading
	err         error
	startedAt   time.Time
	finishedAt  time.Time
	captureTime time.Duration

	now func() time.Time
}

// New создаёт сканирование в состоянии idle.
// maxAttempts <= 0 заменяется на DefaultMaxAttempts.
func New(maxAttempts int) *Scan {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Scan{
		state:       StateIdle,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// State возвращает текущее состояние.
func (s *Scan) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot возвращает копию состояния.
func (s *Scan) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Scan) snapshotLocked() Snapshot {
	return Snapshot{
		State:       s.state,
		Attempt:     s.attempt,
		MaxAttempts: s.maxAttempts,
		Reading:     s.reading,
		Err:         s.err,
		StartedAt:   s.startedAt,
		FinishedAt:  s.finishedAt,
		CaptureTime: s.captureTime,
	}
}

// Run опрашивает reader, пока не получен результат "1", не исчерпаны
// попытки или не отменён ctx. Попытки идут подряд, без задержки.
//
// observe, если задан, вызывается после каждой попытки.
// Возвращает итоговый снимок. error — только если сканирование уже запускалось.
func (s *Scan) Run(ctx context.Context, reader Reader, quality int, observe func(Snapshot)) (Snapshot, error) {
	s.mu.Lock()
	if err := s.transitionLocked(StatePolling); err != nil {
		s.mu.Unlock()
		return s.Snapshot(), err
	}
	s.startedAt = s.now()
	s.mu.Unlock()

	for {
		if ctx.Err() != nil {
			return s.finish(StateCancelled, nil), nil
		}

		s.mu.Lock()
		s.attempt++
		attempt := s.attempt
		s.mu.Unlock()

		reading, err := reader.Capture(ctx, quality)

		// Отмена важнее любого ответа устройства
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return s.finish(StateCancelled, nil), nil
		}
		if err != nil {
			return s.finish(StateFailed, err), nil
		}

		s.mu.Lock()
		s.reading = reading
		snap := s.snapshotLocked()
		s.mu.Unlock()

		if observe != nil {
			observe(snap)
		}

		if reading.Success() {
			return s.finish(StateSucceeded, nil), nil
		}
		if attempt >= s.maxAttempts {
			return s.finish(StateTimedOut, nil), nil
		}
	}
}

// Cancel переводит ещё не запущенное сканирование в cancelled.
// Для запущенного сканирования отменяется ctx, переданный в Run.
func (s *Scan) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.transitionLocked(StateCancelled); err != nil {
		return err
	}
	s.finishedAt = s.now()
	return nil
}

func (s *Scan) finish(target State, cause error) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Переход из polling в конечное состояние всегда допустим
	_ = s.transitionLocked(target)
	s.err = cause
	s.finishedAt = s.now()
	if target == StateSucceeded {
		s.captureTime = s.finishedAt.Sub(s.startedAt)
	}
	return s.snapshotLocked()
}

func (s *Scan) transitionLocked(target State) error {
	if !validTransitions[s.state][target] {
		return &TransitionError{
			Code:    "INVALID_TRANSITION",
			Message: fmt.Sprintf("переход %s → %s недопустим", s.state, target),
		}
	}
	s.state = target
	return nil
}

// TransitionError — ошибка перехода между состояниями сканирования.
type TransitionError struct {
	Code    string
	Message string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
