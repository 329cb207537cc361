package domain

import (
	"fmt"
	"time"
)

// ActionState — состояние имитируемой операции страницы (скан, генерация).
// Единственный допустимый путь: idle -> in_progress -> complete.
// Повторный запуск из complete снова переводит в in_progress.
type ActionState int

const (
	ActionIdle ActionState = iota
	ActionInProgress
	ActionComplete
)

func (s ActionState) String() string {
	switch s {
	case ActionIdle:
		return "idle"
	case ActionInProgress:
		return "in_progress"
	case ActionComplete:
		return "complete"
	default:
		return fmt.Sprintf("ActionState(%d)", int(s))
	}
}

func (s ActionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ActionState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = ActionIdle
	case "in_progress":
		*s = ActionInProgress
	case "complete":
		*s = ActionComplete
	default:
		return fmt.Errorf("unknown action state %q", string(b))
	}
	return nil
}

// Action хранит состояние одной имитируемой операции.
// Флаги "в процессе" и "готово" выводятся из State, поэтому
// комбинация complete && in_progress непредставима.
type Action struct {
	State     ActionState `json:"state"`
	StartedAt time.Time   `json:"started_at,omitzero"`
	DoneAt    time.Time   `json:"done_at,omitzero"`
	// Runs растет на каждом запуске; по нему таймер понимает, что завершает свой запуск.
	Runs uint64 `json:"runs"`
}

func (a *Action) InProgress() bool { return a.State == ActionInProgress }
func (a *Action) Complete() bool   { return a.State == ActionComplete }

// Begin переводит операцию в in_progress и возвращает номер запуска.
// ok == false, если операция уже выполняется.
func (a *Action) Begin(now time.Time) (run uint64, ok bool) {
	if a.State == ActionInProgress {
		return 0, false
	}
	a.Runs++
	a.State = ActionInProgress
	a.StartedAt = now
	a.DoneAt = time.Time{}
	return a.Runs, true
}

// Finish завершает запуск run. Повторный вызов или вызов для устаревшего
// запуска ничего не меняет, так что переход в complete происходит ровно один раз.
func (a *Action) Finish(run uint64, now time.Time) bool {
	if a.State != ActionInProgress || a.Runs != run {
		return false
	}
	a.State = ActionComplete
	a.DoneAt = now
	return true
}
