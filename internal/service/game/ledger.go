package game

import "math/rand"

// RevealLedger 记录已翻开的格子和各自的揭示结果。
// 每个格子一局内最多翻开一次，Reset 时整体清空。
type RevealLedger struct {
	cells map[int]string
}

func NewRevealLedger() *RevealLedger {
	return &RevealLedger{
		cells: make(map[int]string),
	}
}

func (l *RevealLedger) Revealed(cell int) bool {
	_, ok := l.cells[cell]
	return ok
}

// Reveal 记录格子的揭示结果，重复翻开返回 false
func (l *RevealLedger) Reveal(cell int, outcome string) bool {
	if l.Revealed(cell) {
		return false
	}

	l.cells[cell] = outcome

	return true
}

func (l *RevealLedger) Outcome(cell int) (string, bool) {
	outcome, ok := l.cells[cell]
	return outcome, ok
}

// Snapshot 返回已揭示格子的拷贝
func (l *RevealLedger) Snapshot() map[int]string {
	snapshot := make(map[int]string, len(l.cells))

	for cell, outcome := range l.cells {
		snapshot[cell] = outcome
	}

	return snapshot
}

func (l *RevealLedger) Size() int {
	return len(l.cells)
}

func (l *RevealLedger) Clear() {
	l.cells = make(map[int]string)
}

// DrawOutcome 按固定权重抽取格子的揭示结果：
// 25% 苹果，45% 手枪，30% 骷髅。
// 抽取必须发生在引擎内部，所有观察者看到同一结果。
func DrawOutcome() string {
	roll := rand.Float64() * 100

	switch {
	case roll < 25:
		return OUTCOME_APPLE
	case roll < 70:
		return OUTCOME_GUN
	default:
		return OUTCOME_SKULL
	}
}
