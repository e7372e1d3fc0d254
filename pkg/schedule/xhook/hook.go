package xhook

import "strconv"

// ID 条目标识，即条目在表中的下标。
type ID int

// InvalidID 添加失败时返回的哨兵值。
const InvalidID ID = -1

// Action 动作回调接口。
type Action interface {
	// Run 执行动作。必须尽快返回，不得阻塞。
	Run()
}

// ActionFunc 函数适配器，将普通函数转换为 [Action] 接口。
type ActionFunc func()

// Run 实现 [Action] 接口。
func (f ActionFunc) Run() {
	f()
}

// Predicate 触发条件接口。
type Predicate interface {
	// Triggered 返回 true 表示触发。必须尽快返回，不得阻塞。
	Triggered() bool
}

// PredicateFunc 函数适配器，将普通函数转换为 [Predicate] 接口。
type PredicateFunc func() bool

// Triggered 实现 [Predicate] 接口。
func (f PredicateFunc) Triggered() bool {
	return f()
}

// IsNilAction 报告 a 是否不可调用：nil 接口或 nil 的 [ActionFunc]。
func IsNilAction(a Action) bool {
	switch f := a.(type) {
	case nil:
		return true
	case ActionFunc:
		return f == nil
	default:
		return false
	}
}

// IsNilPredicate 报告 p 是否不可调用：nil 接口或 nil 的 [PredicateFunc]。
func IsNilPredicate(p Predicate) bool {
	switch f := p.(type) {
	case nil:
		return true
	case PredicateFunc:
		return f == nil
	default:
		return false
	}
}

// Kind 条目类型。
type Kind uint8

const (
	// KindSchedule 周期任务。
	KindSchedule Kind = iota
	// KindReaction 触发式反应。
	KindReaction
)

// String 返回 Kind 的可读字符串表示。
func (k Kind) String() string {
	switch k {
	case KindSchedule:
		return "schedule"
	case KindReaction:
		return "reaction"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}
