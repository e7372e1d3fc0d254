package xhook

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ScheduleState 周期任务条目的状态拷贝。
type ScheduleState struct {
	ID       ID     `yaml:"id"`
	Interval uint64 `yaml:"interval_ms"`
	NextFire uint64 `yaml:"next_fire"`
	Active   bool   `yaml:"active"`
}

// ReactionState 反应条目的状态拷贝。
type ReactionState struct {
	ID            ID     `yaml:"id"`
	Timeout       uint64 `yaml:"timeout_ms"`
	Delay         uint64 `yaml:"delay_ms"`
	NextCheck     uint64 `yaml:"next_trigger_check"`
	NextExecution uint64 `yaml:"next_execution"`
	Pending       bool   `yaml:"pending"`
	TriggerActive bool   `yaml:"trigger_active"`
}

// Snapshot 引擎表状态的只读拷贝。
//
// Begun 为 false 时，NextFire/NextCheck 仍是相对初始延迟。
type Snapshot struct {
	Engine    string          `yaml:"engine"`
	Variant   string          `yaml:"variant"`
	Begun     bool            `yaml:"begun"`
	Epoch     uint64          `yaml:"epoch"`
	Now       uint64          `yaml:"now"`
	Schedules []ScheduleState `yaml:"schedules"`
	Reactions []ReactionState `yaml:"reactions"`
}

// YAML 将快照编码为 YAML。
func (s Snapshot) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("xhook: marshal snapshot: %w", err)
	}
	return data, nil
}
