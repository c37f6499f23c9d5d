package desensitize

import "sync"

// Hook 按添加顺序执行的一组脱敏规则
type Hook struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewHook 创建脱敏钩子
func NewHook(rules ...Rule) *Hook {
	h := &Hook{}
	h.Add(rules...)
	return h
}

// Add 添加规则，同名规则会被替换
func (h *Hook) Add(rules ...Rule) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range rules {
		if r == nil {
			continue
		}
		replaced := false
		for i, existing := range h.rules {
			if existing.Name() == r.Name() {
				h.rules[i] = r
				replaced = true
				break
			}
		}
		if !replaced {
			h.rules = append(h.rules, r)
		}
	}
}

// Remove 移除规则
func (h *Hook) Remove(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, r := range h.rules {
		if r.Name() == name {
			h.rules = append(h.rules[:i], h.rules[i+1:]...)
			return true
		}
	}
	return false
}

// Len 返回规则数量
func (h *Hook) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rules)
}

// Desensitize 依次应用所有规则
func (h *Hook) Desensitize(s string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, r := range h.rules {
		s = r.Process(s)
	}
	return s
}
