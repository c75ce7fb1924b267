package object

// lazy 是一个只计算一次的单元格，错误也会被缓存
// Reader 只在单个 goroutine 内使用，因此不加锁
type lazy[T any] struct {
	done bool
	val  T
	err  error
}

func (l *lazy[T]) get(compute func() (T, error)) (T, error) {
	if !l.done {
		l.val, l.err = compute()
		l.done = true
	}
	return l.val, l.err
}

func (l *lazy[T]) ok() bool { return l.done && l.err == nil }
