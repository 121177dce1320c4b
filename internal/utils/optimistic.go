package utils

// ApplyOptimistic выполняет двухфазное оптимистичное обновление:
// снимок текущего состояния, применение предполагаемого состояния,
// сетевой вызов, и при его неудаче — восстановление снимка.
// apply обязан быть идемпотентным и потокобезопасным: он вызывается
// и для применения tentative, и для отката к snapshot.
func ApplyOptimistic[T any](snapshot, tentative T, apply func(T), effect func() error) error {
	apply(tentative)
	if err := effect(); err != nil {
		apply(snapshot)
		return err
	}
	return nil
}
