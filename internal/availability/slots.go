// Package availability вычисляет свободные времена начала записи
// из рабочих окон мастера и уже занятых интервалов.
package availability

import (
	"iter"
	"time"
)

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps проверяет РЕАЛЬНОЕ пересечение интервалов.
// Интервалы, которые граничат (один заканчивается там, где начинается другой), не пересекаются.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Candidates возвращает ленивую последовательность времён начала внутри окна.
//
// Кандидаты идут от начала окна с шагом step. Кандидат отбрасывается, если
// [t, t+duration) выходит за конец окна, пересекается с занятым интервалом
// или начинается раньше notBefore. Последовательность можно обходить повторно.
func Candidates(window Interval, busy []Interval, duration, step time.Duration, notBefore time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if duration <= 0 || step <= 0 {
			return
		}

		for start := window.Start; !start.Add(duration).After(window.End); start = start.Add(step) {
			if start.Before(notBefore) {
				continue
			}

			candidate := Interval{Start: start, End: start.Add(duration)}
			if overlapsAny(candidate, busy) {
				continue
			}

			if !yield(start) {
				return
			}
		}
	}
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
