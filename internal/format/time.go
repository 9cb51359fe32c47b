// Package format русские подписи для дат, цен и статусов записей.
package format

import (
	"fmt"
	"time"
)

var weekdays = []string{"воскресенье", "понедельник", "вторник", "среда", "четверг", "пятница", "суббота"}

var weekdaysShort = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// месяцы в родительном падеже: "12 марта"
var monthsGenitive = map[time.Month]string{
	time.January:   "января",
	time.February:  "февраля",
	time.March:     "марта",
	time.April:     "апреля",
	time.May:       "мая",
	time.June:      "июня",
	time.July:      "июля",
	time.August:    "августа",
	time.September: "сентября",
	time.October:   "октября",
	time.November:  "ноября",
	time.December:  "декабря",
}

// DateTime 12.03.2025 14:00
func DateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// Date 12.03.2025
func Date(t time.Time) string {
	return t.Format("02.01.2006")
}

// Clock 14:00
func Clock(t time.Time) string {
	return t.Format("15:04")
}

// TimeRange 14:00–15:30
func TimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s–%s", Clock(start), Clock(end))
}

// DayButton подпись кнопки даты: "Ср, 12 марта"
func DayButton(t time.Time) string {
	return fmt.Sprintf("%s, %d %s", weekdaysShort[t.Weekday()], t.Day(), monthsGenitive[t.Month()])
}

// DayLong "среда, 12 марта"
func DayLong(t time.Time) string {
	return fmt.Sprintf("%s, %d %s", weekdays[t.Weekday()], t.Day(), monthsGenitive[t.Month()])
}

// Duration длительность в минутах: "45 мин", "2 ч", "1 ч 30 мин"
func Duration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}
