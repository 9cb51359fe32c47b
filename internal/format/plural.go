package format

// Plural выбирает форму слова для числа: one (1 запись), few (2 записи), many (5 записей)
func Plural(count int, one, few, many string) string {
	if count < 0 {
		count = -count
	}
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// Appointments склонение слова "запись"
func Appointments(count int) string {
	return Plural(count, "запись", "записи", "записей")
}
