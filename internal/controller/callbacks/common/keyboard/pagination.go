package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// Noop данные кнопки без действия
const Noop = "noop"

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "ad:page:")
// currentPage - текущая страница (0-based)
// totalPages - всего страниц
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	buttons = append(buttons, Button(
		fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages),
		Noop,
	))

	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	buttons := PaginationButtons(prefix, currentPage, totalPages)
	if len(buttons) > 0 {
		b.Row(buttons...)
	}
	return b
}

// Page возвращает границы страницы page и общее число страниц.
// page вне диапазона приводится к ближайшей существующей
func Page(total, perPage, page int) (from, to, current, pages int) {
	if perPage <= 0 {
		perPage = total
	}
	if total == 0 || perPage == 0 {
		return 0, 0, 0, 1
	}

	pages = (total + perPage - 1) / perPage
	current = max(0, min(page, pages-1))
	from = current * perPage
	to = min(from+perPage, total)
	return from, to, current, pages
}
