package keyboard

import "github.com/go-telegram/bot/models"

// BackButton создаёт кнопку "Назад"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Назад", callbackData)
}

// MenuButton создаёт кнопку "В главное меню"
func MenuButton(callbackData string) models.InlineKeyboardButton {
	return Button("🏠 В главное меню", callbackData)
}

// YesNoButtons создаёт ряд с кнопками Да/Нет
func YesNoButtons(yesCallback, noCallback string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		Button("✅ Да", yesCallback),
		Button("❌ Нет", noCallback),
	}
}

// AddBackButton добавляет кнопку "Назад" к builder
func (b *Builder) AddBackButton(callbackData string) *Builder {
	return b.Row(BackButton(callbackData))
}

// AddMenuButton добавляет кнопку "В главное меню" к builder
func (b *Builder) AddMenuButton(callbackData string) *Builder {
	return b.Row(MenuButton(callbackData))
}
