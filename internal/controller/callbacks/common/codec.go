package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MasloRich/Beauty-bot/internal/booking"
)

// Префиксы данных кнопок по разделам
const (
	PrefixBooking = "bk:"
	PrefixClient  = "cl:"
	PrefixMaster  = "ms:"
	PrefixAdmin   = "ad:"
)

// Действия клиента
const (
	ClientMenu       = "cl:menu"
	ClientList       = "cl:list"
	ClientAbout      = "cl:about"
	ClientContacts   = "cl:contacts"
	ClientView       = "view"   // cl:view:123
	ClientCancel     = "cancel" // cl:cancel:123 - запрос подтверждения
	ClientCancelSure = "sure"   // cl:sure:123
)

// Действия мастера
const (
	MasterPanel    = "ms:panel"
	MasterPending  = "ms:pending"
	MasterUpcoming = "ms:upcoming"
	MasterConfirm  = "confirm"  // ms:confirm:123
	MasterReject   = "reject"   // ms:reject:123
	MasterComplete = "complete" // ms:complete:123
)

// Действия администратора
const (
	AdminPage   = "ad:page:"
	AdminToggle = "toggle" // ad:toggle:123
)

// Action данные кнопки вида prefix + name + ":" + id
func Action(prefix, name string, id int64) string {
	return prefix + name + ":" + strconv.FormatInt(id, 10)
}

// ParseAction разбирает данные кнопки, созданные Action
func ParseAction(data string) (prefix, name string, id int64, err error) {
	if len(data) < 3 {
		return "", "", 0, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	prefix, rest := data[:3], data[3:]

	name, rawID, ok := strings.Cut(rest, ":")
	if !ok || name == "" {
		return "", "", 0, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}

	id, err = strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return "", "", 0, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return prefix, name, id, nil
}

// ParsePage номер страницы из данных вида "ad:page:2"
func ParsePage(data, prefix string) (int, error) {
	raw, ok := strings.CutPrefix(data, prefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return page, nil
}

// EncodeBookingEvent данные кнопки для события диалога записи:
// bk:choose:<step>:<token> для выбора, bk:<kind> для остальных
func EncodeBookingEvent(ev booking.Event) string {
	if ev.Kind == booking.EventChoose {
		return PrefixBooking + string(ev.Kind) + ":" + string(ev.Step) + ":" + ev.Token
	}
	return PrefixBooking + string(ev.Kind)
}

// DecodeBookingEvent обратное к EncodeBookingEvent. Токен может содержать двоеточие (время 14:30)
func DecodeBookingEvent(data string) (booking.Event, error) {
	rest, ok := strings.CutPrefix(data, PrefixBooking)
	if !ok {
		return booking.Event{}, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}

	parts := strings.SplitN(rest, ":", 3)
	kind := booking.EventKind(parts[0])

	switch kind {
	case booking.EventChoose:
		if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
			return booking.Event{}, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
		}
		return booking.Event{Kind: kind, Step: booking.Step(parts[1]), Token: parts[2]}, nil
	case booking.EventStart, booking.EventBack, booking.EventCancel, booking.EventConfirm, booking.EventRefresh:
		if len(parts) != 1 {
			return booking.Event{}, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
		}
		return booking.Event{Kind: kind}, nil
	}

	return booking.Event{}, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
}
