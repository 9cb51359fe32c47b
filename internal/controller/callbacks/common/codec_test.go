package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MasloRich/Beauty-bot/internal/booking"
)

func TestBookingEventCodec(t *testing.T) {
	events := []booking.Event{
		{Kind: booking.EventStart},
		{Kind: booking.EventBack},
		{Kind: booking.EventCancel},
		{Kind: booking.EventConfirm},
		{Kind: booking.EventRefresh},
		{Kind: booking.EventChoose, Step: booking.StepChoosingMaster, Token: "12"},
		{Kind: booking.EventChoose, Step: booking.StepChoosingDate, Token: "2024-01-20"},
		{Kind: booking.EventChoose, Step: booking.StepChoosingTime, Token: "14:30"},
	}

	for _, ev := range events {
		data := EncodeBookingEvent(ev)
		assert.LessOrEqual(t, len(data), 64, "telegram callback data limit")

		got, err := DecodeBookingEvent(data)
		require.NoError(t, err, data)
		assert.Equal(t, ev, got)
	}
}

func TestDecodeBookingEvent_Invalid(t *testing.T) {
	for _, data := range []string{
		"",
		"bk:",
		"bk:unknown",
		"bk:choose",
		"bk:choose:choosing_time",
		"bk:choose::14:00",
		"bk:back:extra",
		"ms:confirm:1",
	} {
		_, err := DecodeBookingEvent(data)
		assert.ErrorIs(t, err, ErrInvalidFormat, data)
	}
}

func TestAction(t *testing.T) {
	data := Action(PrefixMaster, MasterConfirm, 42)
	assert.Equal(t, "ms:confirm:42", data)

	prefix, name, id, err := ParseAction(data)
	require.NoError(t, err)
	assert.Equal(t, PrefixMaster, prefix)
	assert.Equal(t, MasterConfirm, name)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"ms", "ms:confirm", "ms::1", "ms:confirm:x", "ms:confirm:-3"} {
		_, _, _, err := ParseAction(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}

func TestParsePage(t *testing.T) {
	page, err := ParsePage("ad:page:3", AdminPage)
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	_, err = ParsePage("ad:page:-1", AdminPage)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParsePage("cl:list", AdminPage)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
