package telegram

import (
	"strconv"

	"prodreport-be/internal/dto"
)

// Update is the subset of Telegram's update object the bot consumes.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// ParseUpdate maps an update to the engine's inbound event. Updates the bot
// does not understand (joins, edits, stickers) map to nil.
func ParseUpdate(u *Update) *dto.InboundEvent {
	switch {
	case u.CallbackQuery != nil:
		return &dto.InboundEvent{
			UserID:  strconv.FormatInt(u.CallbackQuery.From.ID, 10),
			Kind:    dto.KindButtonPress,
			Payload: u.CallbackQuery.Data,
		}
	case u.Message != nil && u.Message.Text != "":
		userID := u.Message.Chat.ID
		if u.Message.From != nil {
			userID = u.Message.From.ID
		}
		return &dto.InboundEvent{
			UserID:  strconv.FormatInt(userID, 10),
			Kind:    dto.KindTextMessage,
			Payload: u.Message.Text,
		}
	}
	return nil
}

// RenderKeyboard lays prompt options out as an inline keyboard, two buttons
// per row so long client names still fit on a phone screen.
func RenderKeyboard(prompt *dto.Prompt) *InlineKeyboardMarkup {
	if len(prompt.Options) == 0 {
		return nil
	}

	const perRow = 2
	markup := &InlineKeyboardMarkup{}
	var row []InlineKeyboardButton
	for _, opt := range prompt.Options {
		row = append(row, InlineKeyboardButton{
			Text:         opt.Label,
			CallbackData: opt.Token,
		})
		if len(row) == perRow {
			markup.InlineKeyboard = append(markup.InlineKeyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		markup.InlineKeyboard = append(markup.InlineKeyboard, row)
	}
	return markup
}
