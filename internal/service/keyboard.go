package service

import "github.com/giovannimartelli/AlbertQuackmore/internal/model"

type identifiable interface {
	GetID() string
	GetName() string
}

// inlineKeyboardRowsFrom builds inline keyboard rows from a slice of
// named entities. Each button carries "<callbackName>:<id>" as its data.
func inlineKeyboardRowsFrom[T identifiable](data []T, callbackName string, elementLimitPerRow int) []InlineKeyboardRow {
	inlineKeyboardRows := make([]InlineKeyboardRow, 0)

	var currentRow InlineKeyboardRow
	for i, entry := range data {
		currentRow.Buttons = append(currentRow.Buttons, InlineKeyboardButton{
			Text: entry.GetName(),
			Data: callbackData(callbackName, entry.GetID()),
		})

		// When row is full or we're at the last data item, append row
		if len(currentRow.Buttons) == elementLimitPerRow || i == len(data)-1 {
			inlineKeyboardRows = append(inlineKeyboardRows, currentRow)
			currentRow = InlineKeyboardRow{} // Reset current row
		}
	}

	return inlineKeyboardRows
}

// withBackRow appends the shared back navigation row to an inline keyboard.
func withBackRow(rows []InlineKeyboardRow) []InlineKeyboardRow {
	return append(rows, backInlineRow())
}

func backInlineRow() InlineKeyboardRow {
	return InlineKeyboardRow{
		Buttons: []InlineKeyboardButton{
			{Text: model.BotBackButton, Data: model.BackCallback},
		},
	}
}
