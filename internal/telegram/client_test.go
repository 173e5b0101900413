package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/golang/mock/gomock"
	"github.com/takak2166/notion2telegram/internal/telegram/mock_telegram"
)

const chatID int64 = -1001234567890

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		chatID int64
	}{
		{name: "Missing token", chatID: chatID},
		{name: "Missing chat", token: "123:abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.token, tt.chatID); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		setupMocks  func(bot *mock_telegram.MockBotAPI)
		expectedID  int
		expectError bool
		parseOffset int
	}{
		"Success": {
			setupMocks: func(bot *mock_telegram.MockBotAPI) {
				bot.EXPECT().Send(gomock.Any()).DoAndReturn(func(c tgbotapi.Chattable) (tgbotapi.Message, error) {
					msg, ok := c.(tgbotapi.MessageConfig)
					if !ok {
						t.Fatalf("Expected MessageConfig, got %T", c)
					}
					if msg.ChatID != chatID || msg.Text != "*Hello*" {
						t.Errorf("Unexpected message %+v", msg)
					}
					if msg.ParseMode != tgbotapi.ModeMarkdownV2 || !msg.DisableWebPagePreview {
						t.Errorf("Expected MarkdownV2 without preview, got %q %v", msg.ParseMode, msg.DisableWebPagePreview)
					}
					return tgbotapi.Message{MessageID: 77}, nil
				})
			},
			expectedID: 77,
		},
		"Failure - Markup rejected": {
			setupMocks: func(bot *mock_telegram.MockBotAPI) {
				bot.EXPECT().Send(gomock.Any()).Return(tgbotapi.Message{}, &tgbotapi.Error{
					Code:    400,
					Message: "Bad Request: can't parse entities: Character '.' is reserved and must be escaped with the preceding '\\' at byte offset 42",
				})
			},
			expectError: true,
			parseOffset: 42,
		},
		"Failure - Network": {
			setupMocks: func(bot *mock_telegram.MockBotAPI) {
				bot.EXPECT().Send(gomock.Any()).Return(tgbotapi.Message{}, errors.New("connection reset"))
			},
			expectError: true,
			parseOffset: -1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			bot := mock_telegram.NewMockBotAPI(ctrl)
			tt.setupMocks(bot)
			client := NewWithBot(bot, chatID)

			id, err := client.Send(ctx, "*Hello*")
			if !tt.expectError {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if id != tt.expectedID {
					t.Errorf("Expected message %d, got %d", tt.expectedID, id)
				}
				return
			}

			if err == nil {
				t.Fatal("Expected error but got nil")
			}
			pe, ok := AsParseError(err)
			if tt.parseOffset < 0 {
				if ok {
					t.Errorf("Did not expect a parse error, got %v", pe)
				}
				return
			}
			if !ok {
				t.Fatalf("Expected parse error, got %v", err)
			}
			if pe.Offset != tt.parseOffset {
				t.Errorf("Expected offset %d, got %d", tt.parseOffset, pe.Offset)
			}
		})
	}
}

func TestSendCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewWithBot(mock_telegram.NewMockBotAPI(ctrl), chatID)
	if _, err := client.Send(ctx, "text"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestEdit(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		err         error
		expectError bool
	}{
		"Success":      {},
		"Not modified": {err: &tgbotapi.Error{Code: 400, Message: "Bad Request: message is not modified: specified new message content and reply markup are exactly the same"}},
		"Not found": {
			err:         &tgbotapi.Error{Code: 400, Message: "Bad Request: message to edit not found"},
			expectError: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			bot := mock_telegram.NewMockBotAPI(ctrl)
			bot.EXPECT().Request(gomock.Any()).DoAndReturn(func(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
				edit, ok := c.(tgbotapi.EditMessageTextConfig)
				if !ok {
					t.Fatalf("Expected EditMessageTextConfig, got %T", c)
				}
				if edit.MessageID != 5 || edit.ChatID != chatID || edit.ParseMode != tgbotapi.ModeMarkdownV2 {
					t.Errorf("Unexpected edit %+v", edit)
				}
				if tt.err != nil {
					return nil, tt.err
				}
				return &tgbotapi.APIResponse{Ok: true}, nil
			})

			err := NewWithBot(bot, chatID).Edit(ctx, 5, "new text")
			if tt.expectError != (err != nil) {
				t.Errorf("Edit() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestPinUnpinDelete(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	bot := mock_telegram.NewMockBotAPI(ctrl)
	client := NewWithBot(bot, chatID)

	gomock.InOrder(
		bot.EXPECT().Request(tgbotapi.PinChatMessageConfig{ChatID: chatID, MessageID: 9}).Return(&tgbotapi.APIResponse{Ok: true}, nil),
		bot.EXPECT().Request(tgbotapi.UnpinChatMessageConfig{ChatID: chatID, MessageID: 9}).Return(nil, errors.New("not pinned")),
		bot.EXPECT().Request(tgbotapi.NewDeleteMessage(chatID, 9)).Return(&tgbotapi.APIResponse{Ok: true}, nil),
	)

	if err := client.Pin(ctx, 9); err != nil {
		t.Errorf("Pin() unexpected error: %v", err)
	}
	if err := client.Unpin(ctx, 9); err == nil {
		t.Error("Unpin() expected error")
	}
	if err := client.Delete(ctx, 9); err != nil {
		t.Errorf("Delete() unexpected error: %v", err)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("Expected nil for nil error")
	}

	plain := errors.New("Bad Request: can't parse entities: Can't find end of Bold entity at byte offset 7")
	pe, ok := AsParseError(classify(plain))
	if !ok || pe.Offset != 7 || !errors.Is(pe, plain) {
		t.Errorf("Unexpected classification %v", pe)
	}
}
