package logger

import "log/slog"

// Domain identifiers

func Conversation(id int64) slog.Attr {
	return slog.Int64("conversation_id", id)
}

func Sender(id int64) slog.Attr {
	return slog.Int64("sender_id", id)
}

func User(id int64) slog.Attr {
	return slog.Int64("user_id", id)
}

// Error handling

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
